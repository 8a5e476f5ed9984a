// Package ui provides terminal output for the gazette-extractor CLI.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// Init applies the colour setting for the whole process.
func Init(noColor bool) {
	if noColor {
		color.NoColor = true
	}
}

// ProgressBar shows how many documents of a batch are done.
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a bar over total documents writing to w.
func NewProgressBar(w io.Writer, total int) *ProgressBar {
	bar := progressbar.NewOptions(
		total,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("docs"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &ProgressBar{bar: bar}
}

// Describe replaces the text shown left of the bar.
func (p *ProgressBar) Describe(description string) {
	p.bar.Describe(description)
}

// Set moves the bar to current completed documents.
func (p *ProgressBar) Set(current int) {
	_ = p.bar.Set(current)
}

// Finish completes the bar.
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}

// Message prints a plain line to stdout.
func Message(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}

// Success prints a green line to stdout.
func Success(format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(os.Stdout, "✓ %s\n", fmt.Sprintf(format, args...))
}

// Warning prints a yellow line to stdout.
func Warning(format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(os.Stdout, "⚠ %s\n", fmt.Sprintf(format, args...))
}

// Error prints a red line to stderr.
func Error(format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(os.Stderr, "✗ %s\n", fmt.Sprintf(format, args...))
}
