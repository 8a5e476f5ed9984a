package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spherical/gazette-extractor/cmd/gazette-extractor/ui"
	"github.com/spherical/gazette-extractor/internal/config"
	"github.com/spherical/gazette-extractor/internal/observability"
	"github.com/spherical/gazette-extractor/pkg/extractor"
)

const version = "1.0.0"

var (
	cfgFile    string
	inputDir   string
	outputPath string
	verbose    bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "gazette-extractor",
	Short: "Extract company records from scanned Belgian gazette notices",
	Long: `gazette-extractor renders every PDF in a directory, cleans and OCRs each page,
asks a chat-completion model for the company name, identifier, document purpose
and key points, and writes all results to a single JSON file.`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.Init(noColor)
	},
	RunE: run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.Flags().StringVarP(&inputDir, "dir", "d", "", "directory containing PDF files (default: PDF_DIRECTORY or current directory)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output JSON file (default: "+config.DefaultOutputPath+")")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if inputDir != "" {
		cfg.Input.Directory = inputDir
	}
	if outputPath != "" {
		cfg.Output.Path = outputPath
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger := observability.NewLogger(observability.LogConfig{
		Level:   level,
		Format:  cfg.Log.Format,
		NoColor: noColor,
	})

	client, err := extractor.NewClientWithConfig(cfg, extractor.WithLogger(logger))
	if err != nil {
		return err
	}

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	eventCh := make(chan extractor.StreamEvent, 100)
	done := make(chan struct{})
	go func() {
		renderEvents(eventCh)
		close(done)
	}()

	_, err = client.Run(ctx, eventCh)
	close(eventCh)
	<-done
	if err != nil {
		return err
	}

	ui.Success("Data extraction complete. Results saved to %s", cfg.Output.Path)
	return nil
}

// renderEvents drives the progress bar until eventCh is closed.
func renderEvents(eventCh <-chan extractor.StreamEvent) {
	var bar *ui.ProgressBar

	for event := range eventCh {
		switch event.Type {
		case extractor.EventStart:
			ui.Message("%v", event.Payload)
			if event.Total > 0 {
				bar = ui.NewProgressBar(os.Stderr, event.Total)
			}

		case extractor.EventDocumentProcessing:
			if bar != nil {
				bar.Describe(fmt.Sprintf("Processing %s", event.Document))
			}

		case extractor.EventParseFallback:
			if bar != nil {
				fmt.Fprintln(os.Stderr)
			}
			ui.Warning("%s: %v", event.Document, event.Payload)

		case extractor.EventDocumentComplete:
			if bar != nil {
				bar.Set(event.Index)
			}

		case extractor.EventError:
			if bar != nil {
				fmt.Fprintln(os.Stderr)
			}

		case extractor.EventComplete:
			if bar != nil {
				bar.Finish()
			}
			if stats, ok := event.Payload.(extractor.BatchStats); ok && stats.ParseFallbacks > 0 {
				ui.Warning("%d of %d documents kept as raw text", stats.ParseFallbacks, stats.Documents)
			}
		}
	}
}
