package llm

// SystemMessage is the fixed system instruction sent with every request.
const SystemMessage = "You are a helpful assistant."

const promptTemplate = `
Analyze the following text and extract the relevant business information.
Return ONLY a JSON object with the following structure, and ensure all values are strings:
{
    "company_name": "name or null if not found",
    "company_identifier": "identifier or null if not found",
    "document_purpose": "purpose or null if not found",
    "additional_information": {
        "key_points": ["point1", "point2", etc.]
    }
}

If any information is not found, use null instead of leaving it empty or writing "not mentioned".
Ensure the response is a valid JSON object that a strict JSON parser accepts.
Only return the information requested, do not provide interactive messages like "Certainly, here is the..."
Translate the values for the following keys: document_purpose, additional_information and key_points from whichever language they are in into English.
When the additional information contains a temporal expression (e.g. from "today", as of "today") but we don't know when that "today" happened,
add between parentheses the date of the document, if there is one.

Text to analyze:
`

// BuildPrompt embeds the OCR text of one document into the extraction instruction.
func BuildPrompt(text string) string {
	return promptTemplate + text + "\n"
}
