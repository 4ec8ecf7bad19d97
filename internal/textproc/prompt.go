package textproc

import "fmt"

// buildPrompt asks for cleaned text and a summary, both translated, as JSON
func buildPrompt(text, languageName string) string {
	return fmt.Sprintf(`You are a multilingual text processing assistant. Given the following article text, perform these tasks:

1. Clean the text by fixing grammar, improving structure, removing noise (like ads, navigation text), while preserving all facts and original meaning.
2. Create a concise one-paragraph summary (2-3 sentences) of the main points.
3. Translate BOTH the cleaned text and summary to %[1]s.

IMPORTANT: The output must be ENTIRELY in %[1]s. Every word of both the cleaned_text and summary must be translated to %[1]s.

Return your response ONLY as valid JSON with this exact structure:
{"cleaned_text": "the cleaned and translated full article text in %[1]s", "summary": "the translated summary in %[1]s"}

Do not include any other text, explanations, or markdown formatting. Just the JSON with content in %[1]s.

Article text:
%[2]s

JSON Response in %[1]s:`, languageName, text)
}

// buildTranslatePrompt asks for a plain translation, nothing else
func buildTranslatePrompt(text, languageName string) string {
	return fmt.Sprintf("Translate this text to %s, return only the translation:\n\n%s", languageName, text)
}
