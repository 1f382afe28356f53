package services

import (
	"context"
	"regexp"
	"strings"
)

var (
	reTOC          = regexp.MustCompile(`(?im)^.*table of contents.*$`)
	rePageNumber   = regexp.MustCompile(`(?im)^.*page[^\d]*\d+.*$`)
	reSpecialLines = regexp.MustCompile(`(?m)^[\s\W\d]*$`)
	reCodeLines    = regexp.MustCompile(`(?im)^.*(const |function |class |<[^>]+>).*?$`)
	reMultiNewLine = regexp.MustCompile(`\n{2,}`)
)

// PreCleanText strips table-of-contents lines, page numbers, code fragments
// and runs of blank lines before the text goes to a model.
func PreCleanText(text string) string {
	cleaned := text
	cleaned = reTOC.ReplaceAllString(cleaned, "")
	cleaned = rePageNumber.ReplaceAllString(cleaned, "")
	cleaned = reSpecialLines.ReplaceAllString(cleaned, "")
	cleaned = reCodeLines.ReplaceAllString(cleaned, "")
	cleaned = reMultiNewLine.ReplaceAllString(cleaned, "\n")
	return strings.TrimSpace(cleaned)
}

// CleanWithGemini normalizes extracted text for downstream generation.
func CleanWithGemini(ctx context.Context, text string) (string, error) {
	prompt := `You are a text processing tool for document extracts.
Process the following text:
- Remove table-of-contents sections, page-number lines, repeated headings
- Remove code samples and technical markup
- Collapse extra blank lines and stray characters
- Break into readable paragraphs
- Keep the content exactly as written, add nothing, explain nothing
- Plain text only, no markdown, no bold or italics
Text to clean:`

	return GeminiGenerateText(ctx, prompt+"\n\n"+text)
}

// CleanTextPipeline is the main cleaning path: regex pass, then Gemini.
func CleanTextPipeline(ctx context.Context, rawText string) (string, error) {
	preCleaned := PreCleanText(rawText)
	return CleanWithGemini(ctx, preCleaned)
}
