package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextPlainText(t *testing.T) {
	content := "Operating systems schedule processes onto CPUs."
	header := testFileHeader(t, "notes.txt", content)

	assert.Equal(t, content, ExtractText(header))
}

func TestExtractTextUnknownTypeGetsStub(t *testing.T) {
	header := testFileHeader(t, "diagram.png", "\x89PNG not really")

	text := ExtractText(header)
	assert.Contains(t, text, "diagram.png")
	assert.Contains(t, text, "could not be extracted")
}

func TestExtractTextCorruptPDFGetsStub(t *testing.T) {
	// not a PDF at all; the parser fails but extraction still returns text
	header := testFileHeader(t, "broken.pdf", "this is not a pdf")

	text := ExtractText(header)
	require.NotEmpty(t, text)
	assert.Contains(t, text, "broken.pdf")
}

func TestExtractTextEmptyFileGetsStub(t *testing.T) {
	header := testFileHeader(t, "empty.txt", "   ")

	text := ExtractText(header)
	assert.Contains(t, text, "empty.txt")
}

func TestMinLengthGateIsCallerSide(t *testing.T) {
	// the extractor returns short text as-is; the length gate lives in the
	// upload handler
	short := "tiny"
	header := testFileHeader(t, "short.txt", short)

	text := ExtractText(header)
	assert.Equal(t, short, text)
	assert.Less(t, len(strings.TrimSpace(text)), MinExtractedLength)
}
