package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextToChunksShortTextSingleChunk(t *testing.T) {
	chunks := splitTextToChunksByByte("hello world.", 4500)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world.", chunks[0])
}

func TestSplitTextToChunksPrefersSentenceBoundary(t *testing.T) {
	text := strings.Repeat("x", 90) + ". " + strings.Repeat("y", 90)
	chunks := splitTextToChunksByByte(text, 100)

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.True(t, strings.HasSuffix(chunks[0], "."))
}

func TestSplitTextToChunksRespectsByteLimitWithSentences(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("This is a sentence. ")
	}
	chunks := splitTextToChunksByByte(b.String(), 500)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 500, "chunk %d over limit", i)
	}
	assert.Equal(t, b.String(), strings.Join(chunks, ""))
}

func TestSplitTextToChunksNeverSplitsUTF8(t *testing.T) {
	text := strings.Repeat("é", 300) // 2 bytes each, no punctuation
	chunks := splitTextToChunksByByte(text, 101) // odd limit forces a mid-rune cut

	for i, chunk := range chunks {
		assert.True(t, strings.HasPrefix(text, chunk) || len(chunk) > 0)
		for _, r := range chunk {
			assert.NotEqual(t, '�', r, "chunk %d contains a broken rune", i)
		}
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}
