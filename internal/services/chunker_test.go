package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextShortInput(t *testing.T) {
	chunks := ChunkText("A short job description.", 1000, 100)
	require.Len(t, chunks, 1)
	assert.Equal(t, "A short job description.", chunks[0])
}

func TestChunkTextEmptyInput(t *testing.T) {
	assert.Empty(t, ChunkText("", 1000, 100))
	assert.Empty(t, ChunkText("\n\n\n\n", 1000, 100))
}

func TestChunkTextSplitsOnParagraphs(t *testing.T) {
	para := strings.Repeat("word ", 30)
	text := strings.TrimSpace(para) + "\n\n" + strings.TrimSpace(para) + "\n\n" + strings.TrimSpace(para)

	chunks := ChunkText(text, 200, 0)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 200)
	}
}

func TestChunkTextOversizedParagraphSplitsOnSentences(t *testing.T) {
	sentence := strings.Repeat("alpha beta gamma ", 5) + "ends here."
	text := strings.Repeat(sentence+" ", 10)

	chunks := ChunkText(text, 300, 0)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestChunkTextOverlapCarriesTail(t *testing.T) {
	first := strings.Repeat("a", 150)
	second := strings.Repeat("b", 150)
	text := first + "\n\n" + second

	chunks := ChunkText(text, 180, 20)
	require.Len(t, chunks, 2)
	assert.Equal(t, first, chunks[0])
	assert.True(t, strings.HasPrefix(chunks[1], strings.Repeat("a", 20)), "second chunk starts with the previous tail")
}

func TestChunkTextDefaultsOnBadArguments(t *testing.T) {
	chunks := ChunkText("some text", 0, -5)
	require.Len(t, chunks, 1)
	assert.Equal(t, "some text", chunks[0])
}
