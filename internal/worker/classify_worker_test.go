package worker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText(t *testing.T) {
	text := strings.Repeat("a", 1000)
	chunks := chunkText(text, 512, 64)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 512)
	assert.Len(t, chunks[1], 512)

	// overlap: second chunk starts 448 runes in
	assert.Equal(t, text[448:960], chunks[1])
}

func TestChunkTextShortInput(t *testing.T) {
	chunks := chunkText("hello", 512, 64)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello", chunks[0])

	assert.Empty(t, chunkText("", 512, 64))
}

func TestChunkTextNoOverlapOnlyTail(t *testing.T) {
	// 500 runes fit in one 512-rune chunk; a trailing chunk made
	// entirely of overlapped content must not be emitted
	text := strings.Repeat("b", 500)
	chunks := chunkText(text, 512, 64)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestChunkTextMultibyte(t *testing.T) {
	text := strings.Repeat("文", 600)
	chunks := chunkText(text, 512, 64)
	require.Len(t, chunks, 2)
	// boundaries fall on runes, not bytes
	assert.Equal(t, 512, len([]rune(chunks[0])))
}
