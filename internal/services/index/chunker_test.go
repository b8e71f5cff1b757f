package index

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText_Empty(t *testing.T) {
	assert.Nil(t, ChunkText("", 1000, 200))
	assert.Nil(t, ChunkText("   \n\t  ", 1000, 200))
}

func TestChunkText_ShortText(t *testing.T) {
	chunks := ChunkText("short document.", 1000, 200)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short document.", chunks[0])
}

func TestChunkText_SentenceBoundary(t *testing.T) {
	// First sentence ends within the boundary scan window of the first
	// chunk, so the chunk should snap to the period instead of cutting
	// mid-sentence.
	first := strings.Repeat("a", 150) + "."
	second := " " + strings.Repeat("b", 200)
	chunks := ChunkText(first+second, 200, 50)

	require.NotEmpty(t, chunks)
	assert.Equal(t, first, chunks[0])
}

func TestChunkText_NewlineBoundary(t *testing.T) {
	line := strings.Repeat("x", 180) + "\n"
	text := line + strings.Repeat("y", 300)
	chunks := ChunkText(text, 200, 50)

	require.NotEmpty(t, chunks)
	assert.Equal(t, strings.Repeat("x", 180), chunks[0])
}

func TestChunkText_Overlap(t *testing.T) {
	// No boundary characters, so chunks cut at exact window edges and
	// consecutive chunks share exactly overlap characters.
	text := strings.Repeat("z", 2500)
	chunks := ChunkText(text, 1000, 200)

	require.True(t, len(chunks) >= 3)
	assert.Len(t, chunks[0], 1000)
	// Second chunk starts at 800, so its first 200 chars equal the first
	// chunk's last 200 chars.
	assert.Equal(t, chunks[0][800:], chunks[1][:200])
}

func TestChunkText_Deterministic(t *testing.T) {
	text := "The quick brown fox. " + strings.Repeat("Jumped over the lazy dog. ", 100)
	a := ChunkText(text, 300, 60)
	b := ChunkText(text, 300, 60)
	assert.Equal(t, a, b)
}

func TestChunkText_CoversAllText(t *testing.T) {
	// Every non-whitespace region of the input appears in some chunk.
	text := "First sentence here. Second sentence follows. " + strings.Repeat("More content. ", 200)
	chunks := ChunkText(text, 250, 50)

	joined := strings.Join(chunks, " ")
	for _, word := range []string{"First", "Second", "More"} {
		assert.Contains(t, joined, word)
	}

	// Last chunk ends with the final text content.
	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), last))
}

func TestChunkText_DegenerateSizes(t *testing.T) {
	assert.Nil(t, ChunkText("abc", 0, 0))
	assert.Nil(t, ChunkText("abc", -5, 0))

	// Overlap >= size must still terminate.
	chunks := ChunkText(strings.Repeat("w", 50), 10, 10)
	assert.NotEmpty(t, chunks)
}
