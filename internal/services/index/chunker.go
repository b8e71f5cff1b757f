package index

import (
	"strings"
)

// boundaryWindow is how far back from the window end the chunker scans for
// a sentence boundary before giving up and cutting mid-sentence.
const boundaryWindow = 100

// ChunkText splits text into overlapping windows of at most size characters.
// Each window prefers to end just after a '.' or '\n' found within the last
// boundaryWindow characters of the window, so chunks break on sentence or
// line boundaries when possible. Consecutive chunks share overlap characters.
// Chunks are trimmed and empty chunks are dropped.
//
// The split is deterministic: the same text with the same size and overlap
// always produces the same chunk list.
func ChunkText(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}

	var chunks []string
	n := len(text)
	start := 0

	for start < n {
		end := start + size
		if end >= n {
			end = n
		} else {
			// Scan backward for a sentence or line boundary and snap the
			// window end just past it.
			limit := end - boundaryWindow
			if limit < start+1 {
				limit = start + 1
			}
			for i := end; i > limit; i-- {
				c := text[i-1]
				if c == '.' || c == '\n' {
					end = i
					break
				}
			}
		}

		chunk := strings.TrimSpace(text[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= n {
			break
		}

		next := end - overlap
		if next <= start {
			// Boundary snapping shortened the window below the overlap;
			// advance past the window end to guarantee progress.
			next = end
		}
		start = next
	}

	return chunks
}
