// Package chunker groups text into size-bounded chunks for indexers and
// retrieval pipelines.
//
// Two strategies are provided:
//
//   - BySize: grapheme-count splitting with no language awareness.
//   - BySentence: groups whole sentences found by the segment package.
//
// Sizes and overlaps are measured in grapheme clusters, so a combining
// sequence or an emoji with modifiers counts as one unit and is never cut.
//
// Every Chunk carries byte offsets into the input; text[c.Start:c.End] ==
// c.Text holds for every chunk produced from valid UTF-8 input.
//
// All functions are safe for concurrent use by multiple goroutines.
//
// Known limitations:
//
//   - The size parameter is a target for BySentence, not a hard cap.
//     A single sentence exceeding size is emitted as-is.
//   - Overlap in BySentence is whole sentences only.
package chunker

import (
	"fmt"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

const (
	maxChunks     = 10_000 // safety cap on output slice length
	minChunkUnits = 10     // trailing chunks shorter than this are merged
)

// Chunk is a contiguous slice of the input.
type Chunk struct {
	Text  string `json:"text"`  // The chunk content
	Start int    `json:"start"` // Byte offset in original string (inclusive)
	End   int    `json:"end"`   // Byte offset in original string (exclusive)
	Index int    `json:"index"` // Zero-based chunk index
}

// String returns a debug representation, e.g. Chunk(0)[0:42](42 bytes).
func (c Chunk) String() string {
	return fmt.Sprintf("Chunk(%d)[%d:%d](%d bytes)", c.Index, c.Start, c.End, len(c.Text))
}

// validate reports whether text can be chunked at all.
func validate(text string) bool {
	return text != "" && utf8.ValidString(text)
}

// clampOverlap keeps overlap within [0, size-1].
func clampOverlap(size, overlap int) int {
	if overlap < 0 {
		return 0
	}
	if overlap >= size {
		return size - 1
	}
	return overlap
}

// BySize splits text into chunks of size grapheme clusters, each starting
// size-overlap clusters after the previous one.
// Returns nil for empty text, invalid UTF-8, or size <= 0.
func BySize(text string, size, overlap int) []Chunk {
	if !validate(text) || size <= 0 {
		return nil
	}
	overlap = clampOverlap(size, overlap)

	offsets := graphemeOffsets(text)
	total := len(offsets) - 1
	step := size - overlap

	chunks := make([]Chunk, 0, min(total/step+1, maxChunks))
	for pos := 0; pos < total && len(chunks) < maxChunks; pos += step {
		end := min(pos+size, total)

		if n := end - pos; n < minChunkUnits && n < size && len(chunks) > 0 {
			// Merge a short trailing fragment into the previous chunk.
			prev := &chunks[len(chunks)-1]
			prev.End = offsets[end]
			prev.Text = text[prev.Start:prev.End]
			break
		}

		chunks = append(chunks, newChunk(text, offsets[pos], offsets[end], len(chunks)))
		if end == total {
			break
		}
	}
	return chunks
}

func newChunk(text string, start, end, index int) Chunk {
	return Chunk{Text: text[start:end], Start: start, End: end, Index: index}
}

// graphemeOffsets returns the byte offset of every grapheme cluster start in
// text followed by len(text).
func graphemeOffsets(text string) []int {
	offsets := make([]int, 0, utf8.RuneCountInString(text)+1)
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		from, _ := g.Positions()
		offsets = append(offsets, from)
	}
	return append(offsets, len(text))
}
