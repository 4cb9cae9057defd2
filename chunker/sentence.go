package chunker

import (
	"fmt"

	"github.com/rivo/uniseg"

	"github.com/az-ai-labs/textseg/segment"
)

// BySentence groups the sentences of text, as segmented for l, into chunks
// of up to size grapheme clusters.
//
// Overlap re-includes whole trailing sentences from the previous chunk.
// When the last sentence of the previous chunk exceeds the overlap budget,
// overlap is skipped for that boundary.
//
// A single sentence exceeding size is emitted as-is (size is a target,
// not a hard cap). Original inter-sentence whitespace is preserved.
//
// Returns nil for empty text, invalid UTF-8, or size <= 0.
func BySentence(text string, l segment.Language, size, overlap int) ([]Chunk, error) {
	if l == nil {
		return nil, fmt.Errorf("chunker: %w", segment.ErrNilLanguage)
	}
	if !validate(text) || size <= 0 {
		return nil, nil
	}

	sentences, err := segment.Sentences(text, l)
	if err != nil {
		return nil, fmt.Errorf("chunker: %w", err)
	}
	return bySentence(text, sentences, size, clampOverlap(size, overlap)), nil
}

func bySentence(text string, sentences []segment.Sentence, size, overlap int) []Chunk {
	if len(sentences) == 0 {
		return nil
	}

	units := make([]int, len(sentences))
	for i, s := range sentences {
		units[i] = uniseg.GraphemeClusterCount(s.Text)
	}

	chunks := make([]Chunk, 0, len(sentences)/2+1)
	groupStart := 0

	for groupStart < len(sentences) && len(chunks) < maxChunks {
		groupEnd := groupStart
		count := 0
		for groupEnd < len(sentences) {
			if count > 0 && count+units[groupEnd] > size {
				break
			}
			count += units[groupEnd]
			groupEnd++
		}

		chunks = append(chunks, newChunk(text,
			sentences[groupStart].Begin, sentences[groupEnd-1].End, len(chunks)))

		// Walk back over the trailing sentences that fit the overlap budget.
		// groupStart always advances by at least one sentence.
		carried := 0
		if overlap > 0 && groupEnd < len(sentences) {
			budget := 0
			for i := groupEnd - 1; i > groupStart; i-- {
				if budget+units[i] > overlap {
					break
				}
				budget += units[i]
				carried++
			}
		}
		groupStart = groupEnd - carried
	}

	return chunks
}
