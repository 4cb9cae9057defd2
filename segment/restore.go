package segment

// restore expands the placeholders of one masked sentence and places it in
// the original text.
//
// maskedBegin is the sentence's offset in the masked text and shift the sum
// of len(restored)-len(masked) over all sentences restored before it in the
// same run. Blank runs between sentences never hold placeholders, so they
// have the same length in both texts and shift alone maps masked offsets to
// original ones. The updated shift is returned.
func restore(masked string, maskedBegin, shift int, t *Table) (Sentence, int) {
	text := t.Expand(masked)
	return newSentence(text, maskedBegin+shift), shift + len(text) - len(masked)
}
