package tokenizer

import "unicode/utf8"

// CharOffsets returns the byte offset of the start of every character in
// s, followed by a final entry equal to len(s). The result always has
// CharCount(s)+1 entries. Decoding is lenient: a malformed byte sequence
// is treated as a single-byte character, matching utf8.DecodeRuneInString's
// own RuneError/size-1 behavior on invalid input.
func CharOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := 0; i < len(s); {
		offsets = append(offsets, i)
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	offsets = append(offsets, len(s))
	return offsets
}

// CharCount returns the number of characters in s under the same lenient
// decoding as CharOffsets.
func CharCount(s string) int {
	n := 0
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n++
	}
	return n
}
