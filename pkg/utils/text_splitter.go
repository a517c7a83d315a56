package utils

import "unicode"

// SplitText splits text into chunks of at most chunkSize runes, each starting
// overlap runes before the end of the previous one. A chunk ends at the last
// whitespace in its final fifth when there is one, so words are rarely cut.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	totalLen := len(runes)
	if chunkSize <= 0 || totalLen <= chunkSize {
		return []string{text}
	}

	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	var chunks []string
	for start := 0; start < totalLen; {
		end := start + chunkSize
		if end >= totalLen {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		if cut := lastSpace(runes, end-chunkSize/5, end); cut > start+overlap {
			end = cut
		}
		chunks = append(chunks, string(runes[start:end]))

		start = end - overlap
	}

	return chunks
}

// lastSpace returns the index just after the last whitespace in runes[from:to], or -1.
func lastSpace(runes []rune, from, to int) int {
	if from < 0 {
		from = 0
	}
	for i := to - 1; i >= from; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return -1
}
