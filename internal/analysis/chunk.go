package analysis

import "strings"

// Words splits text on runs of whitespace.
func Words(text string) []string {
	return strings.Fields(text)
}

// Chunk groups words into contiguous chunks of size words, joined by single
// spaces. The last chunk may be shorter.
func Chunk(words []string, size int) []string {
	if size <= 0 || len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+size-1)/size)
	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
