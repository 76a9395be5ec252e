// Package slang rewrites streaming and gaming slang into plain language so
// that general purpose classifiers can score it.
package slang

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Table is an immutable, ordered slang table. Replacements run in table
// order, and each pass sees the output of the previous one.
type Table struct {
	entries []Entry
}

// NewTable merges the vocabularies in the order given. A token keeps the
// position where it was first defined and takes the replacement of the last
// vocabulary that defines it.
func NewTable(vocabularies ...Vocabulary) *Table {
	index := make(map[string]int)
	var merged []Entry

	for _, vocab := range vocabularies {
		for _, entry := range vocab.Entries {
			if i, ok := index[entry.Token]; ok {
				merged[i].Replacement = entry.Replacement
				continue
			}
			index[entry.Token] = len(merged)
			merged = append(merged, entry)
		}
	}

	return &Table{entries: merged}
}

// Len returns the number of distinct tokens in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the merged entries in replacement order.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Normalize replaces every whole-word occurrence of each token with its
// replacement.
func (t *Table) Normalize(text string) string {
	for _, e := range t.entries {
		text = replaceWholeWord(text, e.Token, e.Replacement)
	}
	return text
}

// replaceWholeWord replaces occurrences of token that sit on word boundaries
// at both ends. Word characters are Unicode letters, numbers and underscore.
func replaceWholeWord(text, token, replacement string) string {
	if token == "" {
		return text
	}

	var b strings.Builder
	pos, last := 0, 0
	for pos <= len(text) {
		i := strings.Index(text[pos:], token)
		if i < 0 {
			break
		}
		start := pos + i
		end := start + len(token)

		if isBoundary(text, start) && isBoundary(text, end) {
			b.WriteString(text[last:start])
			b.WriteString(replacement)
			last, pos = end, end
			continue
		}

		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + size
	}

	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

// isBoundary reports whether exactly one side of byte offset i is a word
// character. The ends of text count as non-word.
func isBoundary(text string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:i])
		before = isWordRune(r)
	}
	if i < len(text) {
		r, _ := utf8.DecodeRuneInString(text[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

var (
	defaultTable     *Table
	defaultTableOnce sync.Once
)

// DefaultTable returns the process-wide table built from DefaultVocabularies.
func DefaultTable() *Table {
	defaultTableOnce.Do(func() {
		defaultTable = NewTable(DefaultVocabularies...)
	})
	return defaultTable
}

// Normalize runs text through the default table.
func Normalize(text string) string {
	return DefaultTable().Normalize(text)
}
