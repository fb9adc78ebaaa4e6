// Package tokenizer splits text into tokens from a vocabulary and counts them,
// producing the input for huffman.Build.
package tokenizer

import (
	"errors"
	"fmt"
	"unicode/utf8"

	huffman "github.com/chronos-tachyon/huffcode"
)

// ErrUnrecognizedInput is returned when no vocabulary entry prefixes the
// remaining text.
var ErrUnrecognizedInput = errors.New("unrecognized input")

// maxQuoted bounds how much of the offending remainder is quoted in errors.
const maxQuoted = 32

// Result is the outcome of Tokenize.
type Result struct {
	// Tokens is the input text as a sequence of vocabulary entries.
	Tokens []huffman.Symbol

	// Counts lists every distinct, non-empty vocabulary entry in
	// vocabulary order with its number of occurrences in Tokens.  Entries
	// that never occur are listed with a count of 0.
	Counts []huffman.SymbolCount
}

// Vocabulary is a compiled token vocabulary.  It is immutable and safe for
// concurrent use.
type Vocabulary struct {
	root    *trie
	entries []huffman.Symbol
}

// NewVocabulary compiles a vocabulary.  Empty entries are dropped, and for
// duplicated entries only the first occurrence is kept.
func NewVocabulary(words []string) *Vocabulary {
	v := &Vocabulary{root: newTrie(), entries: make([]huffman.Symbol, 0, len(words))}
	for _, word := range words {
		if word == "" {
			continue
		}
		if v.root.insert(word, len(v.entries)) {
			v.entries = append(v.entries, huffman.Symbol(word))
		}
	}
	return v
}

// Len returns the number of distinct entries in this Vocabulary.
func (v *Vocabulary) Len() int {
	return len(v.entries)
}

// Entries returns the distinct entries in this Vocabulary, in order.
func (v *Vocabulary) Entries() []huffman.Symbol {
	return append([]huffman.Symbol(nil), v.entries...)
}

// Tokenize partitions text by repeatedly taking the longest vocabulary entry
// that prefixes the remaining text.  If at some point no entry matches, it
// returns an error wrapping ErrUnrecognizedInput that quotes the remainder.
func (v *Vocabulary) Tokenize(text string) (*Result, error) {
	counts := make([]uint64, len(v.entries))
	var tokens []huffman.Symbol
	for pos := 0; pos < len(text); {
		index, size := v.root.longestMatch(text[pos:])
		if index < 0 {
			return nil, fmt.Errorf("%w at byte %d: %q", ErrUnrecognizedInput, pos, quoteable(text[pos:]))
		}
		tokens = append(tokens, v.entries[index])
		counts[index]++
		pos += size
	}
	return &Result{
		Tokens: tokens,
		Counts: huffman.MakeSymbolCounts(v.entries, counts),
	}, nil
}

// Tokenize is a convenience function equivalent to
// NewVocabulary(vocabulary).Tokenize(text).
func Tokenize(text string, vocabulary []string) (*Result, error) {
	return NewVocabulary(vocabulary).Tokenize(text)
}

// Characters returns the distinct characters of text in order of first
// appearance, for use as a vocabulary.  A byte that does not start a valid
// UTF-8 sequence is its own one-byte character, so the result always covers
// text.
func Characters(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for pos := 0; pos < len(text); {
		_, size := utf8.DecodeRuneInString(text[pos:])
		ch := text[pos : pos+size]
		pos += size
		if _, found := seen[ch]; found {
			continue
		}
		seen[ch] = struct{}{}
		out = append(out, ch)
	}
	return out
}

func quoteable(rest string) string {
	if len(rest) <= maxQuoted {
		return rest
	}
	cut := maxQuoted
	for cut > 0 && !utf8.RuneStart(rest[cut]) {
		cut--
	}
	return rest[:cut] + "..."
}
