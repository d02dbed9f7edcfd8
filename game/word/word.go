// Package word answers whether a word may be played.  The dictionary is
// loaded once at startup and is safe for concurrent lookups from many rooms.
package word

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Wildcard in a query matches any single letter.  Jokers contribute a
// wildcard to the words they are part of.
const Wildcard = '?'

type (
	// Checker determines if words can be played.
	Checker interface {
		// IsValid reports whether the word may be played.  Lookups are
		// case-insensitive, deterministic, and side-effect-free.
		IsValid(word string) bool
	}

	// Dictionary is a word list bucketed by length so wildcard queries only
	// scan candidates of the right size.
	Dictionary struct {
		byLen     map[int]map[string]struct{}
		size      int
		wildcards *wildcardCache
	}

	// AcceptAll approves every word.  It stands in for the dictionary when no
	// word list can be found so games stay playable.
	AcceptAll struct{}
)

// IsValid approves the word.
func (AcceptAll) IsValid(word string) bool {
	return true
}

// NewDictionary reads a newline-delimited word list.  Words are trimmed and
// uppercased; empty lines are ignored.
func NewDictionary(r io.Reader) (*Dictionary, error) {
	d := Dictionary{
		byLen:     make(map[int]map[string]struct{}),
		wildcards: newWildcardCache(wildcardCacheSize),
	}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if len(w) == 0 {
			continue
		}
		bucket, ok := d.byLen[len(w)]
		if !ok {
			bucket = make(map[string]struct{})
			d.byLen[len(w)] = bucket
		}
		if _, ok := bucket[w]; !ok {
			bucket[w] = struct{}{}
			d.size++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading word list: %w", err)
	}
	return &d, nil
}

// Len is the number of distinct words loaded.
func (d *Dictionary) Len() int {
	return d.size
}

// IsValid reports whether the word is in the list.  A Wildcard in the word
// matches any single letter, so "C?T" is valid if any of CAT, COT, CUT, ...
// is.
func (d *Dictionary) IsValid(word string) bool {
	w := strings.ToUpper(strings.TrimSpace(word))
	if len(w) == 0 {
		return false
	}
	if !strings.ContainsRune(w, Wildcard) {
		_, ok := d.byLen[len(w)][w]
		return ok
	}
	return d.wildcards.lookup(w, d.matchWildcard)
}

// matchWildcard scans the query's length bucket for a word agreeing with the
// query on every non-wildcard position.
func (d *Dictionary) matchWildcard(query string) bool {
	for candidate := range d.byLen[len(query)] {
		if matches(query, candidate) {
			return true
		}
	}
	return false
}

func matches(query, candidate string) bool {
	for i := 0; i < len(query); i++ {
		if query[i] != Wildcard && query[i] != candidate[i] {
			return false
		}
	}
	return true
}
