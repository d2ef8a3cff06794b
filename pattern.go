// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markstyle

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// ErrTimeout is returned when a match takes longer than its engine allows.
var ErrTimeout = errors.New("markstyle: match timed out")

// A PatternCompileError reports a pattern that an [Engine] rejected.
type PatternCompileError struct {
	Pattern string
	Err     error
}

func (e *PatternCompileError) Error() string {
	return fmt.Sprintf("markstyle: invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternCompileError) Unwrap() error { return e.Err }

// A Match is one occurrence of a pattern in a buffer's text.
// Offsets are bytes and are valid only until the text changes.
type Match struct {
	Range
	Groups []Range // capture groups; {-1, -1} if a group did not participate
}

// Group returns capture group i and reports whether it participated.
func (m Match) Group(i int) (Range, bool) {
	if i <= 0 || i > len(m.Groups) {
		return Range{-1, -1}, false
	}
	g := m.Groups[i-1]
	return g, g.Start >= 0
}

// offset returns m with every participating range moved by d.
func (m Match) offset(d int) Match {
	if d == 0 {
		return m
	}
	x := Match{Range: Range{m.Start + d, m.End + d}, Groups: make([]Range, len(m.Groups))}
	for i, g := range m.Groups {
		if g.Start >= 0 {
			g.Start += d
			g.End += d
		}
		x.Groups[i] = g
	}
	return x
}

// A Matcher finds matches of one compiled pattern.
type Matcher interface {
	// Find returns the leftmost match starting at or after byte from
	// and reports whether there was one. An error means the search
	// was abandoned, as when it ran past a time limit.
	Find(text string, from int) (Match, bool, error)
}

// An Engine compiles patterns into Matchers.
// Compile returns a *PatternCompileError for an invalid pattern.
type Engine interface {
	Compile(expr string) (Matcher, error)
}

// FindAll returns the non-overlapping matches of m in text, left to right.
// The sequence is computed lazily and may be iterated more than once.
// A Find error is yielded once and ends the sequence.
func FindAll(m Matcher, text string) iter.Seq2[Match, error] {
	return func(yield func(Match, error) bool) {
		for from := 0; from <= len(text); {
			x, ok, err := m.Find(text, from)
			if err != nil {
				yield(Match{}, err)
				return
			}
			if !ok || !yield(x, nil) {
				return
			}
			from = next(text, x)
		}
	}
}

// next returns the offset to resume scanning after x,
// stepping past one rune when x is empty.
func next(text string, x Match) int {
	if x.End > x.Start {
		return x.End
	}
	if x.End >= len(text) {
		return len(text) + 1
	}
	_, size := utf8.DecodeRuneInString(text[x.End:])
	return x.End + size
}

// RE2 is the default [Engine], backed by package regexp.
// Matching runs in time linear in the input.
//
// Find matches against text[from:], so ^ and \b treat from
// as the start of the input.
var RE2 Engine = re2Engine{}

type re2Engine struct{}

func (re2Engine) Compile(expr string) (Matcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &PatternCompileError{expr, err}
	}
	return re2Matcher{re}, nil
}

type re2Matcher struct {
	re *regexp.Regexp
}

func (m re2Matcher) Find(text string, from int) (Match, bool, error) {
	if from < 0 || from > len(text) {
		return Match{}, false, nil
	}
	loc := m.re.FindStringSubmatchIndex(text[from:])
	if loc == nil {
		return Match{}, false, nil
	}
	x := Match{Range: Range{loc[0] + from, loc[1] + from}}
	for i := 2; i+1 < len(loc); i += 2 {
		g := Range{-1, -1}
		if loc[i] >= 0 {
			g = Range{loc[i] + from, loc[i+1] + from}
		}
		x.Groups = append(x.Groups, g)
	}
	return x, true, nil
}

// Backtrack is an [Engine] backed by github.com/dlclark/regexp2,
// which accepts Perl and .NET syntax such as lookaround and backreferences.
// Patterns compile in regexp2's RE2 mode, so \d, \s, and \w
// match the same characters as in [RE2].
// A Find that runs longer than Timeout fails with [ErrTimeout];
// regexp2 checks its deadline with a coarse clock, so the limit is approximate.
//
// A Backtrack Matcher must not be used by multiple goroutines at once.
type Backtrack struct {
	Timeout time.Duration // zero means one second
}

func (e Backtrack) Compile(expr string) (Matcher, error) {
	re, err := regexp2.Compile(expr, regexp2.RE2)
	if err != nil {
		return nil, &PatternCompileError{expr, err}
	}
	re.MatchTimeout = e.Timeout
	if re.MatchTimeout <= 0 {
		re.MatchTimeout = time.Second
	}
	return &backtrackMatcher{re: re}, nil
}

// A backtrackMatcher keeps the runes of the text it last searched,
// so that repeated searches of one text decode it only once.
type backtrackMatcher struct {
	re      *regexp2.Regexp
	text    string
	runes   []rune
	offsets []int // byte offset of each rune, then len(text)
}

// Find converts between the rune offsets used by regexp2
// and the byte offsets used everywhere else.
func (m *backtrackMatcher) Find(text string, from int) (Match, bool, error) {
	if from < 0 || from > len(text) {
		return Match{}, false, nil
	}
	if m.offsets == nil || text != m.text {
		m.text = text
		m.runes = []rune(text)
		m.offsets = runeOffsets(text)
	}
	// An offset inside a rune rounds up to the next rune.
	start, _ := slices.BinarySearch(m.offsets, from)
	rm, err := m.re.FindRunesMatchStartingAt(m.runes, start)
	if err != nil {
		return Match{}, false, fmt.Errorf("%w after %v at offset %d", ErrTimeout, m.re.MatchTimeout, from)
	}
	if rm == nil {
		return Match{}, false, nil
	}
	byteRange := func(index, length int) Range {
		return Range{m.offsets[index], m.offsets[index+length]}
	}
	x := Match{Range: byteRange(rm.Index, rm.Length)}
	groups := rm.Groups()
	for _, g := range groups[1:] {
		r := Range{-1, -1}
		if len(g.Captures) > 0 {
			r = byteRange(g.Index, g.Length)
		}
		x.Groups = append(x.Groups, r)
	}
	return x, true, nil
}

// runeOffsets returns the byte offset of every rune in text,
// followed by len(text).
func runeOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}
