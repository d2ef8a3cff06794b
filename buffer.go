// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markstyle

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrRange is returned by [Buffer] edits given a range outside the text.
var ErrRange = errors.New("markstyle: range out of bounds")

// A Range is a half-open span [Start, End) of byte offsets.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes in r.
func (r Range) Len() int { return r.End - r.Start }

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// A Span is one attribute value attached to a range of a [Buffer].
type Span struct {
	Range
	Key   Key
	Value any
}

// A Buffer is a mutable string with style attributes over byte ranges.
//
// Edits keep the attributes in step with the text:
// after Delete, Insert, or Replace every span refers to
// post-edit offsets, and no span covers text that was removed.
// For an edit replacing [s, e) with t, a span
//
//   - ending at or before s is unchanged,
//   - starting at or after e moves by len(t)-(e-s),
//   - covering all of [s, e) grows or shrinks to cover t,
//   - overlapping only the start of [s, e) is cut at s,
//   - overlapping only the end of [s, e) starts after t,
//   - lying strictly inside [s, e) is dropped.
//
// A sequence of edits and attribute changes that moves left to right
// through the text costs time proportional to the text and spans it
// passes over. Going back to an earlier offset costs a full reorganization.
//
// The zero Buffer is an empty buffer ready to use.
type Buffer struct {
	// The text is head followed by tail.
	// Edits move the boundary to the edit point.
	head []byte
	tail string

	// Spans are split around cursor, the start of the latest edit.
	// Done spans end at or before the cursor and no longer change.
	// Ahead spans start at or after the end of the latest edit,
	// are sorted by Start, and are stored shift bytes before their
	// actual position. All other spans are open.
	cursor int
	shift  int
	done   []Span
	open   []Span
	ahead  []Span
}

// NewBuffer returns a buffer holding text with no attributes.
func NewBuffer(text string) *Buffer {
	return &Buffer{tail: text}
}

func (b *Buffer) String() string {
	if len(b.head) > 0 {
		b.tail = string(b.head) + b.tail
		b.head = b.head[:0]
	}
	return b.tail
}

// Len returns the length of the text in bytes.
func (b *Buffer) Len() int { return len(b.head) + len(b.tail) }

func (b *Buffer) valid(r Range) bool {
	return 0 <= r.Start && r.Start <= r.End && r.End <= b.Len()
}

// Slice returns the text in r.
func (b *Buffer) Slice(r Range) (string, error) {
	if !b.valid(r) {
		return "", ErrRange
	}
	return b.slice(r), nil
}

func (b *Buffer) slice(r Range) string {
	g := len(b.head)
	switch {
	case r.End <= g:
		return string(b.head[r.Start:r.End])
	case r.Start >= g:
		return b.tail[r.Start-g : r.End-g]
	}
	return string(b.head[r.Start:]) + b.tail[:r.End-g]
}

func (b *Buffer) byteAt(i int) byte {
	if g := len(b.head); i >= g {
		return b.tail[i-g]
	}
	return b.head[i]
}

// moveGap moves the boundary between head and tail to at.
func (b *Buffer) moveGap(at int) {
	g := len(b.head)
	if at >= g {
		b.head = append(b.head, b.tail[:at-g]...)
		b.tail = b.tail[at-g:]
		return
	}
	b.tail = string(b.head[at:]) + b.tail
	b.head = b.head[:at]
}

// Delete removes the text in r.
func (b *Buffer) Delete(r Range) error {
	return b.Replace(r, "")
}

// Insert inserts s before byte offset at.
// Spans starting at at move right; spans ending at at do not grow.
func (b *Buffer) Insert(at int, s string) error {
	return b.Replace(Range{at, at}, s)
}

// Replace replaces the text in r with s.
func (b *Buffer) Replace(r Range, s string) error {
	if !b.valid(r) {
		return ErrRange
	}
	if r.Len() == 0 && s == "" {
		return nil
	}
	b.moveGap(r.Start)
	b.tail = b.tail[r.Len():]
	b.head = append(b.head, s...)

	b.seek(r)
	delta := len(s) - r.Len()
	tail := r.Start + len(s)
	out := b.open[:0]
	for _, sp := range b.open {
		switch {
		case sp.End <= r.Start:
			// before the edit
		case sp.Start >= r.End:
			sp.Start += delta
			sp.End += delta
		case sp.Start <= r.Start && sp.End >= r.End:
			sp.End += delta
		case sp.Start < r.Start:
			sp.End = r.Start
		case sp.End > r.End:
			sp.Start = tail
			sp.End += delta
		default:
			continue
		}
		if sp.Start < sp.End {
			out = append(out, sp)
		}
	}
	clear(b.open[len(out):])
	b.open = out
	b.shift += delta
	return nil
}

// seek moves the cursor to r.Start and moves every span
// that may overlap r into b.open.
func (b *Buffer) seek(r Range) {
	if r.Start < b.cursor {
		b.reset()
	}
	b.cursor = r.Start
	for len(b.ahead) > 0 && b.ahead[0].Start+b.shift < r.End {
		sp := b.ahead[0]
		b.ahead = b.ahead[1:]
		sp.Start += b.shift
		sp.End += b.shift
		b.open = append(b.open, sp)
	}
	out := b.open[:0]
	for _, sp := range b.open {
		if sp.End <= b.cursor {
			b.done = append(b.done, sp)
		} else {
			out = append(out, sp)
		}
	}
	clear(b.open[len(out):])
	b.open = out
}

// reset moves the cursor back to the start of the text.
func (b *Buffer) reset() {
	spans := b.all()
	slices.SortFunc(spans, compareSpans)
	b.cursor, b.shift = 0, 0
	b.done, b.open, b.ahead = nil, nil, spans
}

// all returns a new slice holding every span at its actual position.
func (b *Buffer) all() []Span {
	spans := make([]Span, 0, len(b.done)+len(b.open)+len(b.ahead))
	spans = append(spans, b.done...)
	spans = append(spans, b.open...)
	for _, sp := range b.ahead {
		sp.Start += b.shift
		sp.End += b.shift
		spans = append(spans, sp)
	}
	return spans
}

// AddAttr sets key to v over r.
// Any other value of key on r is replaced; values of other keys are kept.
func (b *Buffer) AddAttr(r Range, key Key, v any) error {
	if !b.valid(r) {
		return ErrRange
	}
	if r.Len() == 0 {
		return nil
	}
	b.seek(r)
	b.removeAttr(r, key)
	b.open = append(b.open, Span{r, key, v})
	return nil
}

// AddAttrs sets every attribute in attrs over r.
func (b *Buffer) AddAttrs(r Range, attrs Attrs) error {
	if !b.valid(r) {
		return ErrRange
	}
	for _, k := range sortedKeys(attrs) {
		if err := b.AddAttr(r, k, attrs[k]); err != nil {
			return err
		}
	}
	return nil
}

// RemoveAttr clears key over r.
func (b *Buffer) RemoveAttr(r Range, key Key) error {
	if !b.valid(r) {
		return ErrRange
	}
	b.seek(r)
	b.removeAttr(r, key)
	return nil
}

// removeAttr clears key over r in the open spans,
// which after seek(r) are the only ones that can overlap r.
func (b *Buffer) removeAttr(r Range, key Key) {
	var split []Span
	out := b.open[:0]
	for _, sp := range b.open {
		if sp.Key != key || sp.End <= r.Start || sp.Start >= r.End {
			out = append(out, sp)
			continue
		}
		if sp.Start < r.Start {
			left := sp
			left.End = r.Start
			out = append(out, left)
		}
		if sp.End > r.End {
			right := sp
			right.Start = r.End
			split = append(split, right)
		}
	}
	clear(b.open[len(out):])
	b.open = append(out, split...)
}

// Attr returns the value of key at byte offset at.
func (b *Buffer) Attr(at int, key Key) (any, bool) {
	var v any
	found := false
	b.visit(at, func(sp Span) bool {
		if sp.Key == key {
			v, found = sp.Value, true
			return false
		}
		return true
	})
	return v, found
}

// Attrs returns all attribute values at byte offset at.
func (b *Buffer) Attrs(at int) Attrs {
	attrs := make(Attrs)
	b.visit(at, func(sp Span) bool {
		attrs[sp.Key] = sp.Value
		return true
	})
	return attrs
}

// visit calls f for each span containing at until f returns false.
// Only spans near the cursor are examined when at is at or after it.
func (b *Buffer) visit(at int, f func(Span) bool) {
	if at < b.cursor {
		for _, sp := range b.done {
			if sp.Start <= at && at < sp.End && !f(sp) {
				return
			}
		}
	}
	for _, sp := range b.open {
		if sp.Start <= at && at < sp.End && !f(sp) {
			return
		}
	}
	for _, sp := range b.ahead {
		sp.Start += b.shift
		sp.End += b.shift
		if sp.Start > at {
			return
		}
		if at < sp.End && !f(sp) {
			return
		}
	}
}

// Spans returns the attribute spans sorted by start, end, and key.
func (b *Buffer) Spans() []Span {
	spans := b.all()
	slices.SortFunc(spans, compareSpans)
	return spans
}

func compareSpans(x, y Span) int {
	if x.Start != y.Start {
		return x.Start - y.Start
	}
	if x.End != y.End {
		return x.End - y.End
	}
	return int(x.Key) - int(y.Key)
}

// Clone returns an independent copy of b.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{tail: b.String(), ahead: b.Spans()}
}

// Equal reports whether b and c hold the same text and spans.
func (b *Buffer) Equal(c *Buffer) bool {
	if b.String() != c.String() {
		return false
	}
	return slices.EqualFunc(b.Spans(), c.Spans(), func(x, y Span) bool {
		return x.Range == y.Range && x.Key == y.Key && x.Value == y.Value
	})
}

func sortedKeys(attrs Attrs) []Key {
	keys := make([]Key, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// dumpSpans writes one line per span to buf.
func dumpSpans(buf *strings.Builder, spans []Span) {
	for _, sp := range spans {
		fmt.Fprintf(buf, "%v %v=%s\n", sp.Range, sp.Key, formatValue(sp.Value))
	}
}
