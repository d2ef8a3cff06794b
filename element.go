// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markstyle

import "fmt"

// An Element is one kind of markup: a pattern plus the rewrite
// applied to each match of it.
type Element interface {
	// Pattern returns the expression locating the element.
	Pattern() string

	// Match rewrites b for a single match m found in b's current text.
	// It may edit only the text inside m.
	// A match that does not have the expected shape is left alone.
	Match(b *Buffer, m Match) error
}

// Apply runs one pass per element over b, in order.
// Each pass scans the current text left to right,
// rewriting every match before looking for the next one
// in the rewritten text.
// If engine is nil, [RE2] is used.
//
// A pattern that does not compile stops Apply with a
// [*PatternCompileError]; passes already run are kept.
// A failed search, such as one ending in [ErrTimeout], stops Apply
// with the matches before it already rewritten.
func Apply(b *Buffer, engine Engine, elems ...Element) error {
	if engine == nil {
		engine = RE2
	}
	for _, el := range elems {
		m, err := engine.Compile(el.Pattern())
		if err != nil {
			return err
		}
		if err := pass(b, m, el); err != nil {
			return err
		}
	}
	return nil
}

// pass runs el over b once.
// Since el edits only inside its match, the text after each match
// is unchanged, and matching continues in the text as it was when
// the pass began, shifted by the length change so far.
func pass(b *Buffer, m Matcher, el Element) error {
	src := b.String()
	shift := 0
	for from := 0; from <= len(src); {
		x, ok, err := m.Find(src, from)
		if err != nil {
			return fmt.Errorf("%T: %w", el, err)
		}
		if !ok {
			break
		}
		bx := x.offset(shift)
		before := b.Len()
		if err := el.Match(b, bx); err != nil {
			return fmt.Errorf("markstyle: %T at %v: %w", el, bx.Range, err)
		}
		shift += b.Len() - before
		from = next(src, x)
	}
	return nil
}
