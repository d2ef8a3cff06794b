// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markstyle

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestCompileError(t *testing.T) {
	for _, e := range engines {
		_, err := e.engine.Compile(`a(b`)
		var perr *PatternCompileError
		if !errors.As(err, &perr) {
			t.Fatalf("%s: Compile(`a(b`) err = %v, want *PatternCompileError", e.name, err)
		}
		if perr.Pattern != `a(b` || perr.Unwrap() == nil {
			t.Fatalf("%s: bad error %#v", e.name, perr)
		}
	}
}

func TestFindAll(t *testing.T) {
	text := "x [a](b) y [ü](ö) z"
	for _, e := range engines {
		m, err := e.engine.Compile(linkPattern)
		if err != nil {
			t.Fatal(err)
		}
		var have []string
		for x, err := range FindAll(m, text) {
			if err != nil {
				t.Fatal(err)
			}
			g, ok := x.Group(2)
			if !ok {
				t.Fatalf("%s: group 2 missing in %v", e.name, x)
			}
			have = append(have, text[x.Start:x.End]+" "+text[g.Start:g.End])
		}
		want := []string{"[a](b) ](b", "[ü](ö) ](ö"}
		if !slices.Equal(have, want) {
			t.Errorf("%s: have %q, want %q", e.name, have, want)
		}

		// Restartable.
		n := 0
		for range FindAll(m, text) {
			n++
		}
		if n != 2 {
			t.Errorf("%s: second pass found %d matches, want 2", e.name, n)
		}
	}
}

func TestFindMissingGroup(t *testing.T) {
	for _, e := range engines {
		m, err := e.engine.Compile(`(a)|(b)`)
		if err != nil {
			t.Fatal(err)
		}
		x, ok, err := m.Find("xb", 0)
		if err != nil || !ok {
			t.Fatalf("%s: no match", e.name)
		}
		if _, ok := x.Group(1); ok {
			t.Errorf("%s: group 1 participated", e.name)
		}
		if g, ok := x.Group(2); !ok || g != (Range{1, 2}) {
			t.Errorf("%s: group 2 = %v, %v", e.name, g, ok)
		}
		if _, ok := x.Group(3); ok {
			t.Errorf("%s: group 3 exists", e.name)
		}
	}
}

func TestFindFrom(t *testing.T) {
	for _, e := range engines {
		m, err := e.engine.Compile(`é+`)
		if err != nil {
			t.Fatal(err)
		}
		text := "aé bééc"
		x, ok, err := m.Find(text, 2)
		if err != nil || !ok || x.Range != (Range{5, 9}) {
			t.Errorf("%s: Find from 2 = %v, %v, want [5,9)", e.name, x.Range, ok)
		}
		if _, ok, _ := m.Find(text, len(text)+1); ok {
			t.Errorf("%s: Find past end matched", e.name)
		}
	}
}

func TestFindAllEmpty(t *testing.T) {
	for _, e := range engines {
		m, err := e.engine.Compile(`x*`)
		if err != nil {
			t.Fatal(err)
		}
		n := 0
		for range FindAll(m, "aé") {
			n++
		}
		// Empty matches before a, before é, and at the end.
		if n != 3 {
			t.Errorf("%s: %d empty matches, want 3", e.name, n)
		}
	}
}

// RE2 keeps link matching linear even on long unclosed input.
func TestLinkPatternLinear(t *testing.T) {
	m, err := RE2.Compile(linkPattern)
	if err != nil {
		t.Fatal(err)
	}
	text := strings.Repeat("[a](b", 20000)
	start := time.Now()
	for _, err := range FindAll(m, text) {
		if err != nil {
			t.Fatal(err)
		}
	}
	if d := time.Since(start); d > 10*time.Second {
		t.Fatalf("matching took %v", d)
	}
}

// Rewriting many links and list items stays fast with either engine.
func TestApplyLinear(t *testing.T) {
	if testing.Short() {
		t.Skip("slow")
	}
	doc := strings.Repeat("- see [a](b) and [c](d.org)\n", 20000)
	want := strings.Repeat("• see a and c\n", 20000)
	for _, e := range engines {
		b := NewBuffer(doc)
		start := time.Now()
		if err := Apply(b, e.engine, NewList(), NewLink()); err != nil {
			t.Fatal(err)
		}
		if d := time.Since(start); d > 10*time.Second {
			t.Fatalf("%s: Apply took %v", e.name, d)
		}
		if b.String() != want {
			t.Fatalf("%s: wrong text", e.name)
		}
		if n := len(b.Spans()); n != 20000*5 {
			t.Fatalf("%s: %d spans, want %d", e.name, n, 20000*5)
		}
	}
}

// slowElement's pattern takes exponential time in a backtracking engine
// on a run of a's with no b.
type slowElement struct{}

func (slowElement) Pattern() string { return `(a+)+b` }

func (slowElement) Match(b *Buffer, m Match) error {
	return b.Replace(m.Range, "x")
}

func TestBacktrackTimeout(t *testing.T) {
	b := NewBuffer("ab " + strings.Repeat("a", 40))
	err := Apply(b, Backtrack{Timeout: time.Nanosecond}, slowElement{})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if have, want := b.String(), "x "+strings.Repeat("a", 40); have != want {
		t.Fatalf("text = %q, want %q", have, want)
	}

	m, err := Backtrack{Timeout: time.Nanosecond}.Compile(slowElement{}.Pattern())
	if err != nil {
		t.Fatal(err)
	}
	var errs []error
	for _, err := range FindAll(m, strings.Repeat("a", 40)) {
		errs = append(errs, err)
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrTimeout) {
		t.Fatalf("FindAll errors = %v, want one ErrTimeout", errs)
	}
}

// In RE2 mode, \s means the same in both engines.
func TestEnginesAgreeOnSpace(t *testing.T) {
	for _, e := range engines {
		m, err := e.engine.Compile(`[^\s]+`)
		if err != nil {
			t.Fatal(err)
		}
		x, ok, err := m.Find("a\u00a0b c", 0)
		if err != nil || !ok || x.Range != (Range{0, 4}) {
			t.Errorf("%s: Find = %v, %v, %v, want [0,4)", e.name, x.Range, ok, err)
		}
	}
}
