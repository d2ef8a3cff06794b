// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markstyle

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/width"
)

// Metrics measures rendered text.
type Metrics interface {
	// Width returns the advance of s set in f, in the units of f.Size.
	Width(s string, f Font) float64
}

// CellMetrics measures text as a fixed-pitch font would:
// every grapheme cluster takes one or two cells,
// and a cell is Advance times the font size wide.
// It needs no font files, so results are the same everywhere.
type CellMetrics struct {
	Advance float64 // zero means 0.5
}

func (m CellMetrics) Width(s string, f Font) float64 {
	adv := m.Advance
	if adv == 0 {
		adv = 0.5
	}
	return float64(Cells(s)) * adv * f.Size
}

// Cells returns the number of terminal cells s occupies.
// East Asian wide and fullwidth clusters take two cells,
// clusters made only of marks and format characters take none,
// and the rest take one.
func Cells(s string) int {
	n := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		n += clusterCells(g.Str())
	}
	return n
}

func clusterCells(cluster string) int {
	r, _ := utf8.DecodeRuneInString(cluster)
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	for _, r := range cluster {
		if !unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf) {
			return 1
		}
	}
	return 0
}
