// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markstyle

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// List defaults.
const (
	DefaultIndicator = "•"
	DefaultPrefix    = "  "
	DefaultSuffix    = " "
)

// A List is an [Element] for bulleted lines such as "- item" and "-- item".
// A run of n marker characters (*, + or -) puts the line at level n-1,
// so "- item" has no Prefix and "-- item" has one.
// The run and the space after it are replaced by Prefix repeated level
// times, Indicator, and Suffix, and the line gets a [ParagraphStyle]
// whose head indent lines wrapped text up with the item text.
type List struct {
	MaxLevel  int // largest accepted marker run; 0 means no limit
	Indicator string
	Prefix    string // repeated once per level before the indicator
	Suffix    string // between the indicator and the item text

	// ParagraphSpacing is the space before each item.
	// Nil means a third of the font size; negative values count as zero.
	ParagraphSpacing *float64

	Font    *Font       // nil means DefaultFont for measuring and no font attribute
	Color   tcell.Color // tcell.ColorDefault leaves colors alone
	Metrics Metrics     // nil means CellMetrics{}

	// LevelAttrs returns the style attributes for a line at the given level.
	// Nil means Attrs for every level.
	LevelAttrs func(level int) Attrs
}

// NewList returns a List with the default indicator, prefix, and suffix.
func NewList() *List {
	return &List{
		Indicator: DefaultIndicator,
		Prefix:    DefaultPrefix,
		Suffix:    DefaultSuffix,
	}
}

// Pattern returns the line pattern, with the marker run bounded by MaxLevel.
func (l *List) Pattern() string {
	n := ""
	if l.MaxLevel > 0 {
		n = strconv.Itoa(l.MaxLevel)
	}
	return `(?m)^([*+\-]{1,` + n + `})[ \t]+(.+)$`
}

// Attrs returns the style attributes shared by every level.
func (l *List) Attrs() Attrs {
	attrs := make(Attrs)
	if l.Font != nil {
		attrs[AttrFont] = *l.Font
	}
	if l.Color != tcell.ColorDefault {
		attrs[AttrColor] = l.Color
	}
	return attrs
}

// Bullet returns the text that replaces the markers of a line at level.
func (l *List) Bullet(level int) string {
	return strings.Repeat(l.Prefix, max(level, 0)) + l.Indicator + l.Suffix
}

// ParagraphStyle returns the paragraph layout for a line at level.
func (l *List) ParagraphStyle(level int) ParagraphStyle {
	font := DefaultFont()
	if l.Font != nil {
		font = *l.Font
	}
	metrics := l.Metrics
	if metrics == nil {
		metrics = CellMetrics{}
	}
	spacing := font.Size / 3
	if l.ParagraphSpacing != nil {
		spacing = max(*l.ParagraphSpacing, 0)
	}
	return ParagraphStyle{
		SpacingBefore: spacing,
		HeadIndent:    metrics.Width(l.Bullet(level), font),
	}
}

func (l *List) Match(b *Buffer, m Match) error {
	markers, ok1 := m.Group(1)
	text, ok2 := m.Group(2)
	if !ok1 || !ok2 || !b.valid(m.Range) || markers.Start != m.Start ||
		markers.Len() == 0 || text.Start < markers.End || text.End != m.End {
		return nil
	}
	level := markers.Len() - 1

	var attrs Attrs
	if l.LevelAttrs != nil {
		attrs = l.LevelAttrs(level).clone()
	} else {
		attrs = l.Attrs()
	}
	attrs[AttrParagraph] = l.ParagraphStyle(level)

	// Style the whole line first: the replacement below then
	// inherits the attributes instead of landing on shifted offsets.
	if err := b.AddAttrs(m.Range, attrs); err != nil {
		return err
	}
	return b.Replace(Range{markers.Start, text.Start}, l.Bullet(level))
}
