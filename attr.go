// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markstyle

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
)

// A Key names a style attribute stored on a [Buffer].
type Key int

const (
	AttrFont      Key = iota + 1 // Font
	AttrColor                    // tcell.Color
	AttrLink                     // string, a URL accepted by net/url
	AttrParagraph                // ParagraphStyle
)

var keyNames = [...]string{
	AttrFont:      "font",
	AttrColor:     "color",
	AttrLink:      "link",
	AttrParagraph: "paragraph",
}

func (k Key) String() string {
	if 0 < k && int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "Key(" + strconv.Itoa(int(k)) + ")"
}

// Attrs is a set of attribute values keyed by [Key].
type Attrs map[Key]any

// clone returns a copy of a that can be modified independently.
func (a Attrs) clone() Attrs {
	c := make(Attrs, len(a)+1)
	for k, v := range a {
		c[k] = v
	}
	return c
}

// A Font describes the typeface used to render a range.
// Only Size takes part in layout; the rest is carried for renderers.
type Font struct {
	Family string
	Size   float64
	Bold   bool
	Italic bool
}

// DefaultFont returns the font used for measurement
// when an element has no font of its own.
func DefaultFont() Font {
	return Font{Family: "monospace", Size: 12}
}

func (f Font) String() string {
	s := f.Family
	if s == "" {
		s = "default"
	}
	s += " " + strconv.FormatFloat(f.Size, 'g', -1, 64)
	if f.Bold {
		s += " bold"
	}
	if f.Italic {
		s += " italic"
	}
	return s
}

// A ParagraphStyle holds paragraph-level layout for the line it covers.
type ParagraphStyle struct {
	SpacingBefore float64 // space above the paragraph
	HeadIndent    float64 // indent of wrapped continuation lines
}

func (p ParagraphStyle) String() string {
	return fmt.Sprintf("{spacing %g indent %g}", p.SpacingBefore, p.HeadIndent)
}

// formatValue returns the text form of an attribute value used by Dump.
func formatValue(v any) string {
	switch v := v.(type) {
	case tcell.Color:
		if name := colorName(v); name != "" {
			return name
		}
		return fmt.Sprintf("#%06x", v.Hex())
	case string:
		return strconv.Quote(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}

// colorName returns the W3C name of c, or "" if c has none.
// When several names share a color the alphabetically first wins.
func colorName(c tcell.Color) string {
	best := ""
	for name, nc := range tcell.ColorNames {
		if nc == c && (best == "" || name < best) {
			best = name
		}
	}
	return best
}
