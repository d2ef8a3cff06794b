// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markstyle

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

var htmlEscaper = strings.NewReplacer(
	`"`, "&quot;",
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
)

// htmlLinkEscaper escapes a URL for use in an href attribute.
var htmlLinkEscaper = strings.NewReplacer(
	`"`, "%22",
	`&`, "&amp;",
	`<`, "%3C",
	`>`, "%3E",
	`\`, "%5C",
	"`", "%60",
	` `, "%20",
)

// A segment is a run of text with one set of attributes.
type segment struct {
	Range
	attrs Attrs
}

// segments splits b into runs over which its attributes do not change.
func segments(b *Buffer) []segment {
	starts := b.Spans()
	ends := slices.Clone(starts)
	slices.SortFunc(ends, func(x, y Span) int { return cmp.Compare(x.End, y.End) })
	cuts := []int{0, b.Len()}
	for _, sp := range starts {
		cuts = append(cuts, sp.Start, sp.End)
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	// At most one span per key covers any offset,
	// so a span ending at a cut leaves its key unset.
	active := make(Attrs)
	var segs []segment
	i, j := 0, 0
	for k := 0; k+1 < len(cuts); k++ {
		c := cuts[k]
		for ; j < len(ends) && ends[j].End <= c; j++ {
			delete(active, ends[j].Key)
		}
		for ; i < len(starts) && starts[i].Start <= c; i++ {
			active[starts[i].Key] = starts[i].Value
		}
		segs = append(segs, segment{Range{c, cuts[k+1]}, active.clone()})
	}
	return segs
}

// Dump returns a listing of b's text and spans, one span per line,
// as used in the test data.
func Dump(b *Buffer) string {
	var buf strings.Builder
	buf.WriteString("text " + strconv.Quote(b.String()) + "\n")
	dumpSpans(&buf, b.Spans())
	return buf.String()
}

type printer struct {
	buf bytes.Buffer
}

func (p *printer) html(list ...string) {
	for _, s := range list {
		p.buf.WriteString(s)
	}
}

func (p *printer) text(list ...string) {
	for _, s := range list {
		htmlEscaper.WriteString(&p.buf, s)
	}
}

// ToHTML renders b as HTML.
// Each line becomes a paragraph, styled by its [ParagraphStyle] if any;
// links become <a> elements and fonts and colors <span> styles.
// Blank lines are dropped.
func ToHTML(b *Buffer) string {
	var p printer
	s := b.String()
	segs := segments(b)
	for start := 0; start < len(s); {
		end := strings.IndexByte(s[start:], '\n')
		if end < 0 {
			end = len(s)
		} else {
			end += start
		}
		if end > start {
			segs = p.printLine(s, Range{start, end}, segs)
		}
		start = end + 1
	}
	return p.buf.String()
}

// printLine prints s[line.Start:line.End] using segs,
// which start at or before line.Start and cover the rest of s.
// It returns the segments not yet finished.
func (p *printer) printLine(s string, line Range, segs []segment) []segment {
	for segs[0].End <= line.Start {
		segs = segs[1:]
	}
	if ps, ok := segs[0].attrs[AttrParagraph].(ParagraphStyle); ok {
		p.html(fmt.Sprintf(`<p style="margin-top:%gpx;padding-left:%gpx;text-indent:-%gpx">`,
			ps.SpacingBefore, ps.HeadIndent, ps.HeadIndent))
	} else {
		p.html("<p>")
	}
	for len(segs) > 0 && segs[0].Start < line.End {
		seg := segs[0]
		p.printSegment(s[max(seg.Start, line.Start):min(seg.End, line.End)], seg.attrs)
		if seg.End > line.End {
			break
		}
		segs = segs[1:]
	}
	p.html("</p>\n")
	return segs
}

func (p *printer) printSegment(text string, attrs Attrs) {
	link, isLink := attrs[AttrLink].(string)
	if isLink {
		p.html(`<a href="`, htmlLinkEscaper.Replace(link), `">`)
	}
	style := cssStyle(attrs)
	if style != "" {
		p.html(`<span style="`, htmlEscaper.Replace(style), `">`)
	}
	p.text(text)
	if style != "" {
		p.html("</span>")
	}
	if isLink {
		p.html("</a>")
	}
}

func cssStyle(attrs Attrs) string {
	var list []string
	if c, ok := attrs[AttrColor].(tcell.Color); ok && c.Valid() {
		list = append(list, fmt.Sprintf("color:#%06x", c.Hex()))
	}
	if f, ok := attrs[AttrFont].(Font); ok {
		if f.Family != "" {
			list = append(list, "font-family:"+f.Family)
		}
		if f.Size > 0 {
			list = append(list, fmt.Sprintf("font-size:%gpx", f.Size))
		}
		if f.Bold {
			list = append(list, "font-weight:bold")
		}
		if f.Italic {
			list = append(list, "font-style:italic")
		}
	}
	return strings.Join(list, ";")
}

// ToANSI renders b for a terminal using 24-bit color escapes,
// bold and italic from fonts, and OSC 8 hyperlinks.
// Paragraph styles are not rendered.
func ToANSI(b *Buffer) string {
	var p printer
	s := b.String()
	for _, seg := range segments(b) {
		p.printANSI(s[seg.Start:seg.End], seg.attrs)
	}
	return p.buf.String()
}

func (p *printer) printANSI(text string, attrs Attrs) {
	link, isLink := attrs[AttrLink].(string)
	var sgr []string
	if c, ok := attrs[AttrColor].(tcell.Color); ok && c.Valid() {
		r, g, b := c.RGB()
		sgr = append(sgr, fmt.Sprintf("38;2;%d;%d;%d", r, g, b))
	}
	if f, ok := attrs[AttrFont].(Font); ok {
		if f.Bold {
			sgr = append(sgr, "1")
		}
		if f.Italic {
			sgr = append(sgr, "3")
		}
	}
	if isLink {
		p.buf.WriteString("\x1b]8;;" + link + "\x1b\\")
	}
	if len(sgr) > 0 {
		p.buf.WriteString("\x1b[" + strings.Join(sgr, ";") + "m")
	}
	p.buf.WriteString(text)
	if len(sgr) > 0 {
		p.buf.WriteString("\x1b[0m")
	}
	if isLink {
		p.buf.WriteString("\x1b]8;;\x1b\\")
	}
}
