// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markstyle

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/gdamore/tcell/v2"
)

const (
	// DefaultScheme is prefixed to link targets that have no scheme.
	DefaultScheme = "https://"

	// EmailScheme is prefixed to link targets that are email addresses.
	EmailScheme = "mailto:"
)

// linkPattern matches [label](target).
// Group 1 is the opening bracket and label,
// group 2 the closing bracket, open paren, and target.
// The target may itself contain parens, which Match balances.
const linkPattern = `(?s)(\[[^\]]+)(\]\([^\s]+)?\)`

var schemeRE = regexp.MustCompile(`(?i)^[a-z]{2,20}://`)

// emailRE is the RFC 5322 address grammar from https://emailregex.com/.
var emailRE = regexp.MustCompile(`^(?:[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(?:\.[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*|"(?:[\x01-\x08\x0b\x0c\x0e-\x1f\x21\x23-\x5b\x5d-\x7f]|\\[\x01-\x09\x0b\x0c\x0e-\x7f])*")@(?:(?:[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?\.)+[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?|\[(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?|[A-Za-z0-9-]*[A-Za-z0-9]:(?:[\x01-\x08\x0b\x0c\x0e-\x1f\x21-\x5a\x53-\x7f]|\\[\x01-\x09\x0b\x0c\x0e-\x7f])+)\])$`)

// A Link is an [Element] for inline links [label](target).
// Each match is rewritten to the bare label, which gets the link's
// font and color and an [AttrLink] holding the target URL.
type Link struct {
	Font  *Font       // nil leaves fonts alone
	Color tcell.Color // tcell.ColorDefault leaves colors alone

	// DefaultScheme is prefixed to targets with no scheme
	// that are not email addresses. Empty means "https://".
	DefaultScheme string
}

// NewLink returns a Link that colors labels blue.
func NewLink() *Link {
	return &Link{Color: tcell.ColorBlue}
}

func (l *Link) Pattern() string { return linkPattern }

// Attrs returns the style attributes the link puts on its label.
func (l *Link) Attrs() Attrs {
	attrs := make(Attrs)
	if l.Font != nil {
		attrs[AttrFont] = *l.Font
	}
	if l.Color != tcell.ColorDefault {
		attrs[AttrColor] = l.Color
	}
	return attrs
}

func (l *Link) Match(b *Buffer, m Match) error {
	open, ok1 := m.Group(1)
	dest, ok2 := m.Group(2)
	if !ok1 || !ok2 || !b.valid(m.Range) ||
		open.Start != m.Start || open.End != dest.Start || dest.End != m.End-1 ||
		open.Len() < 2 || dest.Len() < 3 || b.byteAt(open.Start) != '[' ||
		b.byteAt(dest.Start) != ']' || b.byteAt(dest.Start+1) != '(' ||
		b.byteAt(m.End-1) != ')' {
		return nil
	}

	raw := balanceParens(b.slice(Range{dest.Start + 2, dest.End}))
	font, hasFont := b.Attr(open.Start+1, AttrFont)

	// Work left to right: drop the [, style the label,
	// then drop the ] and the ( through the ) closing the balanced target.
	if err := b.Delete(Range{open.Start, open.Start + 1}); err != nil {
		return err
	}
	label := Range{open.Start, dest.Start - 1}
	if err := b.AddAttrs(label, l.Attrs()); err != nil {
		return err
	}
	if target, ok := l.Target(raw); ok {
		if err := b.AddAttr(label, AttrLink, target); err != nil {
			return err
		}
	}
	if hasFont {
		if err := b.AddAttr(label, AttrFont, font); err != nil {
			return err
		}
	}
	if err := b.Delete(Range{label.End, label.End + 1}); err != nil {
		return err
	}
	return b.Delete(Range{label.End, label.End + len(raw) + 2})
}

// balanceParens truncates u before the first ) that closes no (.
// Such a paren belongs to the surrounding text, not the URL.
func balanceParens(u string) string {
	depth := 0
	for i := 0; i < len(u); i++ {
		switch u[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return u[:i]
			}
		}
	}
	return u
}

// Target returns the URL a link written as [label](raw) points at.
// A raw target with a scheme is used as is;
// otherwise an email address gets "mailto:"
// and anything else gets l.DefaultScheme.
// Target reports false if no valid URL can be made from raw.
func (l *Link) Target(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	target := raw
	if !hasScheme(raw) {
		switch {
		case emailRE.MatchString(raw):
			target = EmailScheme + raw
		case l.DefaultScheme != "":
			target = l.DefaultScheme + raw
		default:
			target = DefaultScheme + raw
		}
	}
	if _, err := url.Parse(target); err == nil {
		return target, true
	}
	target = percentEncode(target)
	if _, err := url.Parse(target); err == nil {
		return target, true
	}
	return "", false
}

// hasScheme reports whether u begins with a scheme.
// Besides scheme:// prefixes, an explicit mailto: counts.
func hasScheme(u string) bool {
	if schemeRE.MatchString(u) {
		return true
	}
	return len(u) >= len(EmailScheme) && strings.EqualFold(u[:len(EmailScheme)], EmailScheme)
}

// percentEncode escapes the bytes of u that may not appear in a URL,
// including % itself.
func percentEncode(u string) string {
	const hex = "0123456789ABCDEF"
	var buf strings.Builder
	for i := 0; i < len(u); i++ {
		c := u[i]
		if isURLByte(c) {
			buf.WriteByte(c)
			continue
		}
		buf.WriteByte('%')
		buf.WriteByte(hex[c>>4])
		buf.WriteByte(hex[c&15])
	}
	return buf.String()
}

// isURLByte reports whether c is an RFC 3986 unreserved or reserved character.
func isURLByte(c byte) bool {
	if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' {
		return true
	}
	return strings.IndexByte("-._~!$&'()*+,;=:/?#[]@", c) >= 0
}
