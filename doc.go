// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package markstyle turns lightweight Markdown markup into styled text.
//
// A [Buffer] holds text plus style attributes over byte ranges.
// An [Element] such as [Link] or [List] finds its markup with a pattern,
// removes the markup syntax from the buffer, and styles what is left.
// [Apply] runs elements over a buffer:
//
//	b := markstyle.NewBuffer("- see [the docs](go.dev/doc)\n")
//	err := markstyle.Apply(b, nil, markstyle.NewList(), markstyle.NewLink())
//
// leaves b holding "• see the docs\n", with a paragraph style on the line
// and the link target "https://go.dev/doc" on "the docs".
//
// Buffer edits move attribute ranges along with the text,
// so elements can rewrite the buffer one match at a time
// without invalidating styles set earlier.
package markstyle
