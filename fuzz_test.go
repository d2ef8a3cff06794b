// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markstyle

import (
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"
)

func Fuzz(f *testing.F) {
	files, err := filepath.Glob("testdata/*.txt")
	if err != nil {
		f.Fatal(err)
	}
	for _, file := range files {
		a, err := txtar.ParseFile(file)
		if err != nil {
			f.Fatal(err)
		}
		for i := 0; i+2 <= len(a.Files); i += 2 {
			f.Add(decode(string(a.Files[i].Data)))
		}
	}
	f.Fuzz(func(t *testing.T, s string) {
		var dumps []string
		for _, e := range engines {
			b := NewBuffer(s)
			if err := Apply(b, e.engine, NewList(), NewLink()); err != nil {
				t.Fatalf("%s: %v", e.name, err)
			}
			checkSpans(t, b)
			dumps = append(dumps, Dump(b))
		}
		if dumps[0] != dumps[1] {
			t.Fatalf("in: %q\n%s:\n%s\n%s:\n%s", s, engines[0].name, dumps[0], engines[1].name, dumps[1])
		}
	})
}
