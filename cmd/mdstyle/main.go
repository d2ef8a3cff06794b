// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Mdstyle rewrites Markdown links and bulleted lists into styled text.
//
// Usage:
//
//	mdstyle [flags] [file...]
//
// Mdstyle reads the named files, or else standard input, removes the
// link and list markup, and prints the result in the format chosen
// with --format: a listing of the text and its style spans (dump),
// HTML (html), text with terminal escapes (ansi), or plain text (text).
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"rsc.io/markstyle"
)

func main() {
	log.SetPrefix("mdstyle: ")
	log.SetFlags(0)
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

// config is the command configuration built from flags.
type config struct {
	format string
	engine markstyle.Engine
	list   *markstyle.List
	link   *markstyle.Link
}

var renderers = map[string]func(*markstyle.Buffer) string{
	"dump": markstyle.Dump,
	"html": markstyle.ToHTML,
	"ansi": markstyle.ToANSI,
	"text": (*markstyle.Buffer).String,
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mdstyle [flags] [file...]",
		Short: "Rewrite Markdown links and lists into styled text",
		Long: `Mdstyle reads the named files, or else standard input,
removes the link and list markup, and prints the styled result.

Examples:
  mdstyle notes.md
  mdstyle --format html --link-color "#3366cc" notes.md
  cat notes.md | mdstyle --format ansi`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				return convert(cmd.OutOrStdout(), data, cfg)
			}
			failed := 0
			for _, file := range args {
				data, err := os.ReadFile(file)
				if err == nil {
					err = convert(cmd.OutOrStdout(), data, cfg)
				}
				if err != nil {
					log.Print(err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringP("format", "f", "dump", "output format: dump, html, ansi, or text")
	flags.String("engine", "re2", "pattern engine: re2 or backtrack")
	flags.Duration("timeout", time.Second, "match time limit for the backtrack engine")

	flags.String("link-color", "blue", "link color, by name or as #rrggbb; empty for none")
	flags.String("scheme", markstyle.DefaultScheme, "scheme for link targets that have none")

	flags.Int("max-level", 0, "longest list marker run accepted (0 for no limit)")
	flags.String("indicator", markstyle.DefaultIndicator, "list bullet")
	flags.String("prefix", markstyle.DefaultPrefix, "text repeated before the bullet per nesting level")
	flags.String("suffix", markstyle.DefaultSuffix, "text between the bullet and the item")
	flags.Float64("spacing", 0, "space before list items (default a third of the font size)")

	flags.String("font-family", "", "font family for list items")
	flags.Float64("font-size", 0, "font size for list items (0 for the default font)")
	return cmd
}

func buildConfig(cmd *cobra.Command) (*config, error) {
	flags := cmd.Flags()
	format, _ := flags.GetString("format")
	engineName, _ := flags.GetString("engine")
	timeout, _ := flags.GetDuration("timeout")
	linkColor, _ := flags.GetString("link-color")
	scheme, _ := flags.GetString("scheme")
	maxLevel, _ := flags.GetInt("max-level")
	indicator, _ := flags.GetString("indicator")
	prefix, _ := flags.GetString("prefix")
	suffix, _ := flags.GetString("suffix")
	spacing, _ := flags.GetFloat64("spacing")
	family, _ := flags.GetString("font-family")
	size, _ := flags.GetFloat64("font-size")

	cfg := &config{format: format}
	if _, ok := renderers[format]; !ok {
		return nil, fmt.Errorf("unknown format %q", format)
	}
	switch engineName {
	case "re2":
		cfg.engine = markstyle.RE2
	case "backtrack":
		cfg.engine = markstyle.Backtrack{Timeout: timeout}
	default:
		return nil, fmt.Errorf("unknown engine %q", engineName)
	}

	cfg.link = &markstyle.Link{DefaultScheme: scheme}
	if linkColor != "" {
		cfg.link.Color = tcell.GetColor(linkColor)
		if cfg.link.Color == tcell.ColorDefault {
			return nil, fmt.Errorf("unknown color %q", linkColor)
		}
	}

	cfg.list = &markstyle.List{
		MaxLevel:  maxLevel,
		Indicator: indicator,
		Prefix:    prefix,
		Suffix:    suffix,
	}
	if flags.Changed("spacing") {
		cfg.list.ParagraphSpacing = &spacing
	}
	if family != "" || size > 0 {
		font := markstyle.DefaultFont()
		if family != "" {
			font.Family = family
		}
		if size > 0 {
			font.Size = size
		}
		cfg.list.Font = &font
	}
	return cfg, nil
}

// convert styles data and writes it to w in cfg's format.
func convert(w io.Writer, data []byte, cfg *config) error {
	b := markstyle.NewBuffer(string(data))
	if err := markstyle.Apply(b, cfg.engine, cfg.list, cfg.link); err != nil {
		return err
	}
	_, err := io.WriteString(w, renderers[cfg.format](b))
	return err
}
