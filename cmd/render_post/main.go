package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"bistro-cms-be/pkg/lexical"

	"github.com/fatih/color"
)

// render_post renders a saved editor document the way the public site does,
// printing its table of contents, heading mismatches and HTML.
//
//	go run ./cmd/render_post -doc post.json [-toc toc.json]
func main() {
	docPath := flag.String("doc", "", "path to a Lexical document JSON file")
	tocPath := flag.String("toc", "", "optional stored TOC JSON to render against")
	flag.Parse()

	if *docPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	raw, err := os.ReadFile(*docPath)
	if err != nil {
		log.Fatalf("read document: %v", err)
	}
	doc, err := lexical.ParseDocument(raw)
	if err != nil {
		log.Fatalf("parse document: %v", err)
	}

	var toc []lexical.TocEntry
	if *tocPath != "" {
		rawToc, err := os.ReadFile(*tocPath)
		if err != nil {
			log.Fatalf("read toc: %v", err)
		}
		if err := json.Unmarshal(rawToc, &toc); err != nil {
			log.Fatalf("parse toc: %v", err)
		}
	} else {
		toc = lexical.ExtractHeadings(doc)
	}

	color.Cyan("Table of contents (%d)\n", len(toc))
	for _, e := range lexical.NormalizeTOC(toc) {
		indent := ""
		if e.Level > 2 {
			indent = strings.Repeat("  ", e.Level-2)
		}
		fmt.Printf("%s- %s ", indent, e.Text)
		color.New(color.FgHiBlack).Printf("#%s\n", e.ID)
	}

	mismatches := 0
	frag := lexical.Render(doc, lexical.RenderOptions{
		TOC: toc,
		OnMismatch: func(m lexical.Mismatch) {
			mismatches++
			expected := "<none>"
			if m.Entry != nil {
				expected = fmt.Sprintf("h%d %q", m.Entry.Level, m.Entry.Text)
			}
			color.Red("mismatch at %d: h%d %q, toc has %s, emitted #%s", m.Cursor, m.Level, m.Text, expected, m.Emitted)
		},
	})
	if mismatches == 0 {
		color.Green("All headings match the TOC")
	}

	color.Yellow("\nHTML")
	fmt.Println(frag.HTML())
}
