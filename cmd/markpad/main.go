// Command markpad renders a Markdown file the way the authoring preview
// does: sanitized HTML plus the heading outline, optionally diffed against a
// second file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	markpad "github.com/goliatone/go-markpad"
)

func main() {
	var (
		filePath  = flag.String("file", "", "Markdown file to render")
		diffPath  = flag.String("diff-against", "", "Optional second file; prints a line diff instead of HTML")
		hardWraps = flag.Bool("hard-wraps", true, "Render single newlines as <br> elements")
		style     = flag.String("style", "github", "Chroma style used for code highlighting")
		outline   = flag.Bool("outline", false, "Print the heading outline instead of HTML")
	)

	flag.Parse()

	if *filePath == "" {
		log.Fatalf("--file is required")
	}

	cfg := markpad.DefaultConfig()
	cfg.Storage.Backend = "memory"
	cfg.Markdown.HardWraps = *hardWraps
	cfg.Markdown.HighlightStyle = *style

	module, err := markpad.New(cfg)
	if err != nil {
		log.Fatalf("bootstrap module: %v", err)
	}

	source, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("read markdown file: %v", err)
	}

	if *diffPath != "" {
		proposed, err := os.ReadFile(*diffPath)
		if err != nil {
			log.Fatalf("read comparison file: %v", err)
		}
		fmt.Fprintln(os.Stdout, module.Diff().Render(string(source), string(proposed)))
		return
	}

	result := module.Markdown().Render(string(source))

	if *outline {
		for _, heading := range result.Headings {
			fmt.Fprintf(os.Stdout, "%*s%s (#%s)\n", 2*(heading.Level-1), "", heading.Text, heading.ID)
		}
		return
	}

	fmt.Fprintln(os.Stdout, result.HTML)
}
