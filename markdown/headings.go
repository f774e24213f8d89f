package markdown

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// collectHeadings assigns a unique anchor id to every heading node and
// returns the outline in document order. Disambiguation counters live only
// for the duration of one call, so rendering is idempotent and ids carry no
// cross-render stability guarantee.
func collectHeadings(doc ast.Node, source []byte) []Heading {
	counts := map[string]int{}
	used := map[string]struct{}{}
	headings := []Heading{}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		plain := plainText(h, source)
		base := plain
		if strings.TrimSpace(base) == "" {
			base = "heading-" + strconv.Itoa(h.Level)
		}
		slug := Slugify(base)
		if slug == "" {
			slug = "heading-" + strconv.Itoa(h.Level)
		}

		id := slug
		for {
			count := counts[slug]
			if count > 0 {
				id = slug + "-" + strconv.Itoa(count)
			}
			counts[slug] = count + 1
			if _, taken := used[id]; !taken {
				break
			}
		}
		used[id] = struct{}{}

		h.SetAttributeString("id", []byte(id))

		text := plain
		if text == "" {
			text = rawText(h, source)
		}
		headings = append(headings, Heading{ID: id, Text: text, Level: h.Level})
		return ast.WalkSkipChildren, nil
	})

	return headings
}

// plainText flattens the inline content of a node, dropping markup.
func plainText(node ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// rawText returns the unparsed source of a block node's lines.
func rawText(node ast.Node, source []byte) string {
	var b strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(source))
	}
	return strings.TrimSpace(b.String())
}
