package importer

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// DefaultTitle is used for records without a title.
const DefaultTitle = "Title"

// PlainTitle renders lightweight markdown in an imported title as plain
// text. An absent title becomes DefaultTitle; a title whose markup yields
// no text is kept as written.
func PlainTitle(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultTitle
	}

	src := []byte(raw)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var b strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if n.Type() == ast.TypeBlock && n.Kind() != ast.KindDocument {
			b.WriteByte(' ')
		}
		switch v := n.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.AutoLink:
			b.Write(v.Label(src))
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return raw
	}

	plain := strings.Join(strings.Fields(b.String()), " ")
	if plain == "" {
		return raw
	}
	return plain
}
