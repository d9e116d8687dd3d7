package web

import (
	"html/template"
	"strings"

	"github.com/wansing/agora/util"
	"gitlab.com/golang-commonmark/markdown"
)

var markdownParser = markdown.New(markdown.HTML(false), markdown.Linkify(true), markdown.Typographer(true), markdown.MaxNesting(10))

// renderMarkdown translates CommonMark post text to HTML. Raw HTML in the
// input is escaped, post text is user content.
func renderMarkdown(text string) template.HTML {
	return template.HTML(markdownParser.RenderToString([]byte(text)))
}

// teaser returns the plain text of the first paragraph of the rendered
// post text, truncated to 200 runes.
func teaser(text string) string {
	var rendered = string(renderMarkdown(text))
	return util.Trunc(util.FirstParagraph(strings.NewReader(rendered)), 200)
}
