package util

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// FirstParagraph returns the text content of the first paragraph (or, if
// there is none, all text) found within the first 4000 bytes of the input.
// Tags are dropped.
func FirstParagraph(input io.Reader) string {

	tokenizer := html.NewTokenizerFragment(input, "body")
	tokenizer.SetMaxBuf(4096) // roughly the maximum number of bytes tokenized

	var text = &strings.Builder{}
	var offset = 0
	var inParagraph = false

	for {

		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break // assuming tokenizer.Err() == io.EOF
		}

		tagNameBytes, _ := tokenizer.TagName()
		tagName := string(tagNameBytes)

		switch tt {
		case html.StartTagToken:
			if tagName == "p" {
				inParagraph = true
			}
		case html.EndTagToken:
			if tagName == "p" && inParagraph {
				return strings.TrimSpace(text.String())
			}
		case html.TextToken:
			if text.Len() > 0 && !strings.HasSuffix(text.String(), " ") {
				text.WriteString(" ")
			}
			text.WriteString(strings.TrimSpace(string(tokenizer.Text())))
		}

		offset += len(tokenizer.Raw())
		if offset > 4000 {
			break
		}
	}

	return strings.TrimSpace(text.String())
}
