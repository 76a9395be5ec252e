// Package preprocess cleans raw chat text before it reaches the analyzer.
package preprocess

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern          = regexp.MustCompile(`http\S+|www\.\S+`)
)

// RemoveLinks keeps the text of markdown links and drops bare URLs.
func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// StripMarkdown renders markdown down to its text content. Whitespace is
// collapsed to single spaces.
func StripMarkdown(input string) string {
	md := blackfriday.New(blackfriday.WithExtensions(blackfriday.CommonExtensions))
	root := md.Parse([]byte(input))

	var b strings.Builder
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if !entering {
			switch node.Type {
			case blackfriday.Paragraph, blackfriday.Heading, blackfriday.Item, blackfriday.TableCell:
				b.WriteByte(' ')
			}
			return blackfriday.GoToNext
		}

		switch node.Type {
		case blackfriday.Text, blackfriday.Code, blackfriday.CodeBlock:
			b.Write(node.Literal)
		case blackfriday.Softbreak, blackfriday.Hardbreak:
			b.WriteByte(' ')
		}
		return blackfriday.GoToNext
	})

	return strings.Join(strings.Fields(b.String()), " ")
}

// Options selects the cleaning steps applied by Clean.
type Options struct {
	StripMarkdown bool
}

// Clean removes links and, if enabled, markdown from a chat message.
func Clean(input string, opts Options) string {
	input = RemoveLinks(input)
	if opts.StripMarkdown {
		input = StripMarkdown(input)
	}
	return input
}
