package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// skipFunc prunes an element and everything below it from text extraction.
type skipFunc func(n *html.Node) bool

func tag(name string) skipFunc {
	return func(n *html.Node) bool { return n.Data == name }
}

func tagClass(name, class string) skipFunc {
	return func(n *html.Node) bool {
		if n.Data != name {
			return false
		}
		for _, a := range n.Attr {
			if a.Key == "class" && containsField(a.Val, class) {
				return true
			}
		}
		return false
	}
}

func containsField(s, f string) bool {
	for _, x := range strings.Fields(s) {
		if x == f {
			return true
		}
	}
	return false
}

// text returns the non-empty text nodes under sel, each with whitespace
// collapsed, joined by sep.
func text(sel *goquery.Selection, sep string, skip ...skipFunc) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := singleLine(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
			for _, s := range skip {
				if s(n) {
					return
				}
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, sep)
}

// singleLine trims and collapses internal whitespace/newlines to single spaces.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
