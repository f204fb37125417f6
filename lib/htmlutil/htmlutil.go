package htmlutil

import (
	"bytes"
	"strings"
	"unicode"

	"updatecatalog/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText collects the text content of a node and all of its
// descendants, without any normalization.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || c == '\n' {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// SelectionText returns the raw text of the first node in a selection,
// stripped of non-printable characters. Newlines are kept so callers
// can still split line-structured fragments.
func SelectionText(sel *goquery.Selection) string {
	if len(sel.Nodes) == 0 {
		return ""
	}
	return removeNonPrintable(GetText(sel.Nodes[0]))
}

type Anchor struct {
	Name string
	Href string
}

// GetAnchors extracts the (cleaned text, href) pairs of every anchor
// in a selection, in document order. Anchors without an href attribute
// are kept with an empty Href.
func GetAnchors(sel *goquery.Selection) []Anchor {
	var anchors []Anchor
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}

		name := textutil.CollapseSpace(removeNonPrintable(GetText(n)))

		anchors = append(anchors, Anchor{
			Name: name,
			Href: href,
		})
	}
	return anchors
}
