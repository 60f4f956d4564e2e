package archive

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ParseFormFields returns the name and value of every named <input> element
// in the document, wherever it sits. Inputs without a value attribute map to
// the empty string; when a name repeats, the last element wins.
func ParseFormFields(page string) (map[string]string, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	fields := make(map[string]string)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "input" {
			if name := getAttr(n, "name"); name != "" {
				fields[name] = getAttr(n, "value")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return fields, nil
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
