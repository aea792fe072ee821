// Package wikilinks counts internal wiki links in rendered page HTML
package wikilinks

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Count parses rendered HTML and returns the number of internal wiki links.
// Parsoid marks internal links with rel="mw:WikiLink"; the legacy parser
// emits hrefs under /wiki/. Both forms count. Red links (new pages) carry
// ?action=edit&redlink=1 and still count as links
func Count(src string) (int, error) {
	z := html.NewTokenizer(strings.NewReader(src))
	n := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return n, nil
			}
			return n, z.Err()
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" || !hasAttr {
				continue
			}
			if isWikiLink(z) {
				n++
			}
		}
	}
}

func isWikiLink(z *html.Tokenizer) bool {
	var href string
	var rel string
	for {
		k, v, more := z.TagAttr()
		switch string(k) {
		case "href":
			href = string(v)
		case "rel":
			rel = string(v)
		}
		if !more {
			break
		}
	}
	if strings.Contains(rel, "mw:WikiLink") {
		return true
	}
	if strings.HasPrefix(href, "/wiki/") {
		return true
	}
	// legacy red link form
	if strings.HasPrefix(href, "/w/index.php") && strings.Contains(href, "redlink=1") {
		return true
	}
	return false
}
