package toushin

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// siteTitle is the generic title of pages that are not about a single fund.
const siteTitle = "投信総合検索ライブラリー"

var assocPattern = regexp.MustCompile(`(?i)associFundCd[=:]([A-Z0-9]{8,})`)

// Page is what is read from a fund page.
type Page struct {
	Name      string // fund name, empty if unknown
	CSVURL    string // absolute address of the NAV history, empty if absent
	AssocCode string // association fund code, empty if absent
	Text      string // visible text
}

// ParsePage reads a fund page. Relative links are resolved against base.
func ParsePage(r io.Reader, base *url.URL) (Page, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Page{}, err
	}
	decoded, err := charset.NewReader(bytes.NewReader(raw), "")
	if err != nil {
		return Page{}, fmt.Errorf("cannot decode page: %w", err)
	}
	doc, err := html.Parse(decoded)
	if err != nil {
		return Page{}, err
	}

	var p Page
	var text strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			case atom.Title:
				if p.Name == "" {
					p.Name = fundName(innerText(n))
				}
				return
			case atom.A:
				if p.CSVURL == "" {
					if href := attr(n, "href"); strings.Contains(href, "csv-file-download") {
						p.CSVURL = resolve(base, href)
					}
				}
			}
		case html.TextNode:
			if s := strings.TrimSpace(n.Data); s != "" {
				text.WriteString(s)
				text.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	p.Text = text.String()

	if p.CSVURL != "" {
		if u, err := url.Parse(p.CSVURL); err == nil {
			p.AssocCode = u.Query().Get("associFundCd")
		}
	}
	if p.AssocCode == "" {
		if m := assocPattern.FindSubmatch(raw); m != nil {
			p.AssocCode = string(m[1])
		}
	}
	return p, nil
}

// fundName returns the fund name from a page title like "name｜site".
func fundName(title string) string {
	title = strings.TrimSpace(title)
	if i := strings.IndexAny(title, "｜|"); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	if title == siteTitle {
		return ""
	}
	return title
}

func innerText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
