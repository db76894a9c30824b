package document

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// invisibleElements never contribute text or links.
const invisibleElements = "script,noscript,style,template"

// whitespaceRe collapses runs of whitespace.
var whitespaceRe = regexp.MustCompile(`\s+`)

// Document is a parsed HTML page bound to the URL it was fetched from.
type Document struct {
	doc  *goquery.Document
	base *url.URL
}

// Parse parses UTF-8 HTML from r. baseURL is used to resolve relative hrefs.
func Parse(r io.Reader, baseURL string) (*Document, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find(invisibleElements).Remove()
	return &Document{doc: doc, base: base}, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s, baseURL string) (*Document, error) {
	return Parse(strings.NewReader(s), baseURL)
}

// BaseURL returns the URL the document was fetched from.
func (d *Document) BaseURL() string {
	return d.base.String()
}

// Root returns the selection of the whole document.
func (d *Document) Root() *goquery.Selection {
	return d.doc.Selection
}

// FindAll returns every element with one of the given tag names, in document order.
func (d *Document) FindAll(tags ...string) *goquery.Selection {
	return FindAll(d.doc.Selection, tags...)
}

// FindByAttr returns every element whose attribute attr matches re, in document order.
func (d *Document) FindByAttr(attr string, re *regexp.Regexp) *goquery.Selection {
	return FindByAttr(d.doc.Selection, attr, re)
}

// Text returns the visible text of the whole document.
func (d *Document) Text() string {
	return Text(d.doc.Selection)
}

// FindAll returns the descendants of sel with one of the given tag names.
func FindAll(sel *goquery.Selection, tags ...string) *goquery.Selection {
	return sel.Find(strings.Join(tags, ","))
}

// FindByAttr returns the descendants of sel whose attribute attr matches re.
func FindByAttr(sel *goquery.Selection, attr string, re *regexp.Regexp) *goquery.Selection {
	return sel.Find("[" + attr + "]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr(attr)
		return re.MatchString(v)
	})
}

// Text returns the visible text under sel. Text nodes are joined with a
// single space and whitespace runs are collapsed, so adjacent elements never
// glue their words together.
func Text(sel *goquery.Selection) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "noscript", "style", "template":
				return
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
	return CleanText(sb.String())
}

// CleanText collapses whitespace and trims the result.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Resolve resolves href against the document URL.
// javascript:, mailto:, tel: and data: references and bare "#" are rejected.
func (d *Document) Resolve(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return "", false
	}
	lower := strings.ToLower(href)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return "", false
		}
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	return d.base.ResolveReference(u).String(), true
}

// Anchor is an <a href> of the document.
type Anchor struct {
	// Href is the attribute value as written in the page.
	Href string
	// URL is Href resolved against the document URL.
	URL string
}

// Anchors returns every resolvable anchor, in document order.
func (d *Document) Anchors() []Anchor {
	anchors := make([]Anchor, 0)
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if resolved, ok := d.Resolve(href); ok {
			anchors = append(anchors, Anchor{Href: strings.TrimSpace(href), URL: resolved})
		}
	})
	return anchors
}

// Links returns the resolved href of every anchor, in document order.
// Duplicates are kept; callers decide how to dedupe.
func (d *Document) Links() []string {
	anchors := d.Anchors()
	links := make([]string, len(anchors))
	for i, a := range anchors {
		links[i] = a.URL
	}
	return links
}
