// Package browse turns fetched HTML into something extraction code can
// query: visible text, resolved links, and CSS selector lookups.
package browse

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/acastel/ytm-tracker/internal/fetch"
)

// Link is an anchor found on a page, href resolved to an absolute URL.
type Link struct {
	URL  string
	Text string
}

// IsPDF reports whether the link's path ends in .pdf.
func (l Link) IsPDF() bool {
	u, err := url.Parse(l.URL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
}

// Page is a fetched, parsed HTML document.
type Page struct {
	url *url.URL
	doc *goquery.Document
}

// ParsePage parses raw HTML. pageURL is the address the body was fetched
// from and is used to resolve relative links.
func ParsePage(pageURL string, body []byte) (*Page, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	return &Page{url: u, doc: doc}, nil
}

// URL returns the page's own address.
func (p *Page) URL() string {
	return p.url.String()
}

// Text returns the page's visible text. Block-level elements each end a
// line, so label and value stay in the same line only when they share a
// block.
func (p *Page) Text() string {
	var b strings.Builder
	for _, n := range p.doc.Nodes {
		writeText(&b, n)
	}
	return strings.TrimSpace(b.String())
}

// Find runs a CSS selector against the document.
func (p *Page) Find(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}

// HTML serializes the parsed document, for diagnostic snapshots.
func (p *Page) HTML() (string, error) {
	return goquery.OuterHtml(p.doc.Selection)
}

// Links returns every anchor with a usable href, in document order.
func (p *Page) Links() []Link {
	var links []Link
	p.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		abs, ok := p.Resolve(href)
		if !ok {
			return
		}
		links = append(links, Link{URL: abs, Text: strings.TrimSpace(s.Text())})
	})
	return links
}

// Resolve turns a possibly relative href into an absolute URL. Fragments
// and non-HTTP schemes (javascript:, mailto:) resolve to nothing.
func (p *Page) Resolve(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	switch ref.Scheme {
	case "", "http", "https":
	default:
		return "", false
	}

	return p.url.ResolveReference(ref).String(), true
}

var blockTags = map[string]bool{
	"article": true, "br": true, "div": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "li": true, "ol": true,
	"p": true, "section": true, "table": true, "td": true, "th": true,
	"tr": true, "ul": true,
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "head":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if n.Type == html.ElementNode && blockTags[n.Data] {
		b.WriteByte('\n')
	}
}

// Browser acquires pages and raw documents. Implementations must honor
// context cancellation.
type Browser interface {
	Open(ctx context.Context, url string) (*Page, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

// HTTPBrowser loads pages with a plain HTTP client. The tracked
// providers serve usable markup without script execution.
type HTTPBrowser struct {
	client *fetch.Client
}

func NewHTTPBrowser(client *fetch.Client) *HTTPBrowser {
	return &HTTPBrowser{client: client}
}

func (b *HTTPBrowser) Open(ctx context.Context, pageURL string) (*Page, error) {
	body, err := b.client.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	page, err := ParsePage(pageURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", pageURL, err)
	}
	return page, nil
}

func (b *HTTPBrowser) Download(ctx context.Context, fileURL string) ([]byte, error) {
	return b.client.Get(ctx, fileURL)
}
