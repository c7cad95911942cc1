package checker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
	consts "github.com/khanhnv2901/webcomply/internal/shared/constants"
)

// Page is the fetched and parsed landing page of a target.
type Page struct {
	URL        *url.URL
	StatusCode int
	Header     http.Header
	Date       time.Time
	SetCookies []string

	Links         []LinkTag
	Scripts       []string
	InlineScripts []string
	Iframes       []string
	Images        []string
	Styles        []string
}

// LinkTag is one <link> element with its href resolved against the page URL.
type LinkTag struct {
	Rel  []string
	Href string
	As   string
}

// HasRel reports whether the link carries rel (case-insensitive).
func (l LinkTag) HasRel(rel string) bool {
	for _, r := range l.Rel {
		if strings.EqualFold(r, rel) {
			return true
		}
	}
	return false
}

// fetchPage issues a GET for the target and parses the HTML body. Non-HTML
// bodies leave the element slices empty.
func fetchPage(ctx context.Context, client *http.Client, target scan.Target, userAgent string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target.String(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, consts.MaxPageBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	page := &Page{
		URL:        resp.Request.URL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		SetCookies: resp.Header.Values("Set-Cookie"),
	}
	if date, err := http.ParseTime(resp.Header.Get("Date")); err == nil {
		page.Date = date
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return page, fmt.Errorf("%s returned HTTP %d", target.String(), resp.StatusCode)
	}

	if isHTML(resp.Header.Get("Content-Type"), body) {
		if err := page.parse(body); err != nil {
			return page, fmt.Errorf("parse html: %w", err)
		}
	}

	return page, nil
}

func isHTML(contentType string, body []byte) bool {
	if contentType == "" {
		return strings.Contains(strings.ToLower(http.DetectContentType(body)), "text/html")
	}
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

func (p *Page) parse(body []byte) error {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return err
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Link:
				if href := p.resolve(attr(n, "href")); href != "" {
					p.Links = append(p.Links, LinkTag{
						Rel:  strings.Fields(strings.ToLower(attr(n, "rel"))),
						Href: href,
						As:   strings.ToLower(attr(n, "as")),
					})
				}
			case atom.Script:
				if src := attr(n, "src"); src != "" {
					if resolved := p.resolve(src); resolved != "" {
						p.Scripts = append(p.Scripts, resolved)
					}
				} else if text := textContent(n); text != "" {
					p.InlineScripts = append(p.InlineScripts, text)
				}
			case atom.Iframe:
				if src := p.resolve(attr(n, "src")); src != "" {
					p.Iframes = append(p.Iframes, src)
				}
			case atom.Img:
				if src := p.resolve(attr(n, "src")); src != "" {
					p.Images = append(p.Images, src)
				}
			case atom.Style:
				if text := textContent(n); text != "" {
					p.Styles = append(p.Styles, text)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return nil
}

// resolve turns a reference found in the page into an absolute http(s) URL.
// data:, javascript: and malformed references yield "".
func (p *Page) resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := p.URL.Parse(ref)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

// Assets returns every resource URL the page loads: scripts, link hrefs,
// images and iframes, in document order per kind.
func (p *Page) Assets() []string {
	assets := make([]string, 0, len(p.Scripts)+len(p.Links)+len(p.Images)+len(p.Iframes))
	assets = append(assets, p.Scripts...)
	for _, l := range p.Links {
		assets = append(assets, l.Href)
	}
	assets = append(assets, p.Images...)
	assets = append(assets, p.Iframes...)
	return assets
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(sb.String())
}
