package probe

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/IliaW/scrape-legality/util"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var termsPaths = []string{
	"/terms", "/terms-of-service", "/terms-and-conditions",
	"/privacy-policy", "/legal", "/policy",
}

var termsLinkKeywords = []string{"terms", "conditions", "legal", "policy", "privacy"}

// FindTermsUrl returns the first well-known policy path that serves html. When none
// does, it falls back to the first homepage link that looks like a policy page.
func (p *Prober) FindTermsUrl(ctx context.Context, domain string) (string, bool) {
	for _, path := range termsPaths {
		fullUrl, err := util.JoinUrl(domain, path)
		if err != nil {
			continue
		}
		tResp, err := p.get(ctx, fullUrl, p.cfg.Timeout)
		if err != nil {
			continue
		}
		if tResp.StatusCode == http.StatusOK &&
			strings.Contains(tResp.Header.Get("Content-Type"), "html") {
			return fullUrl, true
		}
	}

	tResp, err := p.get(ctx, domain, p.cfg.Timeout)
	if err != nil {
		p.failed("terms_url", err)
		return "", false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(tResp.Body))
	if err != nil {
		p.failed("terms_url", err)
		return "", false
	}

	var termsUrl string
	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if !containsAny(strings.ToLower(href), termsLinkKeywords) {
			return true
		}
		resolved, err := util.JoinUrl(domain, href)
		if err != nil {
			slog.Debug("failed to resolve link.", slog.String("href", href), slog.String("err", err.Error()))
			return true
		}
		termsUrl = resolved
		return false
	})

	return termsUrl, termsUrl != ""
}

// GetTermsText downloads url and returns its visible text, one text node per line.
func (p *Prober) GetTermsText(ctx context.Context, url string) string {
	tResp, err := p.get(ctx, url, p.cfg.TermsTimeout)
	if err != nil {
		p.failed("terms_text", err)
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(tResp.Body))
	if err != nil {
		p.failed("terms_text", err)
		return ""
	}

	return extractText(doc)
}

func extractText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, template").Remove()

	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if text := strings.TrimSpace(n.Data); text != "" {
				lines = append(lines, text)
			}
			return
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
