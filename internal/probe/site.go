package probe

import (
	"context"
	"net/http"
	"strings"

	"github.com/IliaW/scrape-legality/util"
)

var loginKeywords = []string{"login", "sign in", "authentication"}

var apiDocsPaths = []string{"/api", "/api-docs", "/swagger", "/openapi.json"}

// CheckResponseHeaders returns the homepage headers whose name mentions robots or policy,
// e.g. X-Robots-Tag or Content-Security-Policy.
func (p *Prober) CheckResponseHeaders(ctx context.Context, domain string) map[string]string {
	suspicious := make(map[string]string)
	tResp, err := p.get(ctx, domain, p.cfg.Timeout)
	if err != nil {
		p.failed("headers", err)
		return suspicious
	}
	for name, values := range tResp.Header {
		lowerName := strings.ToLower(name)
		if strings.Contains(lowerName, "robot") || strings.Contains(lowerName, "policy") {
			suspicious[name] = strings.Join(values, ", ")
		}
	}

	return suspicious
}

// IsLoginRequired is a keyword heuristic: a homepage that mentions logging in is
// assumed to gate part of its content.
func (p *Prober) IsLoginRequired(ctx context.Context, domain string) bool {
	tResp, err := p.get(ctx, domain, p.cfg.Timeout)
	if err != nil {
		p.failed("login", err)
		return false
	}

	return containsAny(strings.ToLower(string(tResp.Body)), loginKeywords)
}

func (p *Prober) CheckForApiDocs(ctx context.Context, domain string) (string, bool) {
	for _, path := range apiDocsPaths {
		docsUrl, err := util.JoinUrl(domain, path)
		if err != nil {
			continue
		}
		tResp, err := p.get(ctx, docsUrl, p.cfg.Timeout)
		if err != nil {
			continue
		}
		if tResp.StatusCode == http.StatusOK {
			return docsUrl, true
		}
	}

	return "", false
}
