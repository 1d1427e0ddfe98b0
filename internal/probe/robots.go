package probe

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/IliaW/scrape-legality/internal/model"
	"github.com/IliaW/scrape-legality/util"
	"github.com/jimsmart/grobotstxt"
)

// GetRobotsTxt fetches <domain>/robots.txt and labels how much of the site it blocks.
// A transport failure is reported in Status as "Error: <message>".
func (p *Prober) GetRobotsTxt(ctx context.Context, domain string) *model.RobotsTxt {
	robotsUrl, err := util.JoinUrl(domain, "/robots.txt")
	if err != nil {
		p.failed("robots", err)
		return &model.RobotsTxt{Status: "Error: " + err.Error()}
	}

	var body []byte
	if file, ok := p.cachedRobotsFile(domain); ok {
		body = file
	} else {
		tResp, err := p.get(ctx, robotsUrl, p.cfg.Timeout)
		if err != nil {
			p.failed("robots", err)
			return &model.RobotsTxt{Status: "Error: " + err.Error()}
		}
		if tResp.StatusCode != http.StatusOK {
			slog.Debug("robots.txt not found.", slog.String("url", robotsUrl),
				slog.Int("status_code", tResp.StatusCode))
			return &model.RobotsTxt{Status: model.RobotsNotFound}
		}
		body = tResp.Body
		if p.cache != nil && len(body) != 0 {
			p.cache.SaveRobotsFile(domain, body)
		}
	}

	content := strings.TrimSpace(string(body))
	return &model.RobotsTxt{
		Status:       ClassifyRobotsTxt(content),
		Content:      content,
		AgentAllowed: p.agentAllowed(content, domain),
	}
}

func (p *Prober) cachedRobotsFile(domain string) ([]byte, bool) {
	if p.cache == nil {
		return nil, false
	}
	return p.cache.GetRobotsFile(domain)
}

func (p *Prober) agentAllowed(content, domain string) bool {
	root, err := util.JoinUrl(domain, "/")
	if err != nil {
		return false
	}
	return grobotstxt.AgentAllowed(content, p.userAgent(), root)
}

// ClassifyRobotsTxt labels robots.txt content by raw substring matching, not by
// robots exclusion semantics. "Disallow: /" anywhere wins, so "Disallow: /private"
// also counts as blocking everything. A file without any Disallow directive and a
// file with an empty Disallow directive are both reported as unrestricted.
func ClassifyRobotsTxt(content string) string {
	switch {
	case strings.Contains(content, "Disallow: /"):
		return model.RobotsBlockedAll
	case !strings.Contains(content, "Disallow:"),
		strings.Contains(content, "Disallow: "),
		hasEmptyDisallow(content):
		return model.RobotsAllowed
	default:
		return model.RobotsPartiallyAllowed
	}
}

// hasEmptyDisallow catches "Disallow:" lines that lost their trailing space, e.g. at the end of a trimmed file.
func hasEmptyDisallow(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		line, _, _ = strings.Cut(line, "#")
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "Disallow:"); ok && strings.TrimSpace(rest) == "" {
			return true
		}
	}
	return false
}
