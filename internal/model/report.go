package model

import (
	"net/http"
	"time"
)

const (
	RobotsBlockedAll       = "Blocked all"
	RobotsAllowed          = "Allowed (no restrictions)"
	RobotsPartiallyAllowed = "Partially allowed"
	RobotsNotFound         = "No robots.txt"
)

type RobotsTxt struct {
	Status  string `json:"status"`
	Content string `json:"content"`
	// AgentAllowed reports whether the configured user agent may fetch the site root.
	// Only meaningful when Content is not empty.
	AgentAllowed bool `json:"agent_allowed"`
}

// Report godoc
// @Description Evidence gathered for a domain and the legal verdict
// @Type Report
type Report struct {
	ID            string            `json:"id"`
	Domain        string            `json:"domain"`
	Robots        *RobotsTxt        `json:"robots"`
	TermsUrl      string            `json:"terms_url,omitempty"`
	TermsLength   int               `json:"terms_length"`
	TermsPreview  string            `json:"terms_preview,omitempty"`
	Headers       map[string]string `json:"headers"`
	LoginRequired bool              `json:"login_required"`
	ApiDocsUrl    string            `json:"api_docs_url,omitempty"`
	Verdict       string            `json:"verdict"`
	CheckedAt     time.Time         `json:"checked_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type TargetResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
