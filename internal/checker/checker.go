package checker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/IliaW/scrape-legality/internal/analyzer"
	"github.com/IliaW/scrape-legality/internal/model"
	"github.com/IliaW/scrape-legality/internal/probe"
	"github.com/IliaW/scrape-legality/internal/telemetry"
	"github.com/google/uuid"
)

const defaultPreviewChars = 1000

type LegalityChecker struct {
	prober       *probe.Prober
	analyzer     analyzer.LegalAnalyzer
	previewChars int
	metrics      *telemetry.AppMetrics
}

func NewLegalityChecker(prober *probe.Prober, analyzer analyzer.LegalAnalyzer, previewChars int,
	metrics *telemetry.AppMetrics) *LegalityChecker {
	if previewChars <= 0 {
		previewChars = defaultPreviewChars
	}
	return &LegalityChecker{
		prober:       prober,
		analyzer:     analyzer,
		previewChars: previewChars,
		metrics:      metrics,
	}
}

// Check runs every probe against domain one after another, prints the progress to out
// and finishes with the model's verdict. A failing probe only changes what is printed.
func (c *LegalityChecker) Check(ctx context.Context, domain string, out io.Writer) *model.Report {
	slog.Info("checking legality.", slog.String("domain", domain))
	report := &model.Report{
		ID:     uuid.New().String(),
		Domain: domain,
	}
	fmt.Fprintf(out, "Checking legality for: %s\n\n", domain)

	report.Robots = c.prober.GetRobotsTxt(ctx, domain)
	fmt.Fprintf(out, "Robots.txt Status: %s\n\n", report.Robots.Status)

	termsUrl, found := c.prober.FindTermsUrl(ctx, domain)
	fmt.Fprintf(out, "Terms/Policy URL Found: %s\n\n", valueOr(termsUrl, found, "Not found"))
	var termsText string
	if found {
		report.TermsUrl = termsUrl
		termsText = c.prober.GetTermsText(ctx, termsUrl)
	}

	report.Headers = c.prober.CheckResponseHeaders(ctx, domain)
	if len(report.Headers) > 0 {
		fmt.Fprintln(out, "Suspicious HTTP Headers:")
		for _, name := range sortedKeys(report.Headers) {
			fmt.Fprintf(out, "  %s: %s\n", name, report.Headers[name])
		}
		fmt.Fprintln(out)
	}

	report.LoginRequired = c.prober.IsLoginRequired(ctx, domain)
	fmt.Fprintf(out, "Login Required: %s\n\n", yesNo(report.LoginRequired))

	apiDocsUrl, found := c.prober.CheckForApiDocs(ctx, domain)
	report.ApiDocsUrl = apiDocsUrl
	fmt.Fprintf(out, "API Docs Found: %s\n\n", valueOr(apiDocsUrl, found, "None"))

	report.TermsLength = len([]rune(termsText))
	if termsText == "" {
		fmt.Fprint(out, "Could not read the terms/policy content. Proceeding with caution.\n\n")
	} else {
		report.TermsPreview = analyzer.Truncate(termsText, c.previewChars)
		fmt.Fprintf(out, "Terms/Policy Content (Preview):\n%s\n", strings.Repeat("-", 40))
		fmt.Fprintf(out, "%s\n... [truncated]\n", report.TermsPreview)
		fmt.Fprintf(out, "%s\n\n", strings.Repeat("-", 40))
	}

	fmt.Fprint(out, "Sending content to OpenAI for analysis...\n\n")
	report.Verdict = c.analyzer.Analyze(ctx, domain, report.Robots.Content, termsText)
	fmt.Fprintf(out, "OpenAI Legal Analysis:\n%s\n", strings.Repeat("=", 40))
	fmt.Fprintln(out, report.Verdict)
	fmt.Fprintf(out, "%s\n\n", strings.Repeat("=", 40))

	report.CheckedAt = time.Now().UTC()
	if c.metrics != nil {
		c.metrics.CheckCounter(1)
	}
	slog.Info("legality check finished.", slog.String("domain", domain), slog.String("id", report.ID))

	return report
}

func valueOr(value string, ok bool, fallback string) string {
	if !ok {
		return fallback
	}
	return value
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
