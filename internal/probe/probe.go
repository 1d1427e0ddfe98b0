package probe

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/IliaW/scrape-legality/config"
	cacheClient "github.com/IliaW/scrape-legality/internal/cache"
	"github.com/IliaW/scrape-legality/internal/model"
	"github.com/IliaW/scrape-legality/internal/telemetry"
)

const defaultUserAgent = "scrape-legality-bot"

// Prober runs the individual site probes. Every probe absorbs its own failures and
// returns a default value, so callers never have to handle errors.
type Prober struct {
	cfg        *config.ProbeConfig
	cache      cacheClient.CachedClient
	httpClient *http.Client
	metrics    *telemetry.AppMetrics
}

// NewProber creates a Prober. cache may be nil to always fetch robots.txt from the site.
func NewProber(cfg *config.ProbeConfig, cache cacheClient.CachedClient, httpClient *http.Client,
	metrics *telemetry.AppMetrics) *Prober {
	return &Prober{
		cfg:        cfg,
		cache:      cache,
		httpClient: httpClient,
		metrics:    metrics,
	}
}

func (p *Prober) userAgent() string {
	if p.cfg.UserAgent == "" {
		return defaultUserAgent
	}
	return p.cfg.UserAgent
}

func (p *Prober) get(ctx context.Context, url string, timeout time.Duration) (*model.TargetResponse, error) {
	tCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(tCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.userAgent())
	resp, err := p.httpClient.Do(req)
	if err != nil {
		slog.Debug("error making http get request.", slog.String("url", url), slog.String("err", err.Error()))
		return nil, err
	}
	defer func() {
		err = resp.Body.Close()
		if err != nil {
			slog.Error("error closing response body", slog.String("err", err.Error()))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Debug("error reading response body", slog.String("url", url), slog.String("err", err.Error()))
		return nil, err
	}

	return &model.TargetResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (p *Prober) failed(probe string, err error) {
	slog.Debug("probe failed.", slog.String("probe", probe), slog.String("err", err.Error()))
	if p.metrics != nil {
		p.metrics.ProbeFailureCounter(probe)
	}
}
