package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/IliaW/scrape-legality/internal/model"
	"github.com/IliaW/scrape-legality/util"
	jsoniter "github.com/json-iterator/go"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.0 --name ReportStorage
type ReportStorage interface {
	Save(*model.Report) error
	GetLatestByUrl(string) (*model.Report, error)
}

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{
		db: db,
	}
}

func (r *ReportRepository) Save(report *model.Report) error {
	domain, err := util.GetDomain(report.Domain)
	if err != nil {
		return errors.New(fmt.Sprintf("failed to parse url. %s", err.Error()))
	}
	headers, err := jsoniter.Marshal(report.Headers)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`INSERT INTO scrape_legality.report (id, domain, url, robots_status, robots_txt, 
                                   agent_allowed, terms_url, terms_length, terms_preview, headers, login_required, 
                                   api_docs_url, verdict, checked_at) 
									VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		report.ID, domain, report.Domain, report.Robots.Status, report.Robots.Content, report.Robots.AgentAllowed,
		report.TermsUrl, report.TermsLength, report.TermsPreview, string(headers), report.LoginRequired,
		report.ApiDocsUrl, report.Verdict, report.CheckedAt)
	if err != nil {
		return err
	}
	slog.Debug("report saved to db.", slog.String("id", report.ID))

	return nil
}

func (r *ReportRepository) GetLatestByUrl(url string) (*model.Report, error) {
	domain, err := util.GetDomain(url)
	if err != nil {
		return nil, errors.New(fmt.Sprintf("failed to parse url. %s", err.Error()))
	}
	report := model.Report{Robots: new(model.RobotsTxt)}
	var headers string
	row := r.db.QueryRow(`SELECT id, url, robots_status, robots_txt, agent_allowed, terms_url, terms_length, 
       								terms_preview, headers, login_required, api_docs_url, verdict, checked_at
									FROM scrape_legality.report WHERE domain = $1 
									ORDER BY checked_at DESC LIMIT 1`, domain)
	err = row.Scan(&report.ID, &report.Domain, &report.Robots.Status, &report.Robots.Content,
		&report.Robots.AgentAllowed, &report.TermsUrl, &report.TermsLength, &report.TermsPreview, &headers,
		&report.LoginRequired, &report.ApiDocsUrl, &report.Verdict, &report.CheckedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound{Domain: domain}
		}
		slog.Debug("failed to get report from database.", slog.String("err", err.Error()))
		return nil, err
	}
	if err = jsoniter.Unmarshal([]byte(headers), &report.Headers); err != nil {
		return nil, err
	}
	slog.Debug("report fetched from db.")

	return &report, nil
}

type ErrNotFound struct {
	Domain string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("report for domain '%s' not found", e.Domain)
}
