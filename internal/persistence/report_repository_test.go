package persistence

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/IliaW/scrape-legality/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportColumns = []string{"id", "url", "robots_status", "robots_txt", "agent_allowed", "terms_url",
	"terms_length", "terms_preview", "headers", "login_required", "api_docs_url", "verdict", "checked_at"}

func Test_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	checkedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	report := &model.Report{
		ID:            "0b5c2f52-8c5a-4f0b-9a53-1f9f7b0f3e11",
		Domain:        "https://www.example.com/shop",
		Robots:        &model.RobotsTxt{Status: model.RobotsAllowed, Content: "User-agent: *", AgentAllowed: true},
		TermsUrl:      "https://www.example.com/terms",
		TermsLength:   42,
		TermsPreview:  "Terms",
		Headers:       map[string]string{"X-Robots-Tag": "noindex"},
		LoginRequired: true,
		Verdict:       "LEGAL",
		CheckedAt:     checkedAt,
	}

	mock.ExpectExec(`INSERT INTO scrape_legality.report`).
		WithArgs(report.ID, "www.example.com", report.Domain, model.RobotsAllowed, "User-agent: *", true,
			report.TermsUrl, 42, "Terms", `{"X-Robots-Tag":"noindex"}`, true, "", "LEGAL", checkedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewReportRepository(db).Save(report)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_Save_InvalidUrl(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = NewReportRepository(db).Save(&model.Report{Domain: "example.com", Robots: &model.RobotsTxt{}})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_GetLatestByUrl(t *testing.T) {
	checkedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	testSet := []struct {
		name        string
		mockQuery   func(mock sqlmock.Sqlmock)
		expected    *model.Report
		expectedErr error
	}{
		{
			name: "latest report",
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM scrape_legality.report WHERE domain = \$1`).
					WithArgs("example.com").
					WillReturnRows(sqlmock.NewRows(reportColumns).AddRow("id-1", "https://example.com",
						model.RobotsBlockedAll, "User-agent: *\nDisallow: /", false, "", 0, "",
						`{"X-Robots-Tag":"none"}`, false, "https://example.com/api", "POTENTIALLY ILLEGAL", checkedAt))
			},
			expected: &model.Report{
				ID:         "id-1",
				Domain:     "https://example.com",
				Robots:     &model.RobotsTxt{Status: model.RobotsBlockedAll, Content: "User-agent: *\nDisallow: /"},
				Headers:    map[string]string{"X-Robots-Tag": "none"},
				ApiDocsUrl: "https://example.com/api",
				Verdict:    "POTENTIALLY ILLEGAL",
				CheckedAt:  checkedAt,
			},
		},
		{
			name: "no report",
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM scrape_legality.report`).
					WithArgs("example.com").
					WillReturnRows(sqlmock.NewRows(reportColumns))
			},
			expectedErr: ErrNotFound{Domain: "example.com"},
		},
		{
			name: "database error",
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM scrape_legality.report`).
					WithArgs("example.com").
					WillReturnError(errors.New("connection reset"))
			},
			expectedErr: errors.New("connection reset"),
		},
	}
	for _, test := range testSet {
		t.Run(test.name, func(tt *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(tt, err)
			defer db.Close()
			test.mockQuery(mock)

			report, err := NewReportRepository(db).GetLatestByUrl("https://example.com/page")

			if test.expectedErr != nil {
				assert.EqualError(tt, err, test.expectedErr.Error())
				assert.Nil(tt, report)
			} else {
				assert.NoError(tt, err)
				assert.Equal(tt, test.expected, report)
			}
			assert.NoError(tt, mock.ExpectationsWereMet())
		})
	}
}
