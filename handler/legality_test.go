package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	neturl "net/url"
	"testing"
	"time"

	"github.com/IliaW/scrape-legality/config"
	analyzerMock "github.com/IliaW/scrape-legality/internal/analyzer/mocks"
	"github.com/IliaW/scrape-legality/internal/checker"
	"github.com/IliaW/scrape-legality/internal/model"
	"github.com/IliaW/scrape-legality/internal/persistence"
	storageMock "github.com/IliaW/scrape-legality/internal/persistence/mocks"
	"github.com/IliaW/scrape-legality/internal/probe"
	"github.com/IliaW/scrape-legality/internal/telemetry"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestChecker(tt *testing.T, metrics *telemetry.MetricsProvider, verdict string) *checker.LegalityChecker {
	llm := analyzerMock.NewLegalAnalyzer(tt)
	llm.On("Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe().Return(verdict)
	prober := probe.NewProber(&config.ProbeConfig{
		UserAgent:    "test-bot",
		Timeout:      time.Second,
		TermsTimeout: time.Second,
	}, nil, &http.Client{}, metrics.AppMetrics)

	return checker.NewLegalityChecker(prober, llm, 1000, metrics.AppMetrics)
}

func Test_GetLegalityCheck_Handler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := telemetry.SetupMetrics(context.Background(), &config.Config{
		TelemetrySettings: &config.TelemetryConfig{
			Enabled: false,
		},
	})
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			w.Write([]byte("User-agent: *\nDisallow: /"))
		case "/":
			w.Write([]byte("<a href='/login'>Login</a>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer site.Close()

	testSet := []struct {
		name               string
		url                string
		withStorage        bool
		mockSaveError      error
		expectedError      string
		expectedStatusCode int
	}{
		{
			name:               "missed url in query",
			url:                "",
			expectedError:      "'url' query parameter is required",
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "url without scheme",
			url:                "example.com",
			expectedError:      "failed to parse url. invalid url. Url should contain scheme and hostname",
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "check without storage",
			url:                site.URL,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "check is saved",
			url:                site.URL,
			withStorage:        true,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "failed save does not fail the check",
			url:                site.URL,
			withStorage:        true,
			mockSaveError:      errors.New("connection refused"),
			expectedStatusCode: http.StatusOK,
		},
	}
	for _, test := range testSet {
		t.Run(test.name, func(tt *testing.T) {
			var reportRepo persistence.ReportStorage
			if test.withStorage {
				storage := storageMock.NewReportStorage(tt)
				storage.On("Save", mock.Anything).Once().Return(test.mockSaveError)
				reportRepo = storage
			}

			r := gin.Default()
			legalityHandler := NewLegalityApiHandler(newTestChecker(tt, metrics, "LEGAL"), reportRepo,
				metrics.ApiMetrics)
			r.GET("/legality-check", legalityHandler.GetLegalityCheck)
			req, _ := http.NewRequest("GET",
				fmt.Sprintf("/legality-check?url=%s", neturl.QueryEscape(test.url)), nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			responseData, _ := io.ReadAll(w.Body)
			assert.Equal(tt, test.expectedStatusCode, w.Code)
			if test.expectedError != "" {
				assert.Equal(tt, fmt.Sprintf("{\"error\":\"%s\"}", test.expectedError), string(responseData))
				return
			}
			var report model.Report
			require.NoError(tt, jsoniter.Unmarshal(responseData, &report))
			assert.Equal(tt, site.URL, report.Domain)
			assert.Equal(tt, model.RobotsBlockedAll, report.Robots.Status)
			assert.False(tt, report.Robots.AgentAllowed)
			assert.True(tt, report.LoginRequired)
			assert.Empty(tt, report.TermsUrl)
			assert.Equal(tt, "LEGAL", report.Verdict)
		})
	}
}

func Test_GetLegalityReport_Handler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := telemetry.SetupMetrics(context.Background(), &config.Config{
		TelemetrySettings: &config.TelemetryConfig{
			Enabled: false,
		},
	})
	checkedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	testSet := []struct {
		name               string
		url                string
		withStorage        bool
		mockStorage        func() (*model.Report, error)
		expectedResponse   string
		expectedStatusCode int
	}{
		{
			name:               "missed url in query",
			url:                "",
			withStorage:        true,
			expectedResponse:   "{\"error\":\"'url' query parameter is required\"}",
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "storage disabled",
			url:                "https://example.com",
			withStorage:        false,
			expectedResponse:   "{\"error\":\"report storage is disabled\"}",
			expectedStatusCode: http.StatusServiceUnavailable,
		},
		{
			name:        "report found",
			url:         "https://example.com",
			withStorage: true,
			mockStorage: func() (*model.Report, error) {
				return &model.Report{
					ID:        "id-1",
					Domain:    "https://example.com",
					Robots:    &model.RobotsTxt{Status: model.RobotsAllowed},
					Headers:   map[string]string{},
					Verdict:   "LEGAL",
					CheckedAt: checkedAt,
				}, nil
			},
			expectedResponse: "{\"id\":\"id-1\",\"domain\":\"https://example.com\",\"robots\":{\"status\":" +
				"\"Allowed (no restrictions)\",\"content\":\"\",\"agent_allowed\":false},\"terms_length\":0," +
				"\"headers\":{},\"login_required\":false,\"verdict\":\"LEGAL\",\"checked_at\":\"2025-03-01T12:00:00Z\"}",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:        "report not found",
			url:         "https://example.com",
			withStorage: true,
			mockStorage: func() (*model.Report, error) {
				return nil, persistence.ErrNotFound{Domain: "example.com"}
			},
			expectedResponse:   "{\"error\":\"report for domain 'example.com' not found\"}",
			expectedStatusCode: http.StatusNotFound,
		},
		{
			name:        "database error",
			url:         "https://example.com",
			withStorage: true,
			mockStorage: func() (*model.Report, error) {
				return nil, errors.New("something went wrong")
			},
			expectedResponse:   "{\"error\":\"failed to get report by url. something went wrong\"}",
			expectedStatusCode: http.StatusInternalServerError,
		},
	}
	for _, test := range testSet {
		t.Run(test.name, func(tt *testing.T) {
			var reportRepo persistence.ReportStorage
			if test.withStorage {
				storage := storageMock.NewReportStorage(tt)
				if test.mockStorage != nil {
					storage.On("GetLatestByUrl", test.url).Once().Return(test.mockStorage())
				}
				reportRepo = storage
			}

			r := gin.Default()
			legalityHandler := NewLegalityApiHandler(nil, reportRepo, metrics.ApiMetrics)
			r.GET("/legality-report", legalityHandler.GetLegalityReport)
			req, _ := http.NewRequest("GET",
				fmt.Sprintf("/legality-report?url=%s", neturl.QueryEscape(test.url)), nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			responseData, _ := io.ReadAll(w.Body)
			assert.Equal(tt, test.expectedResponse, string(responseData))
			assert.Equal(tt, test.expectedStatusCode, w.Code)
		})
	}
}
