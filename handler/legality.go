package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/IliaW/scrape-legality/internal/checker"
	"github.com/IliaW/scrape-legality/internal/model"
	"github.com/IliaW/scrape-legality/internal/persistence"
	"github.com/IliaW/scrape-legality/internal/telemetry"
	"github.com/IliaW/scrape-legality/util"
	"github.com/gin-gonic/gin"
)

type LegalityApiHandler struct {
	checker    *checker.LegalityChecker
	reportRepo persistence.ReportStorage
	metrics    *telemetry.ApiMetrics
}

// NewLegalityApiHandler creates the handler. reportRepo is nil when persistence is disabled.
func NewLegalityApiHandler(checker *checker.LegalityChecker, reportRepo persistence.ReportStorage,
	metrics *telemetry.ApiMetrics) *LegalityApiHandler {
	return &LegalityApiHandler{
		checker:    checker,
		reportRepo: reportRepo,
		metrics:    metrics,
	}
}

// GetLegalityCheck godoc
// @Summary Check whether scraping a website is legal
// @Description Probe robots.txt, terms/policy pages, headers, login gating and api docs of the website and ask the language model for a verdict
// @Tags Legality
// @Produce json
// @Param url query string true "Website to check"
// @Success 200 {object} model.Report "Report object"
// @Failure 400 {object} model.ErrorResponse
// @Security ApiKeyAuth
// @Router /legality-check [get]
func (h *LegalityApiHandler) GetLegalityCheck(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "'url' query parameter is required"})
		h.metrics.ErrorResponseCounter(1)
		return
	}
	if _, err := util.GetBaseUrl(url); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: fmt.Sprintf("failed to parse url. %s", err.Error())})
		h.metrics.ErrorResponseCounter(1)
		return
	}

	report := h.checker.Check(c.Request.Context(), url, io.Discard)
	if h.reportRepo != nil {
		if err := h.reportRepo.Save(report); err != nil {
			slog.Error("failed to save report.", slog.String("url", url), slog.String("err", err.Error()))
		}
	}

	c.JSON(http.StatusOK, report)
	h.metrics.SuccessResponseCounter(1)
}

// GetLegalityReport godoc
// @Summary Get the latest stored report for a website
// @Description Return the most recent legality report saved for the domain of the given url
// @Tags Legality
// @Produce json
// @Param url query string true "Website url"
// @Success 200 {object} model.Report "Report object"
// @Failure 404 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Security ApiKeyAuth
// @Router /legality-report [get]
func (h *LegalityApiHandler) GetLegalityReport(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "'url' query parameter is required"})
		return
	}
	if h.reportRepo == nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: "report storage is disabled"})
		return
	}

	report, err := h.reportRepo.GetLatestByUrl(url)
	if err != nil {
		var notFound persistence.ErrNotFound
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError,
			model.ErrorResponse{Error: fmt.Sprintf("failed to get report by url. %s", err.Error())})
		return
	}

	c.JSON(http.StatusOK, report)
}
