package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/leadscan/internal/config"
	"github.com/nao1215/leadscan/internal/model"
	"github.com/nao1215/leadscan/internal/pipeline"
	"github.com/nao1215/leadscan/internal/report"
)

// MissingURLMessage is the error of a JSON request without a url.
const MissingURLMessage = "Missing required parameter: url"

// xlsxFilename is the download name of the form endpoint's workbook.
const xlsxFilename = "leads.xlsx"

var (
	errInvalidMaxPages = errors.New("max_pages must be a positive integer")
	errInvalidDelay    = errors.New("delay must be a non-negative number of seconds")
)

// scrapeRequest is the body of POST /api/scrape.
type scrapeRequest struct {
	URL      string   `json:"url"`
	MaxPages *int     `json:"max_pages"`
	Delay    *float64 `json:"delay"`
}

// scrapeParams are the validated parameters of one request.
type scrapeParams struct {
	url      string
	maxPages int
	delay    time.Duration
}

func newScrapeParams(rawURL string, maxPages int, delaySeconds float64) (scrapeParams, error) {
	if maxPages <= 0 {
		return scrapeParams{}, errInvalidMaxPages
	}
	if delaySeconds < 0 || math.IsNaN(delaySeconds) || math.IsInf(delaySeconds, 0) {
		return scrapeParams{}, errInvalidDelay
	}
	return scrapeParams{
		url:      strings.TrimSpace(rawURL),
		maxPages: maxPages,
		delay:    time.Duration(delaySeconds * float64(time.Second)),
	}, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// handleAPIScrape handles POST /api/scrape.
func (s *Server) handleAPIScrape(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": MissingURLMessage})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": MissingURLMessage})
		return
	}

	maxPages := config.DefaultMaxPages
	if req.MaxPages != nil {
		maxPages = *req.MaxPages
	}
	delay := config.DefaultCrawlDelay.Seconds()
	if req.Delay != nil {
		delay = *req.Delay
	}
	params, err := newScrapeParams(req.URL, maxPages, delay)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rep, err := s.scrape(c, params)
	if err != nil {
		s.logger.Error("API scraping error", "url", params.url, "error", err)
		c.JSON(http.StatusInternalServerError, report.NewErrorEnvelope(err))
		return
	}
	c.JSON(http.StatusOK, report.NewEnvelope(rep))
}

// handleFormScrape handles the form POST on /. A run with leads answers
// with an Excel attachment; anything else answers with a plain-text message.
func (s *Server) handleFormScrape(c *gin.Context) {
	rawURL := strings.TrimSpace(c.PostForm("url"))
	if rawURL == "" {
		c.String(http.StatusBadRequest, "Please enter a URL.")
		return
	}
	maxPages, err := strconv.Atoi(c.DefaultPostForm("max_pages", strconv.Itoa(config.DefaultMaxPages)))
	if err != nil {
		c.String(http.StatusBadRequest, errInvalidMaxPages.Error())
		return
	}
	delay, err := strconv.ParseFloat(c.DefaultPostForm("delay", "1.0"), 64)
	if err != nil {
		c.String(http.StatusBadRequest, errInvalidDelay.Error())
		return
	}
	params, err := newScrapeParams(rawURL, maxPages, delay)
	if err != nil {
		c.String(http.StatusBadRequest, "%s", err.Error())
		return
	}

	rep, err := s.scrape(c, params)
	if err != nil {
		s.logger.Error("scraping error", "url", params.url, "error", err)
		c.String(http.StatusInternalServerError, "Something went wrong while scraping: %v", err)
		return
	}
	if !rep.HasResults() {
		c.String(http.StatusUnprocessableEntity, "%s", report.NoResultsMessage(rep.Stats.PagesCrawled))
		return
	}

	body, err := workbookBytes(rep)
	if err != nil {
		s.logger.Error("failed to build workbook", "url", params.url, "error", err)
		c.String(http.StatusInternalServerError, "Something went wrong while scraping: %v", err)
		return
	}

	s.logger.Info("scraping finished",
		"url", params.url,
		"duration", rep.Stats.Duration,
		"results", len(rep.Rows),
	)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", xlsxFilename))
	c.Data(http.StatusOK, report.ExcelContentType, body)
}

// scrape runs one scrape bounded by the request context and timeout.
func (s *Server) scrape(c *gin.Context, params scrapeParams) (*model.ScrapeReport, error) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.requestTimeout)
	defer cancel()

	opts := s.optionsFor(params.url)
	opts.MaxPages = params.maxPages
	opts.Delay = params.delay
	opts.Logger = s.logger

	s.logger.Info("scraping started",
		"url", params.url,
		"max_pages", params.maxPages,
		"delay", params.delay,
	)
	return pipeline.Scrape(ctx, params.url, opts)
}

func workbookBytes(rep *model.ScrapeReport) ([]byte, error) {
	f, err := report.BuildWorkbook(rep)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
