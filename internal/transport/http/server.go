// Package httpapi exposes the advisory pipeline over HTTP for operators and
// schedulers. The process stays a one-shot analyzer at heart; this surface
// just triggers runs and reads the ledger back.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"minerva/internal/advisor"
	"minerva/internal/logger"
	"minerva/internal/store/ledger"
)

// Analyzer runs one analysis for one symbol.
type Analyzer interface {
	Analyze(ctx context.Context, symbol string) (*advisor.Outcome, error)
}

// RecordReader lists persisted verdicts.
type RecordReader interface {
	List(ctx context.Context, symbol string, limit int) ([]ledger.Entry, error)
}

type Server struct {
	engine   *gin.Engine
	analyzer Analyzer
	records  RecordReader
}

func NewServer(analyzer Analyzer, records RecordReader, env string) *Server {
	if env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{
		engine:   gin.New(),
		analyzer: analyzer,
		records:  records,
	}
	s.engine.Use(gin.Recovery())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api := s.engine.Group("/api")
	api.POST("/analyze", s.handleAnalyze)
	api.GET("/records", s.handleRecords)
}

func (s *Server) Run(addr string) error {
	logger.Infof("http server listening on %s", addr)
	return s.engine.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.engine }

type analyzeRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

type analyzeResponse struct {
	Symbol                  string  `json:"symbol"`
	Decision                string  `json:"decision"`
	Percentage              int     `json:"percentage"`
	Reason                  string  `json:"reason"`
	ReasonLocal             string  `json:"reason_local,omitempty"`
	CurrentPrice            float64 `json:"current_price"`
	ExpectedNextDayPrice    float64 `json:"expected_next_day_price"`
	ExpectedPriceDifference float64 `json:"expected_price_difference"`
	RecordedAt              string  `json:"recorded_at"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}
	out, err := s.analyzer.Analyze(c.Request.Context(), req.Symbol)
	if err != nil {
		logger.Errorf("analysis run failed for %s: %v", req.Symbol, err)
		status := http.StatusInternalServerError
		if errors.Is(err, advisor.ErrPriceUnavailable) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analyzeResponse{
		Symbol:                  out.Symbol,
		Decision:                string(out.Record.Decision),
		Percentage:              out.Record.Percentage,
		Reason:                  out.Record.Reason,
		ReasonLocal:             out.ReasonLocal,
		CurrentPrice:            out.Entry.CurrentPrice,
		ExpectedNextDayPrice:    out.Entry.ExpectedNextDayPrice,
		ExpectedPriceDifference: out.Entry.ExpectedPriceDifference,
		RecordedAt:              out.Entry.Time.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleRecords(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol query parameter is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	entries, err := s.records.List(c.Request.Context(), symbol, limit)
	if err != nil {
		logger.Errorf("record listing failed for %s: %v", symbol, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "records": entries})
}
