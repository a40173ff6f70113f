package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"minerva/internal/advisor"
	"minerva/internal/decision"
	"minerva/internal/store/ledger"
)

type fakeAnalyzer struct {
	out *advisor.Outcome
	err error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, symbol string) (*advisor.Outcome, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

type fakeReader struct {
	entries []ledger.Entry
	err     error
}

func (f *fakeReader) List(_ context.Context, _ string, _ int) ([]ledger.Entry, error) {
	return f.entries, f.err
}

func testOutcome() *advisor.Outcome {
	return &advisor.Outcome{
		Symbol: "AAPL",
		Price:  decimal.RequireFromString("100.00"),
		Record: &decision.Record{
			Decision: decision.ActionBuy, Percentage: 40,
			Reason: "momentum", ExpectedNextDayPrice: 102.35,
		},
		ReasonLocal: "모멘텀",
		Entry: &ledger.Entry{
			Stock: "AAPL", Time: time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC),
			Decision: "BUY", Percentage: 40, Reason: "momentum",
			CurrentPrice: 100.00, ExpectedNextDayPrice: 102.35, ExpectedPriceDifference: 2.35,
		},
	}
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	s := NewServer(&fakeAnalyzer{}, &fakeReader{}, "test")
	rr := doRequest(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := NewServer(&fakeAnalyzer{out: testOutcome()}, &fakeReader{}, "test")
	rr := doRequest(t, s, http.MethodPost, "/api/analyze", `{"symbol":"AAPL"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Equal(t, "BUY", gjson.Get(body, "decision").String())
	assert.Equal(t, int64(40), gjson.Get(body, "percentage").Int())
	assert.InDelta(t, 2.35, gjson.Get(body, "expected_price_difference").Float(), 1e-9)
	assert.Equal(t, "모멘텀", gjson.Get(body, "reason_local").String())
}

func TestAnalyzeEndpointMissingSymbol(t *testing.T) {
	s := NewServer(&fakeAnalyzer{out: testOutcome()}, &fakeReader{}, "test")
	rr := doRequest(t, s, http.MethodPost, "/api/analyze", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnalyzeEndpointPriceUnavailable(t *testing.T) {
	err := fmt.Errorf("%w for AAPL: quote endpoint down", advisor.ErrPriceUnavailable)
	s := NewServer(&fakeAnalyzer{err: err}, &fakeReader{}, "test")
	rr := doRequest(t, s, http.MethodPost, "/api/analyze", `{"symbol":"AAPL"}`)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "spot price unavailable")
}

func TestAnalyzeEndpointGenericFailure(t *testing.T) {
	s := NewServer(&fakeAnalyzer{err: errors.New("oracle call: status 500")}, &fakeReader{}, "test")
	rr := doRequest(t, s, http.MethodPost, "/api/analyze", `{"symbol":"AAPL"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRecordsEndpoint(t *testing.T) {
	s := NewServer(&fakeAnalyzer{}, &fakeReader{entries: []ledger.Entry{*testOutcome().Entry}}, "test")
	rr := doRequest(t, s, http.MethodGet, "/api/records?symbol=AAPL&limit=5", "")

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Equal(t, int64(1), gjson.Get(body, "records.#").Int())
	assert.Equal(t, "BUY", gjson.Get(body, "records.0.Decision").String())
}

func TestRecordsEndpointRequiresSymbol(t *testing.T) {
	s := NewServer(&fakeAnalyzer{}, &fakeReader{}, "test")
	rr := doRequest(t, s, http.MethodGet, "/api/records", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
