package decision

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidBuy(t *testing.T) {
	rec, err := Parse([]byte(`{"decision":"BUY","percentage":35,"reason":"breakout above upper band","expected_next_day_price":191.5}`))
	require.NoError(t, err)
	assert.Equal(t, ActionBuy, rec.Decision)
	assert.Equal(t, 35, rec.Percentage)
	assert.Equal(t, "breakout above upper band", rec.Reason)
	assert.InDelta(t, 191.5, rec.ExpectedNextDayPrice, 1e-9)
}

func TestParseValidHold(t *testing.T) {
	rec, err := Parse([]byte(`{"decision":"HOLD","percentage":0,"reason":"mixed signals","expected_next_day_price":100}`))
	require.NoError(t, err)
	assert.Equal(t, ActionHold, rec.Decision)
	assert.Zero(t, rec.Percentage)
}

func TestParseRejectsHoldWithStake(t *testing.T) {
	_, err := Parse([]byte(`{"decision":"HOLD","percentage":10,"reason":"r","expected_next_day_price":100}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected by schema")
}

func TestParseRejectsBuyWithZeroStake(t *testing.T) {
	_, err := Parse([]byte(`{"decision":"BUY","percentage":0,"reason":"r","expected_next_day_price":100}`))
	require.Error(t, err)
}

func TestParseRejectsStakeOutOfRange(t *testing.T) {
	_, err := Parse([]byte(`{"decision":"SELL","percentage":101,"reason":"r","expected_next_day_price":100}`))
	require.Error(t, err)
}

func TestParseRejectsFractionalStake(t *testing.T) {
	_, err := Parse([]byte(`{"decision":"BUY","percentage":12.5,"reason":"r","expected_next_day_price":100}`))
	require.Error(t, err)
}

func TestParseRejectsUnknownDecision(t *testing.T) {
	_, err := Parse([]byte(`{"decision":"WAIT","percentage":0,"reason":"r","expected_next_day_price":100}`))
	require.Error(t, err)
}

func TestParseRejectsMissingField(t *testing.T) {
	_, err := Parse([]byte(`{"decision":"HOLD","percentage":0,"reason":"r"}`))
	require.Error(t, err)
}

func TestParseRejectsExtraField(t *testing.T) {
	_, err := Parse([]byte(`{"decision":"HOLD","percentage":0,"reason":"r","expected_next_day_price":100,"note":"x"}`))
	require.Error(t, err)
}

func TestParseRejectsEmptyReason(t *testing.T) {
	_, err := Parse([]byte(`{"decision":"HOLD","percentage":0,"reason":"","expected_next_day_price":100}`))
	require.Error(t, err)
}

func TestParseRejectsNonJSON(t *testing.T) {
	_, err := Parse([]byte(`the market looks bullish`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
}

func TestResponseFormatIsValidSchema(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(ResponseFormat(), &doc))
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, false, doc["additionalProperties"])
	assert.Len(t, doc["required"], 4)
}
