package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleClientJoinsSegments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ko", r.URL.Query().Get("tl"))
		assert.Equal(t, "auto", r.URL.Query().Get("sl"))
		assert.Equal(t, "strong momentum", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`[[["강한 ","strong ",null],["모멘텀","momentum",null]],null,"en"]`))
	}))
	defer srv.Close()

	c := NewGoogleClient(srv.URL, "ko", time.Second)
	out, err := c.Translate(context.Background(), "strong momentum")
	require.NoError(t, err)
	assert.Equal(t, "강한 모멘텀", out)
}

func TestGoogleClientBadShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"blocked"}`))
	}))
	defer srv.Close()

	c := NewGoogleClient(srv.URL, "ko", time.Second)
	_, err := c.Translate(context.Background(), "text")
	require.Error(t, err)
}

func TestGoogleClientEmptyInputShortCircuits(t *testing.T) {
	c := NewGoogleClient("http://unused.invalid", "ko", time.Second)
	out, err := c.Translate(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, "  ", out)
}

func TestNoop(t *testing.T) {
	out, err := Noop{}.Translate(context.Background(), "unchanged")
	require.NoError(t, err)
	assert.Equal(t, "unchanged", out)
}
