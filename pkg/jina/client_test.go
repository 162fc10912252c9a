package jina

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_HTML(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "html", r.Header.Get("X-Return-Format"))
		assert.Equal(t, "20", r.Header.Get("X-Timeout"))
		assert.Equal(t, "/https://acme.com", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code": 200,
			"data": map[string]any{"title": "Acme", "url": "https://acme.com", "html": "<html><title>Acme</title></html>"},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := c.Read(context.Background(), "https://acme.com", WithTimeout(20*time.Second))

	require.NoError(t, err)
	assert.Equal(t, 200, got.Code)
	assert.Equal(t, "Acme", got.Data.Title)
	assert.Equal(t, "<html><title>Acme</title></html>", got.Data.Body())
}

func TestRead_MarkdownFallsBackToContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "markdown", r.Header.Get("X-Return-Format"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"code":200,"data":{"content":"# Acme"}}`))
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL))
	got, err := c.Read(context.Background(), "https://acme.com", WithFormat(FormatMarkdown))

	require.NoError(t, err)
	assert.Equal(t, "# Acme", got.Data.Body())
}

func TestRead_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"code":200,"data":{"html":"<p>ok</p>"}}`))
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	got, err := c.Read(context.Background(), "https://acme.com")

	require.NoError(t, err)
	assert.Equal(t, "<p>ok</p>", got.Data.HTML)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRead_ExhaustsRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithMaxAttempts(2))
	_, err := c.Read(context.Background(), "https://acme.com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.Equal(t, int32(2), calls.Load())
}

func TestRead_NonRetryableStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("denied"))
	}))
	defer srv.Close()

	_, err := NewClient("k", WithBaseURL(srv.URL)).Read(context.Background(), "https://acme.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 403")
}

func TestRead_BadJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := NewClient("k", WithBaseURL(srv.URL)).Read(context.Background(), "https://acme.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}
