package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/answer-trust/internal/model"
	"github.com/sells-group/answer-trust/internal/pipeline"
)

type fakeRunner struct {
	bundle   *pipeline.Bundle
	runErr   error
	gotReq   pipeline.Request
	gotCaps  []model.Capture
	driftErr error
}

func (f *fakeRunner) Run(_ context.Context, req pipeline.Request) (*pipeline.Bundle, error) {
	f.gotReq = req
	return f.bundle, f.runErr
}

func (f *fakeRunner) Drift(_ context.Context, afb model.AFB, captures []model.Capture, inputSource string) (model.DriftReport, error) {
	f.gotCaps = captures
	if f.driftErr != nil {
		return model.DriftReport{}, f.driftErr
	}
	return model.DriftReport{AFBID: afb.AFBID, Status: model.DriftCompared, Meta: model.NewMeta(inputSource)}, nil
}

func serve(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Health(t *testing.T) {
	h := buildRouter(&fakeRunner{}, []string{"*"})

	rr := serve(h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, model.Version, body["version"])
}

func TestRouter_Metrics(t *testing.T) {
	h := buildRouter(&fakeRunner{}, []string{"*"})

	rr := serve(h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestRouter_Pipeline(t *testing.T) {
	fr := &fakeRunner{bundle: &pipeline.Bundle{RunID: "run-1", Entity: model.EntityProfile{EntityID: "ent:https://acme.com"}}}
	h := buildRouter(fr, []string{"*"})

	rr := serve(h, http.MethodPost, "/v1/pipeline", map[string]any{
		"url":       "https://acme.com",
		"refresh":   true,
		"citations": []map[string]any{{"citation_id": "c1", "url": "https://example.org"}},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://acme.com", fr.gotReq.URL)
	assert.True(t, fr.gotReq.Refresh)
	require.Len(t, fr.gotReq.Citations, 1)

	var b pipeline.Bundle
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &b))
	assert.Equal(t, "run-1", b.RunID)
	assert.Equal(t, "ent:https://acme.com", b.Entity.EntityID)
}

func TestRouter_PipelineValidation(t *testing.T) {
	h := buildRouter(&fakeRunner{}, []string{"*"})

	rr := serve(h, http.MethodPost, "/v1/pipeline", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "url is required")

	req := httptest.NewRequest(http.MethodPost, "/v1/pipeline", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_PipelineError(t *testing.T) {
	h := buildRouter(&fakeRunner{runErr: errors.New("pipeline: crawl: browser unavailable")}, []string{"*"})

	rr := serve(h, http.MethodPost, "/v1/pipeline", map[string]any{"url": "https://acme.com"})
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "browser unavailable")
}

func TestRouter_Drift(t *testing.T) {
	fr := &fakeRunner{}
	h := buildRouter(fr, []string{"*"})

	rr := serve(h, http.MethodPost, "/v1/drift", map[string]any{
		"afb":      map[string]any{"afb_id": "afb:page:acme-com", "ai_quick_answer": "Acme builds rockets."},
		"captures": []map[string]any{{"capture_id": "cap:001", "ai_output": "Acme builds rockets.", "source": "gpt"}},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, fr.gotCaps, 1)

	var rep model.DriftReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rep))
	assert.Equal(t, "afb:page:acme-com", rep.AFBID)
	assert.Equal(t, "api", rep.Meta.InputSource)
}

func TestRouter_DriftValidation(t *testing.T) {
	h := buildRouter(&fakeRunner{driftErr: errors.New("boom")}, []string{"*"})

	rr := serve(h, http.MethodPost, "/v1/drift", map[string]any{"afb": map[string]any{}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(h, http.MethodPost, "/v1/drift", map[string]any{"afb": map[string]any{"afb_id": "afb:page:x"}})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRouter_CORS(t *testing.T) {
	h := buildRouter(&fakeRunner{}, []string{"https://app.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/v1/pipeline", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_NotFound(t *testing.T) {
	h := buildRouter(&fakeRunner{}, nil)
	rr := serve(h, http.MethodGet, "/v1/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
