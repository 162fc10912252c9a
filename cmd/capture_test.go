package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/answer-trust/internal/model"
	"github.com/sells-group/answer-trust/internal/pipeline"
)

func writeAFB(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, pipeline.FileAFB)
	require.NoError(t, pipeline.WriteJSON(path, model.AFB{
		AFBID:         "afb:page:acme-com",
		EntityID:      "ent:https://acme.com",
		AIQuickAnswer: "Acme builds reusable rockets for small satellites.",
		Eligibility:   model.EligibilityPass,
		Payload:       model.AnswerPayload{Answer: "Acme builds reusable rockets for small satellites."},
	}))
	return path
}

func TestCaptureThenDriftFromStore(t *testing.T) {
	useConfig(t)
	dir := t.TempDir()
	afbPath := writeAFB(t, dir)

	setOutput(t, &captureAFB, afbPath)
	setOutput(t, &captureSource, "chatgpt")
	for _, text := range []string{
		"Acme builds reusable rockets for small satellites.",
		"Acme is a bakery chain.",
	} {
		setOutput(t, &captureText, text)
		var out bytes.Buffer
		captureCmd.SetOut(&out)
		require.NoError(t, withContext(captureCmd).RunE(captureCmd, nil))
		assert.Contains(t, out.String(), "afb:page:acme-com")
	}

	var list bytes.Buffer
	captureListCmd.SetOut(&list)
	require.NoError(t, withContext(captureListCmd).RunE(captureListCmd, []string{"afb:page:acme-com"}))
	assert.Contains(t, list.String(), "cap:001")
	assert.Contains(t, list.String(), "cap:002")

	setOutput(t, &driftOutput, dir)
	setOutput(t, &driftCaptures, "")
	var out bytes.Buffer
	driftCmd.SetOut(&out)
	require.NoError(t, withContext(driftCmd).RunE(driftCmd, []string{afbPath}))

	var rep model.DriftReport
	require.NoError(t, pipeline.ReadJSON(filepath.Join(dir, pipeline.FileDrift), &rep))
	require.Len(t, rep.Comparisons, 2)
	assert.Equal(t, model.RiskLow, rep.Comparisons[0].HallucinationRisk)
	assert.Equal(t, model.RiskHigh, rep.Comparisons[1].HallucinationRisk)
	assert.Equal(t, "store", rep.Meta.InputSource)
	assert.Contains(t, out.String(), "average similarity")
}

func TestCaptureCommand_TextOrAsk(t *testing.T) {
	useConfig(t)
	setOutput(t, &captureAFB, writeAFB(t, t.TempDir()))
	setOutput(t, &captureText, "")

	err := withContext(captureCmd).RunE(captureCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of")
}

func TestCaptureCommand_AskNeedsKey(t *testing.T) {
	useConfig(t)
	setOutput(t, &captureAFB, writeAFB(t, t.TempDir()))
	setOutput(t, &captureText, "")
	prev := captureAsk
	captureAsk = true
	t.Cleanup(func() { captureAsk = prev })

	err := withContext(captureCmd).RunE(captureCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic key")
}

func TestCaptureImport(t *testing.T) {
	useConfig(t)
	file := filepath.Join(t.TempDir(), "captures.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
captures:
  - capture_id: cap:001
    afb_id: afb:page:acme-com
    ai_output: Acme builds rockets.
    source: perplexity
    captured_at: 2025-01-15T10:00:00Z
`), 0o644))

	var out bytes.Buffer
	captureImportCmd.SetOut(&out)
	require.NoError(t, withContext(captureImportCmd).RunE(captureImportCmd, []string{file}))
	assert.Contains(t, out.String(), "imported 1 captures")
}

func TestDriftCommand_CapturesFile(t *testing.T) {
	useConfig(t)
	dir := t.TempDir()
	afbPath := writeAFB(t, dir)
	file := filepath.Join(dir, "captures.json")
	require.NoError(t, os.WriteFile(file, []byte(`[{"capture_id":"cap:001","ai_output":"Acme builds reusable rockets for small satellites.","source":"gpt"}]`), 0o644))

	setOutput(t, &driftOutput, dir)
	setOutput(t, &driftCaptures, file)
	driftCmd.SetOut(&bytes.Buffer{})
	require.NoError(t, withContext(driftCmd).RunE(driftCmd, []string{afbPath}))

	var rep model.DriftReport
	require.NoError(t, pipeline.ReadJSON(filepath.Join(dir, pipeline.FileDrift), &rep))
	require.Len(t, rep.Comparisons, 1)
	assert.Equal(t, 1.0, rep.Comparisons[0].SimilarityScore)
	assert.Equal(t, "captures.json", rep.Meta.InputSource)
}

func TestCachePrune(t *testing.T) {
	useConfig(t)
	var out bytes.Buffer
	cachePruneCmd.SetOut(&out)
	require.NoError(t, withContext(cachePruneCmd).RunE(cachePruneCmd, nil))
	assert.Contains(t, out.String(), "deleted 0 expired crawls")
}

func TestSchemaCommand(t *testing.T) {
	var out bytes.Buffer
	schemaCmd.SetOut(&out)
	require.NoError(t, schemaCmd.RunE(schemaCmd, []string{"afb"}))
	assert.Contains(t, out.String(), "ai_quick_answer")

	assert.Error(t, schemaCmd.RunE(schemaCmd, []string{"nope"}))
}
