package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/answer-trust/internal/report"
)

// Artifact file names inside a bundle directory.
const (
	FileSite      = "site.json"
	FileSignals   = "signals.json"
	FileEntity    = "entity_profile.json"
	FileAFB       = "afb.json"
	FileCitations = "citation_eval.json"
	FileGraph     = "entity_graph.json"
	FileReport    = "report.json"
	FileReportMD  = "report.md"
	FileHomeHTML  = "home.html"
	FileDrift     = "drift_report.json"
)

// WriteBundle writes each artifact of b to its own file under dir, creating
// dir if needed. The home page markup and a markdown report are written
// alongside so single stages can be rerun from the directory.
func WriteBundle(dir string, b *Bundle) error {
	if b == nil {
		return eris.New("pipeline: nil bundle")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "pipeline: create %s", dir)
	}

	files := []struct {
		name string
		v    any
	}{
		{FileSite, b.Site},
		{FileSignals, b.Signals},
		{FileEntity, b.Entity},
		{FileAFB, b.AFB},
		{FileCitations, b.Citations},
		{FileGraph, b.Graph},
		{FileReport, b.Report},
	}
	for _, f := range files {
		if err := WriteJSON(filepath.Join(dir, f.name), f.v); err != nil {
			return err
		}
	}
	if err := WriteText(filepath.Join(dir, FileReportMD), report.Markdown(b.Report)); err != nil {
		return err
	}
	if b.Site.HomeHTML != "" {
		if err := WriteText(filepath.Join(dir, FileHomeHTML), b.Site.HomeHTML); err != nil {
			return err
		}
	}
	return nil
}

// WriteText writes s to path.
func WriteText(path, s string) error {
	if err := os.WriteFile(path, []byte(s), 0o644); err != nil {
		return eris.Wrapf(err, "pipeline: write %s", path)
	}
	return nil
}

// WriteJSON writes v as indented JSON to path.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "pipeline: marshal %s", filepath.Base(path))
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return eris.Wrapf(err, "pipeline: write %s", path)
	}
	return nil
}

// ReadJSON decodes the JSON file at path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "pipeline: read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrapf(err, "pipeline: decode %s", path)
	}
	return nil
}
