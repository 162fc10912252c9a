package drift

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/answer-trust/internal/model"
)

// captureDoc is the file form of a capture. captured_at is kept as text so
// JSON strings and YAML timestamps decode the same way.
type captureDoc struct {
	CaptureID  string     `json:"capture_id" yaml:"capture_id"`
	AFBID      string     `json:"afb_id" yaml:"afb_id"`
	AIOutput   string     `json:"ai_output" yaml:"ai_output"`
	Source     string     `json:"source" yaml:"source"`
	CapturedAt string     `json:"captured_at" yaml:"captured_at"`
	Meta       model.Meta `json:"meta" yaml:"meta"`
}

type captureFile struct {
	Captures []captureDoc `json:"captures" yaml:"captures"`
}

// ParseCaptures decodes captures from JSON or YAML: a bare list, an object
// with a "captures" key, or a single capture object.
func ParseCaptures(data []byte) ([]model.Capture, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []model.Capture{}, nil
	}

	unmarshal := yaml.Unmarshal
	if trimmed[0] == '[' || trimmed[0] == '{' {
		unmarshal = json.Unmarshal
	}

	var docs []captureDoc
	if err := unmarshal(trimmed, &docs); err != nil {
		var f captureFile
		if err := unmarshal(trimmed, &f); err != nil {
			return nil, eris.Wrap(err, "drift: decode captures")
		}
		docs = f.Captures
		if docs == nil {
			var one captureDoc
			if err := unmarshal(trimmed, &one); err == nil && one.AIOutput != "" {
				docs = []captureDoc{one}
			}
		}
	}

	out := make([]model.Capture, 0, len(docs))
	for i, d := range docs {
		c := model.Capture{
			CaptureID: d.CaptureID,
			AFBID:     d.AFBID,
			AIOutput:  d.AIOutput,
			Source:    d.Source,
			Meta:      d.Meta,
		}
		if d.CapturedAt != "" {
			ts, err := time.Parse(time.RFC3339, d.CapturedAt)
			if err != nil {
				return nil, eris.Wrapf(err, "drift: capture %d: captured_at", i)
			}
			c.CapturedAt = ts
		}
		out = append(out, c)
	}
	return out, nil
}

// LoadCapturesFile reads and parses a capture file.
func LoadCapturesFile(path string) ([]model.Capture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "drift: read %s", path)
	}
	return ParseCaptures(data)
}
