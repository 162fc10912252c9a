package citation

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/answer-trust/internal/model"
)

type citationFile struct {
	Citations []model.Citation `json:"citations" yaml:"citations"`
}

// Parse decodes citations from JSON or YAML. Both a bare list and an object
// with a "citations" key are accepted.
func Parse(data []byte) ([]model.Citation, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []model.Citation{}, nil
	}

	unmarshal := yaml.Unmarshal
	if trimmed[0] == '[' || trimmed[0] == '{' {
		unmarshal = json.Unmarshal
	}

	var list []model.Citation
	if err := unmarshal(trimmed, &list); err == nil {
		if list == nil {
			list = []model.Citation{}
		}
		return list, nil
	}
	var f citationFile
	if err := unmarshal(trimmed, &f); err != nil {
		return nil, eris.Wrap(err, "citation: decode")
	}
	if f.Citations == nil {
		f.Citations = []model.Citation{}
	}
	return f.Citations, nil
}

// LoadFile reads and parses a citation file.
func LoadFile(path string) ([]model.Citation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "citation: read %s", path)
	}
	return Parse(data)
}
