package model

import (
	"sort"

	"github.com/invopop/jsonschema"
)

// Schemas returns a JSON Schema for every artifact type, keyed by artifact name.
func Schemas() map[string]*jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true}
	return map[string]*jsonschema.Schema{
		"site":      r.Reflect(&CrawlResult{}),
		"signals":   r.Reflect(&SiteSignals{}),
		"entity":    r.Reflect(&EntityProfile{}),
		"afb":       r.Reflect(&AFB{}),
		"citations": r.Reflect(&[]Citation{}),
		"citation":  r.Reflect(&CitationEvaluation{}),
		"graph":     r.Reflect(&EntityGraph{}),
		"capture":   r.Reflect(&Capture{}),
		"drift":     r.Reflect(&DriftReport{}),
	}
}

// SchemaNames lists the keys of Schemas in sorted order.
func SchemaNames() []string {
	schemas := Schemas()
	names := make([]string, 0, len(schemas))
	for k := range schemas {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
