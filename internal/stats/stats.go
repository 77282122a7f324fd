package stats

import "codeatlas/internal/extract"

// Summary aggregates one analysis run for downstream reporting. All counts
// are derived deterministically from the inputs.
type Summary struct {
	Files     int            `json:"files"`
	Functions int            `json:"functions"`
	Classes   int            `json:"classes"`
	Calls     int            `json:"calls"`
	Imports   int            `json:"imports"`
	Inherits  int            `json:"inherits"`
	Errors    int            `json:"errors"`
	Languages map[string]int `json:"languages"`
}

// Summarize counts entities and relationship edges across all records.
func Summarize(entities []extract.EntityRecord, errors []extract.ExtractionError) Summary {
	s := Summary{
		Files:     len(entities),
		Errors:    len(errors),
		Languages: make(map[string]int),
	}
	for _, rec := range entities {
		s.Functions += len(rec.Functions)
		s.Classes += len(rec.Classes)
		s.Calls += len(rec.Calls)
		s.Imports += len(rec.Imports)
		s.Inherits += len(rec.Inherits)
		if rec.Language != "" {
			s.Languages[rec.Language]++
		}
	}
	return s
}
