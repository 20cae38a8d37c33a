package stats

import "encoding/json"

// InfoSummary is the exported, serializable view of a TypeInfo.
type InfoSummary struct {
	Tag       string   `json:"tag" yaml:"tag" toml:"tag"`
	Count     int      `json:"count" yaml:"count" toml:"count"`
	Frequency float64  `json:"frequency" yaml:"frequency" toml:"frequency"`
	Sample    []Sample `json:"sample" yaml:"sample" toml:"sample"`
}

// Summary is the exported, serializable view of a Types report.
// Types are listed most common first.
type Summary struct {
	Total int           `json:"total" yaml:"total" toml:"total"`
	Size  int           `json:"sample_size" yaml:"sample_size" toml:"sample_size"`
	Types []InfoSummary `json:"types" yaml:"types" toml:"types"`
}

// Summary returns a snapshot of the report.
func (t *Types) Summary() Summary {
	s := Summary{
		Total: t.total,
		Size:  t.size,
		Types: make([]InfoSummary, 0, len(t.order)),
	}
	for _, c := range t.MostCommon(0) {
		info := t.types[c.Tag]
		s.Types = append(s.Types, InfoSummary{
			Tag:       info.name,
			Count:     info.count,
			Frequency: info.Frequency(),
			Sample:    info.Sample(),
		})
	}
	return s
}

// MarshalJSON encodes the report as its Summary.
func (t *Types) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Summary())
}

// MarshalJSON encodes a single TypeInfo as an InfoSummary.
func (ti *TypeInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(InfoSummary{
		Tag:       ti.name,
		Count:     ti.count,
		Frequency: ti.Frequency(),
		Sample:    ti.Sample(),
	})
}
