package quality

import (
	"edaqa/domain/profile"
	"edaqa/domain/quality"
)

// KindCounts tallies columns per inferred kind
type KindCounts struct {
	Numeric     int
	Categorical int
	Datetime    int
	Boolean     int
}

// ColumnDetail is the per-column information only a full profile carries
type ColumnDetail struct {
	Name        string
	Kind        profile.Kind
	UniqueCount int
	// ZeroShare is meaningful for numeric columns only
	ZeroShare float64
}

// FeatureSource is what the evaluator needs from its input. Both a full
// DatasetProfile and an aggregated QualityRequest satisfy it, so the two
// paths share every threshold rule.
type FeatureSource interface {
	RowCount() int
	ColumnCount() int
	MissingShares() []float64
	KindCounts() KindCounts
	// ColumnDetails returns false when per-column detail is unavailable
	ColumnDetails() ([]ColumnDetail, bool)
	// HasKindDetail reports whether datetime/boolean counts are known
	HasKindDetail() bool
}

// FromProfile exposes a dataset profile as a feature source
func FromProfile(p *profile.DatasetProfile) FeatureSource {
	return profileFeatures{p: p}
}

type profileFeatures struct {
	p *profile.DatasetProfile
}

func (f profileFeatures) RowCount() int    { return f.p.RowCount }
func (f profileFeatures) ColumnCount() int { return f.p.ColumnCount }

func (f profileFeatures) MissingShares() []float64 {
	out := make([]float64, len(f.p.Columns))
	for i, c := range f.p.Columns {
		out[i] = c.MissingShare
	}
	return out
}

func (f profileFeatures) KindCounts() KindCounts {
	var kc KindCounts
	for _, c := range f.p.Columns {
		switch c.Kind {
		case profile.KindNumeric:
			kc.Numeric++
		case profile.KindCategorical:
			kc.Categorical++
		case profile.KindDatetime:
			kc.Datetime++
		case profile.KindBoolean:
			kc.Boolean++
		}
	}
	return kc
}

func (f profileFeatures) ColumnDetails() ([]ColumnDetail, bool) {
	out := make([]ColumnDetail, len(f.p.Columns))
	for i, c := range f.p.Columns {
		out[i] = ColumnDetail{Name: c.Name, Kind: c.Kind, UniqueCount: c.UniqueCount}
		if c.Numeric != nil {
			out[i].ZeroShare = c.Numeric.ZeroShare
		}
	}
	return out, true
}

func (f profileFeatures) HasKindDetail() bool { return true }

// FromRequest exposes an aggregated feature summary as a feature source.
// The single max_missing_share stands in for the per-column shares.
func FromRequest(req quality.QualityRequest) FeatureSource {
	return requestFeatures{req: req}
}

type requestFeatures struct {
	req quality.QualityRequest
}

func (f requestFeatures) RowCount() int    { return f.req.NRows }
func (f requestFeatures) ColumnCount() int { return f.req.NCols }

func (f requestFeatures) MissingShares() []float64 {
	return []float64{f.req.MaxMissingShare}
}

func (f requestFeatures) KindCounts() KindCounts {
	return KindCounts{Numeric: f.req.NumericCols, Categorical: f.req.CategoricalCols}
}

func (f requestFeatures) ColumnDetails() ([]ColumnDetail, bool) { return nil, false }

func (f requestFeatures) HasKindDetail() bool { return false }
