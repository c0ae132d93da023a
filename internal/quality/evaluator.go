package quality

import (
	"edaqa/domain/profile"
	"edaqa/domain/quality"
	"edaqa/internal/config"
)

// Evaluate computes the quality flags of a feature source against the
// configured thresholds. Flags that need per-column detail stay at their
// neutral value on the aggregated path and are listed in Unavailable.
func Evaluate(src FeatureSource, th config.Thresholds) quality.QualityFlags {
	flags := quality.QualityFlags{
		TooFewRows:     src.RowCount() < th.MinRows,
		TooManyColumns: src.ColumnCount() > th.MaxColumns,
		Scope:          quality.ScopeFull,

		// empty, not nil, so both paths encode [] rather than null
		ConstantColumnNames: []string{},
		HighZeroColumnNames: []string{},
	}

	for _, share := range src.MissingShares() {
		if share > flags.MaxMissingShare {
			flags.MaxMissingShare = share
		}
	}
	flags.TooManyMissing = flags.MaxMissingShare > th.MinMissingShare

	kinds := src.KindCounts()
	flags.HasNumeric = kinds.Numeric > 0
	flags.HasCategorical = kinds.Categorical > 0
	flags.HasDatetime = kinds.Datetime > 0

	details, ok := src.ColumnDetails()
	if !ok {
		flags.Scope = quality.ScopeAggregated
		flags.Unavailable = []string{
			quality.FlagHasConstantColumns,
			quality.FlagHasManyZeroValues,
		}
		if !src.HasKindDetail() {
			flags.Unavailable = append(flags.Unavailable, quality.FlagHasDatetime)
		}
		return flags
	}

	for _, d := range details {
		if d.UniqueCount <= 1 {
			flags.ConstantColumnNames = append(flags.ConstantColumnNames, d.Name)
		}
		if d.Kind == profile.KindNumeric && d.ZeroShare > th.ZeroShare {
			flags.HighZeroColumnNames = append(flags.HighZeroColumnNames, d.Name)
		}
	}

	flags.ConstantColumnsCount = len(flags.ConstantColumnNames)
	flags.HasConstantColumns = flags.ConstantColumnsCount > 0
	flags.HighZeroColumns = len(flags.HighZeroColumnNames)
	flags.HasManyZeroValues = flags.HighZeroColumns > 0

	return flags
}

// EvaluateProfile is shorthand for the full-profile path
func EvaluateProfile(p *profile.DatasetProfile, th config.Thresholds) quality.QualityFlags {
	return Evaluate(FromProfile(p), th)
}

// EvaluateRequest is shorthand for the aggregated path
func EvaluateRequest(req quality.QualityRequest, th config.Thresholds) quality.QualityFlags {
	return Evaluate(FromRequest(req), th)
}
