package quality

// Flag names. They double as JSON keys and as keys of the penalty weights.
const (
	FlagTooFewRows           = "too_few_rows"
	FlagTooManyColumns       = "too_many_columns"
	FlagMaxMissingShare      = "max_missing_share"
	FlagTooManyMissing       = "too_many_missing"
	FlagHasConstantColumns   = "has_constant_columns"
	FlagConstantColumnNames  = "constant_column_names"
	FlagConstantColumnsCount = "constant_columns_count"
	FlagHasManyZeroValues    = "has_many_zero_values"
	FlagHighZeroColumnNames  = "high_zero_column_names"
	FlagHighZeroColumns      = "high_zero_columns"
	FlagHasNumeric           = "has_numeric"
	FlagHasCategorical       = "has_categorical"
	FlagHasDatetime          = "has_datetime"
)

// ProblemFlags are the boolean flags that indicate a quality problem and
// carry a scoring penalty.
var ProblemFlags = []string{
	FlagTooFewRows,
	FlagTooManyColumns,
	FlagTooManyMissing,
	FlagHasConstantColumns,
	FlagHasManyZeroValues,
}

// Scope tells the caller how much detail the flags were computed from
type Scope string

const (
	// ScopeFull means a complete dataset profile was available
	ScopeFull Scope = "full"
	// ScopeAggregated means only a QualityRequest summary was supplied and
	// per-column flags were left at their neutral value
	ScopeAggregated Scope = "aggregated"
)

// QualityRequest is the aggregated-feature input: a reduced summary used in
// place of raw rows.
type QualityRequest struct {
	NRows           int     `json:"n_rows" yaml:"n_rows"`
	NCols           int     `json:"n_cols" yaml:"n_cols"`
	MaxMissingShare float64 `json:"max_missing_share" yaml:"max_missing_share" binding:"gte=0,lte=1"`
	NumericCols     int     `json:"numeric_cols" yaml:"numeric_cols" binding:"gte=0"`
	CategoricalCols int     `json:"categorical_cols" yaml:"categorical_cols" binding:"gte=0"`
}

// QualityFlags is the structured outcome of flag evaluation. It is a pure
// function of its input and is never modified after construction.
type QualityFlags struct {
	TooFewRows      bool    `json:"too_few_rows" yaml:"too_few_rows"`
	TooManyColumns  bool    `json:"too_many_columns" yaml:"too_many_columns"`
	MaxMissingShare float64 `json:"max_missing_share" yaml:"max_missing_share"`
	TooManyMissing  bool    `json:"too_many_missing" yaml:"too_many_missing"`

	HasConstantColumns   bool     `json:"has_constant_columns" yaml:"has_constant_columns"`
	ConstantColumnNames  []string `json:"constant_column_names" yaml:"constant_column_names"`
	ConstantColumnsCount int      `json:"constant_columns_count" yaml:"constant_columns_count"`

	HasManyZeroValues   bool     `json:"has_many_zero_values" yaml:"has_many_zero_values"`
	HighZeroColumnNames []string `json:"high_zero_column_names" yaml:"high_zero_column_names"`
	HighZeroColumns     int      `json:"high_zero_columns" yaml:"high_zero_columns"`

	HasNumeric     bool `json:"has_numeric" yaml:"has_numeric"`
	HasCategorical bool `json:"has_categorical" yaml:"has_categorical"`
	HasDatetime    bool `json:"has_datetime" yaml:"has_datetime"`

	Scope       Scope    `json:"scope" yaml:"scope"`
	Unavailable []string `json:"unavailable,omitempty" yaml:"unavailable,omitempty"`
}

// Map returns the flag-name to value mapping
func (f QualityFlags) Map() map[string]any {
	return map[string]any{
		FlagTooFewRows:           f.TooFewRows,
		FlagTooManyColumns:       f.TooManyColumns,
		FlagMaxMissingShare:      f.MaxMissingShare,
		FlagTooManyMissing:       f.TooManyMissing,
		FlagHasConstantColumns:   f.HasConstantColumns,
		FlagConstantColumnNames:  f.ConstantColumnNames,
		FlagConstantColumnsCount: f.ConstantColumnsCount,
		FlagHasManyZeroValues:    f.HasManyZeroValues,
		FlagHighZeroColumnNames:  f.HighZeroColumnNames,
		FlagHighZeroColumns:      f.HighZeroColumns,
		FlagHasNumeric:           f.HasNumeric,
		FlagHasCategorical:       f.HasCategorical,
		FlagHasDatetime:          f.HasDatetime,
	}
}

// Booleans returns only the boolean flags
func (f QualityFlags) Booleans() map[string]bool {
	return map[string]bool{
		FlagTooFewRows:         f.TooFewRows,
		FlagTooManyColumns:     f.TooManyColumns,
		FlagTooManyMissing:     f.TooManyMissing,
		FlagHasConstantColumns: f.HasConstantColumns,
		FlagHasManyZeroValues:  f.HasManyZeroValues,
		FlagHasNumeric:         f.HasNumeric,
		FlagHasCategorical:     f.HasCategorical,
		FlagHasDatetime:        f.HasDatetime,
	}
}

// Problems lists the triggered problem flags in ProblemFlags order
func (f QualityFlags) Problems() []string {
	set := f.Booleans()
	out := []string{}
	for _, name := range ProblemFlags {
		if set[name] {
			out = append(out, name)
		}
	}
	return out
}

// QualityScore is the reduced verdict for one scoring call
type QualityScore struct {
	Score      float64      `json:"quality_score" yaml:"quality_score"`
	OKForModel bool         `json:"ok_for_model" yaml:"ok_for_model"`
	Message    string       `json:"message" yaml:"message"`
	Triggered  []string     `json:"triggered" yaml:"triggered"`
	Flags      QualityFlags `json:"flags" yaml:"flags"`
}
