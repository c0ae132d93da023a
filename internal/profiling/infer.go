package profiling

import (
	"math"
	"strconv"
	"strings"
	"time"

	"edaqa/domain/profile"
)

// kindPredicate accepts a column when every present value satisfies it.
// detail carries predicate-specific output, the matched layout for datetime.
type kindPredicate struct {
	kind  profile.Kind
	match func(values []string, layouts []string) (detail string, ok bool)
}

// inference order matters: first match wins
var kindPredicates = []kindPredicate{
	{kind: profile.KindBoolean, match: allBooleans},
	{kind: profile.KindDatetime, match: allDatetimes},
	{kind: profile.KindNumeric, match: allNumbers},
}

// inferKind returns the column kind and, for datetime, the layout used.
// A column without present values has no evidence for a stronger type and
// is categorical.
func inferKind(values []string, layouts []string) (profile.Kind, string) {
	if len(values) == 0 {
		return profile.KindCategorical, ""
	}
	for _, p := range kindPredicates {
		if detail, ok := p.match(values, layouts); ok {
			return p.kind, detail
		}
	}
	return profile.KindCategorical, ""
}

func allBooleans(values []string, _ []string) (string, bool) {
	for _, v := range values {
		if _, ok := parseBool(v); !ok {
			return "", false
		}
	}
	return "", true
}

func allDatetimes(values []string, layouts []string) (string, bool) {
	for _, layout := range layouts {
		matched := true
		for _, v := range values {
			if _, err := time.Parse(layout, v); err != nil {
				matched = false
				break
			}
		}
		if matched {
			return layout, true
		}
	}
	return "", false
}

func allNumbers(values []string, _ []string) (string, bool) {
	for _, v := range values {
		if _, ok := parseNumber(v); !ok {
			return "", false
		}
	}
	return "", true
}

// parseBool accepts true/false/yes/no in any case. 0 and 1 stay numeric so
// indicator columns take part in zero-share analysis.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "yes":
		return true, true
	case "false", "no":
		return false, true
	}
	return false, false
}

// parseNumber accepts finite decimal and scientific notation
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
