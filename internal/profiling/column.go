package profiling

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"edaqa/domain/profile"
	"edaqa/domain/table"
)

// ProfileColumn infers the kind of one column and computes its statistics.
// It never fails: an all-missing or all-unique column is a valid profile.
func ProfileColumn(name string, cells []table.Cell, opts Options) profile.ColumnProfile {
	present := presentValues(cells)

	kind, layout := inferKind(present, opts.DatetimeLayouts)

	cp := profile.ColumnProfile{
		Name:         name,
		Kind:         kind,
		RowCount:     len(cells),
		MissingCount: len(cells) - len(present),
		MissingShare: missingShare(len(cells)-len(present), len(cells), opts.MissingSharePrecision),

		ExampleValues: firstDistinct(present, opts.ExampleValues),
	}

	switch kind {
	case profile.KindNumeric:
		numbers := make([]float64, len(present))
		for i, v := range present {
			numbers[i], _ = parseNumber(v)
		}
		cp.UniqueCount = countDistinct(present, numericKey)
		if stats, err := describe(numbers); err == nil {
			cp.Numeric = stats
		}
	case profile.KindBoolean:
		cp.UniqueCount = countDistinct(present, booleanKey)
		cp.Boolean = booleanStats(present)
	case profile.KindDatetime:
		cp.UniqueCount = countDistinct(present, identityKey)
		cp.Datetime = datetimeStats(present, layout)
	default:
		frequencies := countFrequencies(present)
		cp.UniqueCount = len(frequencies)
		cp.TopValues = topK(frequencies, len(present), opts.TopK)
	}

	return cp
}

// presentValues returns the trimmed values of non-missing cells in order
func presentValues(cells []table.Cell) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		if c.Missing() {
			continue
		}
		out = append(out, trim(c.Value))
	}
	return out
}

func firstDistinct(values []string, n int) []string {
	out := []string{}
	seen := make(map[string]struct{}, n)
	for _, v := range values {
		if len(out) >= n {
			break
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

func missingShare(missing, rows, precision int) float64 {
	if rows == 0 {
		return 0
	}
	return round(float64(missing)/float64(rows), precision)
}

func round(v float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}

// Canonical keys collapse spellings of the same value, so "1" and "1.0"
// count once in a numeric column.
func numericKey(v string) string {
	f, _ := parseNumber(v)
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func booleanKey(v string) string {
	b, _ := parseBool(v)
	return strconv.FormatBool(b)
}

func identityKey(v string) string {
	return v
}

func countDistinct(values []string, key func(string) string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[key(v)] = struct{}{}
	}
	return len(seen)
}

func booleanStats(values []string) *profile.BooleanStats {
	out := &profile.BooleanStats{}
	for _, v := range values {
		if b, _ := parseBool(v); b {
			out.TrueCount++
		}
	}
	if len(values) > 0 {
		out.TrueShare = float64(out.TrueCount) / float64(len(values))
	}
	return out
}

func datetimeStats(values []string, layout string) *profile.DatetimeStats {
	out := &profile.DatetimeStats{Layout: layout}
	for i, v := range values {
		t, err := time.Parse(layout, v)
		if err != nil {
			continue
		}
		if i == 0 || t.Before(out.Min) {
			out.Min = t
		}
		if i == 0 || t.After(out.Max) {
			out.Max = t
		}
	}
	return out
}

// frequency tracks a value's count and the position it was first seen at
type frequency struct {
	value     string
	count     int
	firstSeen int
}

func countFrequencies(values []string) []frequency {
	index := make(map[string]int, len(values))
	var out []frequency
	for i, v := range values {
		if at, ok := index[v]; ok {
			out[at].count++
			continue
		}
		index[v] = len(out)
		out = append(out, frequency{value: v, count: 1, firstSeen: i})
	}
	return out
}

// topK orders by count descending and breaks ties by first-seen position
func topK(frequencies []frequency, present, k int) []profile.ValueCount {
	if len(frequencies) == 0 {
		return nil
	}

	ordered := make([]frequency, len(frequencies))
	copy(ordered, frequencies)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].firstSeen < ordered[j].firstSeen
	})

	if k > 0 && len(ordered) > k {
		ordered = ordered[:k]
	}

	out := make([]profile.ValueCount, len(ordered))
	for i, f := range ordered {
		out[i] = profile.ValueCount{
			Value: f.value,
			Count: f.count,
			Share: float64(f.count) / float64(present),
		}
	}
	return out
}
