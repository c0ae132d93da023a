package quality

import (
	"math"
	"sort"
	"strings"

	"edaqa/domain/quality"
	"edaqa/internal/config"
)

const (
	verdictOK       = "ok"
	verdictWarnings = "ok with warnings"
	verdictLow      = "low quality"
)

// Score reduces flags to a single number in [0,1]:
//
//	penalty = sum of weights of triggered problem flags
//	        + MissingShareWeight * max_missing_share
//	score   = 1 - min(penalty, 1)
//
// It is pure; equal flags always give an equal score.
func Score(flags quality.QualityFlags, cfg config.Scoring) quality.QualityScore {
	weights := cfg.Weights()
	triggered := flags.Problems()

	penalty := cfg.MissingShareWeight * flags.MaxMissingShare
	for _, name := range triggered {
		penalty += weights[name]
	}
	score := clamp(1-math.Min(penalty, 1), 0, 1)

	sort.SliceStable(triggered, func(i, j int) bool {
		wi, wj := weights[triggered[i]], weights[triggered[j]]
		if wi != wj {
			return wi > wj
		}
		return triggered[i] < triggered[j]
	})

	ok := score >= cfg.AcceptanceThreshold

	return quality.QualityScore{
		Score:      score,
		OKForModel: ok,
		Message:    message(ok, triggered, cfg.MessageTopN),
		Triggered:  triggered,
		Flags:      flags,
	}
}

func message(ok bool, triggered []string, topN int) string {
	if len(triggered) == 0 {
		if ok {
			return verdictOK
		}
		return verdictLow
	}

	verdict := verdictLow
	if ok {
		verdict = verdictWarnings
	}

	dominant := triggered
	if topN > 0 && len(dominant) > topN {
		dominant = dominant[:topN]
	}
	return verdict + ": " + strings.Join(dominant, ", ")
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
