package source

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"edaqa/internal/config"
)

// Options control how raw input is turned into cells
type Options struct {
	Delimiter      rune
	MissingMarkers []string
	// Sheet selects an XLSX worksheet; empty means the first one
	Sheet string
	// JSONPath locates the record array inside a JSON document
	JSONPath string
	Logger   *zap.Logger
}

// OptionsFrom maps the source configuration section onto reader options
func OptionsFrom(cfg config.Source, logger *zap.Logger) Options {
	delim := ','
	if r, _ := utf8.DecodeRuneInString(cfg.Delimiter); r != utf8.RuneError {
		delim = r
	}
	return Options{
		Delimiter:      delim,
		MissingMarkers: cfg.MissingMarkers,
		Sheet:          cfg.Sheet,
		JSONPath:       cfg.JSONPath,
		Logger:         logger,
	}
}

// DefaultOptions mirrors the default source configuration
func DefaultOptions() Options {
	return OptionsFrom(config.Default().Source, nil)
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) markers() map[string]struct{} {
	set := make(map[string]struct{}, len(o.MissingMarkers))
	for _, m := range o.MissingMarkers {
		set[m] = struct{}{}
	}
	return set
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	return out
}
