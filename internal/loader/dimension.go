package loader

import (
	"context"
	"log/slog"
	"strconv"

	"vaxetl/internal/store"
	"vaxetl/pkg/contracts/domain"
)

// DimensionSource names the columns of one artifact that feed a dimension
type DimensionSource struct {
	Frame       *domain.Frame
	KeyColumn   string
	ValueColumn string
}

// UnionDistinct stacks the (key, value) pairs of every source and keeps the
// first occurrence of each distinct pair. A source without its key column
// contributes nothing.
func UnionDistinct(sources ...DimensionSource) [][]string {
	seen := make(map[[2]string]bool)
	var out [][]string
	for _, src := range sources {
		if src.Frame == nil || !src.Frame.Has(src.KeyColumn) {
			continue
		}
		pairs := src.Frame.Select([]string{src.KeyColumn, src.ValueColumn})
		for _, row := range pairs.Rows {
			k := [2]string{row[0], row[1]}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, []string{row[0], row[1]})
		}
	}
	return out
}

// KeyMap maps a natural key to the surrogate id the store assigned
type KeyMap map[string]int64

// NewKeyMap builds a key map from read-back rows. Rows without a key are
// skipped; when a key repeats the later id wins.
func NewKeyMap(rows []store.KeyRow) KeyMap {
	m := make(KeyMap, len(rows))
	for _, r := range rows {
		if !r.Key.Valid || r.Key.String == "" {
			continue
		}
		m[r.Key.String] = r.ID
	}
	return m
}

// Lookup returns the id of key
func (m KeyMap) Lookup(key string) (int64, bool) {
	if key == "" {
		return 0, false
	}
	id, ok := m[key]
	return id, ok
}

// Resolve returns the id of key as cell text, or a missing cell
func (m KeyMap) Resolve(key string) string {
	if id, ok := m.Lookup(key); ok {
		return strconv.FormatInt(id, 10)
	}
	return ""
}

// Dimension is a deduplicated lookup table waiting to be persisted
type Dimension struct {
	Table     domain.Table
	KeyColumn string
	Rows      [][]string
}

// BuildDimension persists dim, fetches the ids the store assigned and returns
// the natural key map. The three phases are separate calls so a failure
// names the phase that failed.
func (l *Loader) BuildDimension(ctx context.Context, dim Dimension) (KeyMap, error) {
	written, err := l.persist(ctx, dim)
	if err != nil {
		return nil, err
	}
	rows, err := l.store.FetchKeys(ctx, dim.Table.Name, dim.KeyColumn)
	if err != nil {
		return nil, err
	}
	keys := NewKeyMap(rows)

	l.logger.InfoContext(ctx, "Dimension built",
		slog.String("table", dim.Table.Name),
		slog.Int64("rows", written),
		slog.Int("keys", len(keys)))
	return keys, nil
}

func (l *Loader) persist(ctx context.Context, dim Dimension) (int64, error) {
	written, err := l.store.Append(ctx, dim.Table, dim.Rows)
	if err != nil {
		return 0, err
	}
	l.telemetry.RecordLoaded(ctx, dim.Table.Name, written)
	return written, nil
}

// countryRows builds the country dimension: distinct (iso3, country) pairs of
// the coverage artifact, with who_region taken from the first introduction
// row of the same iso3 when that artifact carries one.
func countryRows(coverage, intro *domain.Frame) [][]string {
	pairs := UnionDistinct(DimensionSource{Frame: coverage, KeyColumn: "iso3", ValueColumn: "country"})

	regions := make(map[string]string)
	if intro != nil && intro.Has("who_region") && intro.Has("iso3") {
		sel := intro.Select([]string{"iso3", "who_region"})
		for _, row := range sel.Rows {
			if _, ok := regions[row[0]]; !ok {
				regions[row[0]] = row[1]
			}
		}
	}

	out := make([][]string, len(pairs))
	for i, p := range pairs {
		out[i] = []string{p[0], p[1], regions[p[0]]}
	}
	return out
}
