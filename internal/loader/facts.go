package loader

import (
	"context"
	"log/slog"

	"vaxetl/internal/dataprocessing"
	"vaxetl/pkg/contracts/domain"
)

// ForeignKey derives Column by looking SourceColumn up in Keys. A nil Keys
// leaves the column NULL for every row.
type ForeignKey struct {
	Column       string
	SourceColumn string
	Keys         KeyMap
}

// FactSpec describes how one artifact becomes a fact table
type FactSpec struct {
	Dataset     domain.Dataset
	Table       domain.Table
	Renames     dataprocessing.RenameTable
	ForeignKeys []ForeignKey
}

// ResolveFact adds the foreign key columns to a copy of frame and selects
// exactly the destination columns in order. Columns the artifact lacks come
// out NULL. The returned map counts unresolved keys per foreign key column;
// rows are never dropped.
func ResolveFact(frame *domain.Frame, spec FactSpec) (*domain.Frame, map[string]int) {
	f := spec.Renames.Apply(frame)
	unresolved := make(map[string]int)

	for _, fk := range spec.ForeignKeys {
		ids := make([]string, len(f.Rows))
		if fk.Keys != nil {
			source := f.Column(fk.SourceColumn)
			for i := range ids {
				if source != nil {
					ids[i] = fk.Keys.Resolve(source[i])
				}
				if ids[i] == "" {
					unresolved[fk.Column]++
				}
			}
		}
		f.SetColumn(fk.Column, ids)
	}

	return f.Select(spec.Table.ColumnNames()), unresolved
}

// LoadFact resolves frame against spec and appends it. It returns the number
// of rows written, which always equals the number of artifact rows.
func (l *Loader) LoadFact(ctx context.Context, frame *domain.Frame, spec FactSpec) (int64, error) {
	resolved, unresolved := ResolveFact(frame, spec)

	written, err := l.store.Append(ctx, spec.Table, resolved.Rows)
	if err != nil {
		return 0, err
	}

	l.telemetry.RecordLoaded(ctx, spec.Table.Name, written)
	for col, n := range unresolved {
		l.telemetry.RecordUnresolved(ctx, spec.Table.Name, col, n)
		l.logger.WarnContext(ctx, "Unresolved foreign keys",
			slog.String("table", spec.Table.Name),
			slog.String("column", col),
			slog.Int("rows", n))
	}
	l.logger.InfoContext(ctx, "Fact table loaded",
		slog.String("table", spec.Table.Name),
		slog.Int64("rows", written))
	return written, nil
}
