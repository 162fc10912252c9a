package db

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// UpsertConfig describes a keyed bulk write into one table.
type UpsertConfig struct {
	Table        string   // target table, optionally schema-qualified ("trust.captures")
	Columns      []string // column order of every row
	ConflictKeys []string // unique constraint the rows are matched on
	UpdateCols   []string // overwritten on conflict; nil means every non-key column
}

func (c UpsertConfig) validate(rows [][]any) error {
	if len(c.Columns) == 0 {
		return eris.New("db: upsert: no columns specified")
	}
	if len(c.ConflictKeys) == 0 {
		return eris.New("db: upsert: no conflict keys specified")
	}
	for i, r := range rows {
		if len(r) != len(c.Columns) {
			return eris.Errorf("db: upsert: row %d has %d values, want %d", i, len(r), len(c.Columns))
		}
	}
	return nil
}

func (c UpsertConfig) updateColumns() []string {
	if c.UpdateCols != nil {
		return c.UpdateCols
	}
	var cols []string
	for _, col := range c.Columns {
		if !slices.Contains(c.ConflictKeys, col) {
			cols = append(cols, col)
		}
	}
	return cols
}

func (c UpsertConfig) tempTable() string {
	return "_tmp_upsert_" + strings.ReplaceAll(c.Table, ".", "_")
}

// insertSQL merges the staged rows into the target table.
func (c UpsertConfig) insertSQL() string {
	cols := quoteAndJoin(c.Columns)
	action := "DO NOTHING"
	if update := c.updateColumns(); len(update) > 0 {
		sets := make([]string, len(update))
		for i, col := range update {
			q := pgx.Identifier{col}.Sanitize()
			sets[i] = q + " = EXCLUDED." + q
		}
		action = "DO UPDATE SET " + strings.Join(sets, ", ")
	}
	return fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s ON CONFLICT (%s) %s",
		sanitizeTable(c.Table), cols, cols,
		pgx.Identifier{c.tempTable()}.Sanitize(),
		quoteAndJoin(c.ConflictKeys), action)
}

// BulkUpsert stages rows in a transaction-scoped temp table with COPY, then
// merges them with one INSERT ... ON CONFLICT. It returns the rows written.
func BulkUpsert(ctx context.Context, pool Pool, cfg UpsertConfig, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if err := cfg.validate(rows); err != nil {
		return 0, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: upsert: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	stage := cfg.tempTable()
	create := fmt.Sprintf("CREATE TEMP TABLE %s (LIKE %s INCLUDING DEFAULTS) ON COMMIT DROP",
		pgx.Identifier{stage}.Sanitize(), sanitizeTable(cfg.Table))
	if _, err := tx.Exec(ctx, create); err != nil {
		return 0, eris.Wrapf(err, "db: upsert: create temp table for %s", cfg.Table)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{stage}, cfg.Columns, pgx.CopyFromRows(rows)); err != nil {
		return 0, eris.Wrapf(err, "db: upsert: COPY into temp table for %s", cfg.Table)
	}

	tag, err := tx.Exec(ctx, cfg.insertSQL())
	if err != nil {
		return 0, eris.Wrapf(err, "db: upsert: merge into %s", cfg.Table)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: upsert: commit tx")
	}
	return tag.RowsAffected(), nil
}

func sanitizeTable(table string) string {
	schema, name, ok := strings.Cut(table, ".")
	if ok {
		return pgx.Identifier{schema, name}.Sanitize()
	}
	return pgx.Identifier{table}.Sanitize()
}

func quoteAndJoin(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}
