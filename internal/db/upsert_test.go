package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var captureUpsert = UpsertConfig{
	Table:        "captures",
	Columns:      []string{"id", "afb_id", "capture_id", "ai_output"},
	ConflictKeys: []string{"afb_id", "capture_id"},
}

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(context.Background(), nil, captureUpsert, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsert_NoColumns(t *testing.T) {
	_, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:        "captures",
		ConflictKeys: []string{"id"},
	}, [][]any{{1, "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")
}

func TestBulkUpsert_NoConflictKeys(t *testing.T) {
	_, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:   "captures",
		Columns: []string{"id", "afb_id"},
	}, [][]any{{1, "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys specified")
}

func TestBulkUpsert_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := [][]any{
		{"u1", "afb:page:acme-com", "cap:001", "first"},
		{"u2", "afb:page:acme-com", "cap:002", "second"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_captures"`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_captures"}, captureUpsert.Columns).WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "captures" .* ON CONFLICT \("afb_id", "capture_id"\) DO UPDATE SET "id" = EXCLUDED."id", "ai_output" = EXCLUDED."ai_output"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	n, err := BulkUpsert(context.Background(), mock, captureUpsert, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_CopyError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_captures"}, captureUpsert.Columns).WillReturnError(errors.New("copy failed"))
	mock.ExpectRollback()

	_, err = BulkUpsert(context.Background(), mock, captureUpsert, [][]any{{"u1", "a", "cap:001", "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY into temp table for captures")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSanitizeTable(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"captures", `"captures"`},
		{"trust.captures", `"trust"."captures"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := sanitizeTable(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestQuoteAndJoin(t *testing.T) {
	result := quoteAndJoin([]string{"id", "afb_id", "ai_output"})
	assert.Equal(t, `"id", "afb_id", "ai_output"`, result)
}

func TestBulkUpsert_RowWidthMismatch(t *testing.T) {
	_, err := BulkUpsert(context.Background(), nil, captureUpsert, [][]any{{"u1", "afb:page:acme-com"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0 has 2 values, want 4")
}

func TestInsertSQL_KeysOnlyDoesNothing(t *testing.T) {
	cfg := UpsertConfig{
		Table:        "trust.captures",
		Columns:      []string{"afb_id", "capture_id"},
		ConflictKeys: []string{"afb_id", "capture_id"},
	}
	assert.Equal(t,
		`INSERT INTO "trust"."captures" ("afb_id", "capture_id") SELECT "afb_id", "capture_id" FROM "_tmp_upsert_trust_captures" ON CONFLICT ("afb_id", "capture_id") DO NOTHING`,
		cfg.insertSQL())
}

func TestUpdateColumns_Explicit(t *testing.T) {
	cfg := captureUpsert
	cfg.UpdateCols = []string{"ai_output"}
	assert.Equal(t, []string{"ai_output"}, cfg.updateColumns())
	assert.Equal(t, []string{"id", "ai_output"}, captureUpsert.updateColumns())
}
