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

var factsUpsert = UpsertConfig{
	Table:        "population_facts",
	Columns:      []string{"dataset", "country", "year", "population"},
	ConflictKeys: []string{"dataset", "country", "year"},
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return mock
}

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(context.Background(), nil, factsUpsert, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsert_InvalidConfig(t *testing.T) {
	rows := [][]any{{"wp", "Chad", 2022, int64(1)}}

	_, err := BulkUpsert(context.Background(), nil, UpsertConfig{Table: "t", ConflictKeys: []string{"id"}}, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")

	_, err = BulkUpsert(context.Background(), nil, UpsertConfig{Table: "t", Columns: []string{"id"}}, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys specified")

	_, err = BulkUpsert(context.Background(), nil, UpsertConfig{Columns: []string{"id"}, ConflictKeys: []string{"id"}}, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no table specified")
}

func TestBulkUpsert_Success(t *testing.T) {
	mock := newMock(t)
	rows := [][]any{
		{"wp", "Chad", 2022, int64(17723315)},
		{"wp", "Peru", 2022, int64(34049588)},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_population_facts" \(LIKE "population_facts" INCLUDING DEFAULTS\)`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_population_facts"}, factsUpsert.Columns).WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "population_facts" .* ON CONFLICT \("dataset", "country", "year"\) DO UPDATE SET "population" = EXCLUDED."population"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()
	mock.ExpectRollback()

	n, err := BulkUpsert(context.Background(), mock, factsUpsert, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestBulkUpsert_KeysOnly(t *testing.T) {
	mock := newMock(t)
	cfg := UpsertConfig{Table: "tags", Columns: []string{"name"}, ConflictKeys: []string{"name"}}

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_tags"}, cfg.Columns).WillReturnResult(1)
	mock.ExpectExec(`ON CONFLICT \("name"\) DO NOTHING`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	_, err := BulkUpsert(context.Background(), mock, cfg, [][]any{{"a"}})
	require.NoError(t, err)
}

func TestBulkUpsert_CopyError(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_population_facts"}, factsUpsert.Columns).
		WillReturnError(errors.New("copy failed"))
	mock.ExpectRollback()

	_, err := BulkUpsert(context.Background(), mock, factsUpsert, [][]any{{"wp", "Chad", 2022, int64(1)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY into temp table")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_BeginError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("no conn"))

	_, err := BulkUpsert(context.Background(), mock, factsUpsert, [][]any{{"wp", "Chad", 2022, int64(1)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin tx")
}

func TestSanitizeTable(t *testing.T) {
	assert.Equal(t, `"simple"`, sanitizeTable("simple"))
	assert.Equal(t, `"worldpop"."population_facts"`, sanitizeTable("worldpop.population_facts"))
}

func TestQuoteAndJoin(t *testing.T) {
	assert.Equal(t, `"id", "name", "value"`, quoteAndJoin([]string{"id", "name", "value"}))
}
