package search

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bosun-marine/bosun-engine/pkg/apperrors"
	"github.com/bosun-marine/bosun-engine/pkg/models"
)

// fakeRow mirrors the fixed planner projection: id, _source, title, metadata.
type fakeRow struct {
	id     uuid.UUID
	source string
	title  string
	meta   []byte
}

// fakeRows implements pgx.Rows over a static row set.
type fakeRows struct {
	rows []fakeRow
	idx  int
	err  error
}

var _ pgx.Rows = (*fakeRows)(nil)

func (f *fakeRows) Close()                                       {}
func (f *fakeRows) Err() error                                   { return f.err }
func (f *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (f *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (f *fakeRows) RawValues() [][]byte                          { return nil }
func (f *fakeRows) Conn() *pgx.Conn                              { return nil }

func (f *fakeRows) Next() bool {
	if f.idx >= len(f.rows) {
		return false
	}
	f.idx++
	return true
}

func (f *fakeRows) Values() ([]any, error) {
	r := f.rows[f.idx-1]
	return []any{r.id, r.source, r.title, r.meta}, nil
}

func (f *fakeRows) Scan(dest ...any) error {
	if len(dest) != 4 {
		return fmt.Errorf("expected 4 scan targets, got %d", len(dest))
	}
	r := f.rows[f.idx-1]
	*dest[0].(*uuid.UUID) = r.id
	*dest[1].(*string) = r.source
	*dest[2].(*string) = r.title
	*dest[3].(*[]byte) = r.meta
	return nil
}

func TestNormalizeRows_TypeComesFromSourceTag(t *testing.T) {
	rows := &fakeRows{rows: []fakeRow{
		{id: uuid.New(), source: "equipment", title: "Generator 1", meta: []byte(`{"status":"running"}`)},
		{id: uuid.New(), source: "parts", title: "Fuel Filter", meta: []byte(`{"quantity":2}`)},
		{id: uuid.New(), source: "work_orders", title: "Service generator", meta: nil},
	}}

	results, err := normalizeRows(rows)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, models.ResultEquipment, results[0].Type)
	assert.Equal(t, "equipment", results[0].SourceTable)
	assert.Equal(t, "running", results[0].Metadata["status"])

	assert.Equal(t, models.ResultPart, results[1].Type)
	assert.Equal(t, models.ResultWorkOrder, results[2].Type)
	assert.NotNil(t, results[2].Metadata)
}

func TestNormalizeRows_MissingSourceTagFailsLoudly(t *testing.T) {
	rows := &fakeRows{rows: []fakeRow{
		{id: uuid.New(), source: "", title: "Generator 1"},
	}}

	results, err := normalizeRows(rows)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrContractViolation))
	assert.Nil(t, results)
}

func TestNormalizeRows_UnknownSourceTagFailsLoudly(t *testing.T) {
	// Regression guard: an unmapped table must never fall back to some
	// default type. Results typed by guesswork are worse than an error.
	rows := &fakeRows{rows: []fakeRow{
		{id: uuid.New(), source: "crew_members", title: "Bosun"},
	}}

	_, err := normalizeRows(rows)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrContractViolation))
}

func TestNormalizeRows_BadMetadataFails(t *testing.T) {
	rows := &fakeRows{rows: []fakeRow{
		{id: uuid.New(), source: "equipment", title: "Generator 1", meta: []byte(`{not json`)},
	}}

	_, err := normalizeRows(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata")
}

func TestNormalizeRows_IterationErrorPropagates(t *testing.T) {
	rows := &fakeRows{err: errors.New("connection reset")}

	_, err := normalizeRows(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestTypeFromSource(t *testing.T) {
	tests := []struct {
		source   string
		expected models.ResultType
		wantErr  bool
	}{
		{source: "equipment", expected: models.ResultEquipment},
		{source: "parts", expected: models.ResultPart},
		{source: "work_orders", expected: models.ResultWorkOrder},
		{source: "faults", expected: models.ResultFault},
		{source: "documents", expected: models.ResultDocument},
		{source: "suppliers", expected: models.ResultSupplier},
		{source: "", wantErr: true},
		{source: "yachts", wantErr: true},
	}
	for _, tt := range tests {
		got, err := typeFromSource(tt.source)
		if tt.wantErr {
			assert.Error(t, err, "source %q", tt.source)
			continue
		}
		require.NoError(t, err, "source %q", tt.source)
		assert.Equal(t, tt.expected, got, "source %q", tt.source)
	}
}

func TestSortResults_Deterministic(t *testing.T) {
	a := models.NormalizedResult{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), SourceTable: "parts", Title: "Impeller"}
	b := models.NormalizedResult{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), SourceTable: "equipment", Title: "Generator 1"}
	c := models.NormalizedResult{ID: uuid.MustParse("00000000-0000-0000-0000-000000000003"), SourceTable: "equipment", Title: "Generator 1"}

	results := []models.NormalizedResult{a, c, b}
	sortResults(results)

	assert.Equal(t, []models.NormalizedResult{b, c, a}, results)
}
