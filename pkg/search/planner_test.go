package search

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bosun-marine/bosun-engine/pkg/apperrors"
	"github.com/bosun-marine/bosun-engine/pkg/capability"
	"github.com/bosun-marine/bosun-engine/pkg/models"
)

func testCatalogTable(t *testing.T, name string) capability.Capability {
	t.Helper()
	for _, c := range capability.Catalog() {
		if c.Table == name {
			return c
		}
	}
	t.Fatalf("table %s not in catalog", name)
	return capability.Capability{}
}

func equipmentWave(mode capability.PredicateMode, preds ...capability.Predicate) capability.QueryWave {
	return capability.QueryWave{
		Tier: 1,
		Mode: mode,
		Tables: []capability.TableQuery{
			{Capability: capability.Catalog()[0], Predicates: preds},
		},
	}
}

func TestBuildWaveStatements_EveryStatementIsYachtScoped(t *testing.T) {
	yachtID := uuid.New()
	catalog := capability.Catalog()

	tables := make([]capability.TableQuery, 0, len(catalog))
	for _, c := range catalog {
		// Pick any trigger the table declares so every table produces a
		// statement.
		for et, cols := range c.EntityColumns {
			tables = append(tables, capability.TableQuery{
				Capability: c,
				Predicates: []capability.Predicate{
					{EntityType: et, Columns: cols, Values: []string{"generator"}},
				},
			})
			break
		}
	}

	wave := capability.QueryWave{Tier: 1, Mode: capability.ModeExact, Tables: tables}
	statements, err := BuildWaveStatements(wave, yachtID, 20)
	require.NoError(t, err)
	require.Len(t, statements, len(catalog))

	for _, stmt := range statements {
		assert.Contains(t, stmt.SQL, "yacht_id = $1", "table %s", stmt.Table)
		require.NotEmpty(t, stmt.Args)
		assert.Equal(t, yachtID, stmt.Args[0], "table %s", stmt.Table)
	}
}

func TestBuildWaveStatements_NilYachtIDIsContractViolation(t *testing.T) {
	wave := equipmentWave(capability.ModeExact, capability.Predicate{
		EntityType: models.EntityEquipmentName,
		Columns:    []string{"name"},
		Values:     []string{"generator"},
	})

	_, err := BuildWaveStatements(wave, uuid.Nil, 20)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrContractViolation))
}

func TestBuildTableStatement_ValuesNeverInterpolated(t *testing.T) {
	yachtID := uuid.New()
	value := "generator 1"

	wave := equipmentWave(capability.ModeExact, capability.Predicate{
		EntityType: models.EntityEquipmentName,
		Columns:    []string{"name"},
		Values:     []string{value},
	})
	statements, err := BuildWaveStatements(wave, yachtID, 20)
	require.NoError(t, err)
	require.Len(t, statements, 1)

	stmt := statements[0]
	assert.NotContains(t, stmt.SQL, value)
	assert.Contains(t, stmt.SQL, "lower(name) = $2")
	assert.Equal(t, []any{yachtID, "generator 1", 20}, stmt.Args)
	assert.Contains(t, stmt.SQL, "LIMIT $3")
}

func TestBuildTableStatement_SourceTagAndMetadataShape(t *testing.T) {
	wave := capability.QueryWave{
		Tier: 1,
		Mode: capability.ModeExact,
		Tables: []capability.TableQuery{{
			Capability: testCatalogTable(t, "parts"),
			Predicates: []capability.Predicate{{
				EntityType: models.EntityPartName,
				Columns:    []string{"name"},
				Values:     []string{"impeller"},
			}},
		}},
	}

	statements, err := BuildWaveStatements(wave, uuid.New(), 20)
	require.NoError(t, err)
	require.Len(t, statements, 1)

	sql := statements[0].SQL
	assert.Contains(t, sql, "'parts' AS _source")
	assert.Contains(t, sql, "jsonb_build_object(")
	assert.Contains(t, sql, "'part_number', part_number")
	assert.Contains(t, sql, "COALESCE(name::text, '') AS title")
}

func TestBuildTableStatement_SynonymsExpandWithOr(t *testing.T) {
	wave := equipmentWave(capability.ModeExact, capability.Predicate{
		EntityType: models.EntityEquipmentName,
		Columns:    []string{"name"},
		Values:     []string{"generator 1", "genset 1"},
	})

	statements, err := BuildWaveStatements(wave, uuid.New(), 20)
	require.NoError(t, err)
	require.Len(t, statements, 1)

	sql := statements[0].SQL
	assert.Contains(t, sql, "(lower(name) = $2 OR lower(name) = $3)")
	assert.Equal(t, []any{statements[0].Args[0], "generator 1", "genset 1", 20}, statements[0].Args)
}

func TestBuildTableStatement_EntitiesAndTogether(t *testing.T) {
	wave := capability.QueryWave{
		Tier: 1,
		Mode: capability.ModeFuzzy,
		Tables: []capability.TableQuery{{
			Capability: testCatalogTable(t, "parts"),
			Predicates: []capability.Predicate{
				{EntityType: models.EntityBrand, Columns: []string{"manufacturer"}, Values: []string{"racor"}},
				{EntityType: models.EntityStockStatus, Columns: []string{"stock_status"}, Values: []string{"low stock"}},
			},
		}},
	}

	statements, err := BuildWaveStatements(wave, uuid.New(), 20)
	require.NoError(t, err)
	require.Len(t, statements, 1)

	sql := statements[0].SQL
	assert.Contains(t, sql, "(manufacturer ILIKE $2) AND (stock_status ILIKE $3)")
	assert.Equal(t, "%racor%", statements[0].Args[1])
	assert.Equal(t, "%low stock%", statements[0].Args[2])
}

func TestBuildTableStatement_InjectionValuesDropTheTable(t *testing.T) {
	// When the screen rejects every value of a predicate, the AND is
	// unsatisfiable and the table silently leaves the wave.
	wave := equipmentWave(capability.ModeExact, capability.Predicate{
		EntityType: models.EntityEquipmentName,
		Columns:    []string{"name"},
		Values:     []string{"' OR 1=1 --"},
	})

	statements, err := BuildWaveStatements(wave, uuid.New(), 20)
	require.NoError(t, err)
	assert.Empty(t, statements)
}

func TestBuildTableStatement_SurvivingValuesKeepTheTable(t *testing.T) {
	wave := equipmentWave(capability.ModeExact, capability.Predicate{
		EntityType: models.EntityEquipmentName,
		Columns:    []string{"name"},
		Values:     []string{"' OR 1=1 --", "generator"},
	})

	statements, err := BuildWaveStatements(wave, uuid.New(), 20)
	require.NoError(t, err)
	require.Len(t, statements, 1)
	assert.Equal(t, []any{statements[0].Args[0], "generator", 20}, statements[0].Args)
}

func TestBuildTableStatement_NoPredicatesNoStatement(t *testing.T) {
	wave := equipmentWave(capability.ModeExact)

	statements, err := BuildWaveStatements(wave, uuid.New(), 20)
	require.NoError(t, err)
	assert.Empty(t, statements)
}

func TestBuildTableStatement_UnknownModeIsContractViolation(t *testing.T) {
	wave := equipmentWave(capability.PredicateMode("regex"), capability.Predicate{
		EntityType: models.EntityEquipmentName,
		Columns:    []string{"name"},
		Values:     []string{"generator"},
	})

	_, err := BuildWaveStatements(wave, uuid.New(), 20)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrContractViolation))
}

func TestMetadataProjection(t *testing.T) {
	assert.Equal(t, "'{}'::jsonb", metadataProjection(nil))
	assert.Equal(t,
		"jsonb_build_object('status', status, 'priority', priority)",
		metadataProjection([]string{"status", "priority"}))
}

func TestBuildWaveStatements_ExactMatchIsCaseInsensitive(t *testing.T) {
	wave := equipmentWave(capability.ModeExact, capability.Predicate{
		EntityType: models.EntityEquipmentName,
		Columns:    []string{"name"},
		Values:     []string{"Generator 1"},
	})

	statements, err := BuildWaveStatements(wave, uuid.New(), 20)
	require.NoError(t, err)
	require.Len(t, statements, 1)
	// Values are lowered on the way in; lower(col) on the column side.
	assert.Equal(t, "generator 1", statements[0].Args[1])
	assert.NotContains(t, statements[0].SQL, "Generator")
}
