package gazetteer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bosun-marine/bosun-engine/pkg/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Low Stock", "low stock"},
		{"  low   stock  ", "low stock"},
		{"MTU", "mtu"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.expected {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestLoad_BuiltinSource(t *testing.T) {
	store, err := Load(nil)
	require.NoError(t, err)

	assert.Greater(t, store.EntryCount(), 50)
	assert.GreaterOrEqual(t, store.MaxPhraseTokens(), 3)
	assert.NotEmpty(t, store.Version())

	// Compound phrases resolve to their canonical value.
	entries := store.Lookup("critically low inventory")
	require.Len(t, entries, 1)
	assert.Equal(t, models.EntityStockStatus, entries[0].EntityType)
	assert.Equal(t, "critically low", entries[0].Value())
}

func TestLoad_SynonymsIndexedAsPhrases(t *testing.T) {
	store, err := Load(nil)
	require.NoError(t, err)

	entries := store.Lookup("genset")
	require.NotEmpty(t, entries)
	assert.Equal(t, models.EntityEquipmentName, entries[0].EntityType)
	assert.Equal(t, "generator", entries[0].Value())
	assert.Contains(t, entries[0].Synonyms, "generator")
}

func TestLookup_AmbiguousPhraseOrderedByWeight(t *testing.T) {
	// "low" is registered for both WARNING_SEVERITY and URGENCY_LEVEL;
	// severity has the higher default weight and must come first.
	store, err := Load(nil)
	require.NoError(t, err)

	entries := store.Lookup("low")
	require.GreaterOrEqual(t, len(entries), 2)
	assert.Equal(t, models.EntitySeverity, entries[0].EntityType)
}

func TestLoadSource_RejectsDuplicatePhraseWithinType(t *testing.T) {
	source := []byte(`
types:
  BRAND:
    phrases:
      - phrase: mtu
      - phrase: MTU
`)
	_, err := LoadSource(source, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate phrase")
}

func TestLoadSource_SamePhraseAcrossTypesAllowed(t *testing.T) {
	source := []byte(`
types:
  WARNING_SEVERITY:
    phrases:
      - phrase: low
  URGENCY_LEVEL:
    phrases:
      - phrase: low
`)
	store, err := LoadSource(source, nil)
	require.NoError(t, err)
	assert.Len(t, store.Lookup("low"), 2)
}

func TestMergePrecedence_PartialOverride(t *testing.T) {
	merged := MergePrecedence(map[models.EntityType]int{
		models.EntityName: 15,
	})

	assert.Equal(t, 15, merged[models.EntityName])

	// Regression: a partial override must leave every protected
	// high-weight type at its default. Erasing them once demoted
	// compound stock phrases to the catch-all weight.
	defaults := DefaultPrecedence()
	for entityType, weight := range defaults {
		if entityType == models.EntityName {
			continue
		}
		assert.Equal(t, weight, merged[entityType], "type %s lost its default weight", entityType)
	}
}

func TestMergePrecedence_EmptyOverrideIsDefaults(t *testing.T) {
	assert.Equal(t, DefaultPrecedence(), MergePrecedence(nil))
}

func TestProvider_ReloadSwapsAtomically(t *testing.T) {
	p, err := NewProvider(nil, zap.NewNop())
	require.NoError(t, err)

	before := p.Current()

	err = p.Reload([]byte(`
types:
  BRAND:
    phrases:
      - phrase: mtu
`))
	require.NoError(t, err)
	after := p.Current()
	assert.NotSame(t, before, after)
	assert.Equal(t, 1, after.EntryCount())

	// A failed reload keeps the active snapshot in place.
	require.Error(t, p.Reload([]byte(`{not yaml`)))
	assert.Same(t, after, p.Current())
}
