package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpan(t *testing.T) {
	a := Span{Start: 0, End: 2}
	b := Span{Start: 1, End: 3}
	c := Span{Start: 2, End: 4}

	assert.Equal(t, 2, a.Len())
	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c)) // [0,2) and [2,4) share no token
}

func TestSearchValues(t *testing.T) {
	e := ExtractedEntity{
		Value:    "generator 1",
		Synonyms: []string{"genset 1", "generator 1"},
	}
	assert.Equal(t, []string{"generator 1", "genset 1"}, e.SearchValues())

	plain := ExtractedEntity{Value: "impeller"}
	assert.Equal(t, []string{"impeller"}, plain.SearchValues())
}

func TestParseResultType(t *testing.T) {
	for _, valid := range []ResultType{ResultEquipment, ResultPart, ResultWorkOrder, ResultFault, ResultDocument, ResultSupplier} {
		got, err := ParseResultType(string(valid))
		require.NoError(t, err)
		assert.Equal(t, valid, got)
	}

	for _, invalid := range []string{"", "yacht", "Equipment", "equipments"} {
		_, err := ParseResultType(invalid)
		assert.Error(t, err, "input %q", invalid)
	}
}

func TestNormalizedResult_Status(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]any
		expected string
	}{
		{"status present", map[string]any{"status": "open"}, "open"},
		{"stock_status fallback", map[string]any{"stock_status": "low stock"}, "low stock"},
		{"status wins over stock_status", map[string]any{"status": "open", "stock_status": "low stock"}, "open"},
		{"nil value", map[string]any{"status": nil}, ""},
		{"non-string value", map[string]any{"status": 3}, ""},
		{"absent", map[string]any{}, ""},
		{"nil metadata", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NormalizedResult{Metadata: tt.metadata}
			assert.Equal(t, tt.expected, r.Status())
		})
	}
}

func TestIdentity_Valid(t *testing.T) {
	valid := Identity{YachtID: uuid.New(), UserID: "u1", Role: RoleCrew}
	assert.True(t, valid.Valid())

	noYacht := valid
	noYacht.YachtID = uuid.Nil
	assert.False(t, noYacht.Valid())

	noUser := valid
	noUser.UserID = ""
	assert.False(t, noUser.Valid())

	noRole := valid
	noRole.Role = ""
	assert.False(t, noRole.Valid())
}

func TestStatePredicate_Holds(t *testing.T) {
	unrestricted := StatePredicate{}
	assert.True(t, unrestricted.Holds("anything"))
	assert.True(t, unrestricted.Holds(""))

	open := StatePredicate{Statuses: []string{"open", "in_progress"}}
	assert.True(t, open.Holds("open"))
	assert.False(t, open.Holds("completed"))
	assert.False(t, open.Holds(""))
}

func TestActionDescriptor_AllowsRole(t *testing.T) {
	anyRole := ActionDescriptor{AllowedRoles: []Role{RoleAny}}
	assert.True(t, anyRole.AllowsRole(RoleCrew))
	assert.True(t, anyRole.AllowsRole(RoleCaptain))

	restricted := ActionDescriptor{AllowedRoles: []Role{RoleCaptain, RoleChiefEngineer}}
	assert.True(t, restricted.AllowsRole(RoleCaptain))
	assert.False(t, restricted.AllowsRole(RoleCrew))
}

func TestActionDescriptor_AllowsDepartment(t *testing.T) {
	unrestricted := ActionDescriptor{}
	assert.True(t, unrestricted.AllowsDepartment(DepartmentDeck))
	assert.True(t, unrestricted.AllowsDepartment(""))

	engineering := ActionDescriptor{AllowedDepartments: []Department{DepartmentEngineering}}
	assert.True(t, engineering.AllowsDepartment(DepartmentEngineering))
	assert.False(t, engineering.AllowsDepartment(DepartmentDeck))
}

func TestDetectionContext_Focused(t *testing.T) {
	d := DomainEquipment

	focused := DetectionContext{Mode: ModeFocused, Domain: &d}
	assert.True(t, focused.Focused())

	explore := DetectionContext{Mode: ModeExplore}
	assert.False(t, explore.Focused())

	// Focused mode with no domain must not claim focus.
	inconsistent := DetectionContext{Mode: ModeFocused}
	assert.False(t, inconsistent.Focused())
}

func TestDetectionContext_EntitiesOfType(t *testing.T) {
	dc := DetectionContext{Entities: []ExtractedEntity{
		{Type: EntityEquipmentName, Value: "generator"},
		{Type: EntityFaultCode, Value: "E047"},
		{Type: EntityEquipmentName, Value: "watermaker"},
	}}

	names := dc.EntitiesOfType(EntityEquipmentName)
	require.Len(t, names, 2)
	assert.Equal(t, "generator", names[0].Value)
	assert.Equal(t, "watermaker", names[1].Value)
	assert.Empty(t, dc.EntitiesOfType(EntityBrand))
}
