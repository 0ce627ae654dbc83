package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"recruitportal/internal/domain/application"
)

func TestNormalizeBool(t *testing.T) {
	for _, value := range []string{"TRUE", "Yes", " y ", "1", "On", "true"} {
		assert.True(t, NormalizeBool(value), "value %q", value)
	}
	for _, value := range []string{"no", "0", "", "   ", "maybe", "yes please", "truee"} {
		assert.False(t, NormalizeBool(value), "value %q", value)
	}
}

func TestNormalizeBoolValue(t *testing.T) {
	assert.True(t, NormalizeBoolValue(true))
	assert.False(t, NormalizeBoolValue(false))
	assert.True(t, NormalizeBoolValue("Yes"))
	assert.False(t, NormalizeBoolValue(1))
	assert.False(t, NormalizeBoolValue(nil))
}

func TestNormalizeRoleRepairsCorruptedGlyph(t *testing.T) {
	assert.Equal(t, application.RoleDocumentation, NormalizeRole("?? Documentation (The storytellers)"))
	assert.Equal(t, application.RolePhotography, NormalizeRole("??Photography/Videography ( click photos & videos that made everyone look like startup founders in a Netflix documentary)"))
	assert.Equal(t, application.RoleEvents, NormalizeRole("?? Events (Chaos coordinator extraordinaire)"))
}

func TestNormalizeRoleAcceptsLabelsWithoutEmoji(t *testing.T) {
	assert.Equal(t, application.RoleTechnical, NormalizeRole("Technical / Web (Code is poetry, right?)"))
	assert.Equal(t, application.RoleDocumentation, NormalizeRole("? Documentation (The storytellers)"))
	assert.Equal(t, application.RoleDesign, NormalizeRole("Design Team (Make it pretty. Make it pop.)"))
}

func TestNormalizeRoleIsIdempotent(t *testing.T) {
	for _, role := range application.Roles {
		assert.Equal(t, role, NormalizeRole(role))
	}
	inputs := []string{"", "Cooking", "Events"}
	for _, repair := range roleRepairs {
		inputs = append(inputs, repair.from)
	}
	for _, input := range inputs {
		once := NormalizeRole(input)
		assert.Equal(t, once, NormalizeRole(once), "input %q", input)
	}
}

func TestNormalizeRoleLeavesUnknownValues(t *testing.T) {
	assert.Equal(t, "Cooking club", NormalizeRole("Cooking club"))
	assert.Equal(t, "", NormalizeRole("   "))
}

func TestSplitRoles(t *testing.T) {
	roles := SplitRoles("?? Operations (The backbone. The MVP.); Technical / Web (Code is poetry, right?) | " + application.RoleOperations)
	assert.Equal(t, []string{application.RoleOperations, application.RoleTechnical}, roles)
	assert.Empty(t, SplitRoles(""))
}

func TestNormalizeOtherClubs(t *testing.T) {
	has, details := normalizeOtherClubs("Yes")
	assert.True(t, has)
	assert.Empty(t, details)

	has, details = normalizeOtherClubs("No")
	assert.False(t, has)
	assert.Empty(t, details)

	has, details = normalizeOtherClubs("Robotics and Drama")
	assert.True(t, has)
	assert.Equal(t, "Robotics and Drama", details)
}
