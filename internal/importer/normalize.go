package importer

import (
	"strings"

	"recruitportal/internal/domain/application"
)

var trueTokens = map[string]struct{}{
	"true": {}, "yes": {}, "1": {}, "y": {}, "on": {},
}

var falseTokens = map[string]struct{}{
	"false": {}, "no": {}, "0": {}, "n": {}, "off": {}, "none": {}, "na": {}, "n/a": {}, "-": {},
}

// NormalizeBool reports whether value is one of true/yes/1/y/on, ignoring case
// and surrounding whitespace. Anything else, including "", is false.
func NormalizeBool(value string) bool {
	_, ok := trueTokens[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// NormalizeBoolValue accepts decoded JSON scalars: bools pass through, strings
// go through NormalizeBool.
func NormalizeBoolValue(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return NormalizeBool(v)
	default:
		return false
	}
}

// normalizeOtherClubs splits an "other clubs?" answer into the flag and any
// free-text detail that is more than a bare yes/no.
func normalizeOtherClubs(value string) (bool, string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false, ""
	}
	if NormalizeBool(trimmed) {
		return true, ""
	}
	if _, ok := falseTokens[strings.ToLower(trimmed)]; ok {
		return false, ""
	}
	return true, trimmed
}

type roleRepair struct {
	from string
	to   string
}

// roleRepairs maps labels whose emoji was mangled into "??" by a legacy export,
// plus the bare labels without any emoji. Keys never equal a canonical label.
// TODO: drop the "??" rows once no upload source produces them.
var roleRepairs = []roleRepair{
	{"?? Documentation (The storytellers)", application.RoleDocumentation},
	{"?? Marketing & Sponsorship (Bring home the bacon)", application.RoleMarketing},
	{"?? Events (Chaos coordinator extraordinaire)", application.RoleEvents},
	{"?? Events (Anchoring & Chaos coordinator extraordinaire)", application.RoleEvents},
	{"?? Design Team (Make it pretty. Make it pop.)", application.RoleDesign},
	{"?? Design Team (Make it pretty. Make it pop. CANVA or VideoEditing Must)", application.RoleDesign},
	{"?? Technical / Web (Code is poetry, right?)", application.RoleTechnical},
	{"?? Operations (The backbone. The MVP.)", application.RoleOperations},
	{"??Photography/Videography ( click photos & videos that made everyone look like startup founders in a Netflix documentary)", application.RolePhotography},

	{"Documentation (The storytellers)", application.RoleDocumentation},
	{"Marketing & Sponsorship (Bring home the bacon)", application.RoleMarketing},
	{"Events (Chaos coordinator extraordinaire)", application.RoleEvents},
	{"Events (Anchoring & Chaos coordinator extraordinaire)", application.RoleEvents},
	{"Design Team (Make it pretty. Make it pop.)", application.RoleDesign},
	{"Design Team (Make it pretty. Make it pop. CANVA or VideoEditing Must)", application.RoleDesign},
	{"Technical / Web (Code is poetry, right?)", application.RoleTechnical},
	{"Operations (The backbone. The MVP.)", application.RoleOperations},
	{"Photography/Videography ( click photos & videos that made everyone look like startup founders in a Netflix documentary)", application.RolePhotography},
}

// NormalizeRole maps a role preference onto its canonical label. Canonical
// labels are returned untouched so the function is idempotent; unknown values
// come back unchanged.
func NormalizeRole(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if application.IsCanonicalRole(value) {
		return value
	}
	for _, repair := range roleRepairs {
		if repair.from == value {
			return repair.to
		}
	}
	for _, repair := range roleRepairs {
		if strings.Contains(value, repair.from) || strings.Contains(repair.from, value) {
			return repair.to
		}
	}
	return value
}

// HasCorruptedGlyph reports whether a label still carries the "?" placeholder
// left where an emoji used to be.
func HasCorruptedGlyph(value string) bool {
	return strings.HasPrefix(strings.TrimSpace(value), "?")
}

// SplitRoles breaks a multi-choice cell into normalized, de-duplicated
// labels. Commas are not separators because the labels contain them.
func SplitRoles(value string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ';' || r == '|' || r == '\n'
	})
	roles := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		role := NormalizeRole(part)
		if role == "" {
			continue
		}
		if _, dup := seen[role]; dup {
			continue
		}
		seen[role] = struct{}{}
		roles = append(roles, role)
	}
	return roles
}
