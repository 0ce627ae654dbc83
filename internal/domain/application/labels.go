package application

// Canonical role labels. The emoji prefix is part of the stored value.
const (
	RoleDocumentation = "📝 Documentation (The storytellers)"
	RolePhotography   = "📸Photography/Videography ( click photos & videos that made everyone look like startup founders in a Netflix documentary)"
	RoleDesign        = "🎨 Design Team (Make it pretty. Make it pop. CANVA or VideoEditing Must)"
	RoleEvents        = "🎉 Events (Anchoring & Chaos coordinator extraordinaire)"
	RoleTechnical     = "💻 Technical / Web (Code is poetry, right?)"
	RoleOperations    = "⚙️ Operations (The backbone. The MVP.)"
	RoleMarketing     = "🤝 Marketing & Sponsorship (Bring home the bacon)"
)

var Roles = []string{
	RoleDocumentation,
	RolePhotography,
	RoleDesign,
	RoleEvents,
	RoleTechnical,
	RoleOperations,
	RoleMarketing,
}

var Departments = []string{
	"Computer Science & Design (CSD)",
	"Automation & Robotics (A&R)",
	"Civil and Environmental Engineering (CEE)",
}

var Years = []string{
	"FE (Energetic Soul? We love it.)",
	"SE (Getting warmed up, huh?)",
	"TE (The sweet spot.)",
	"BE (Final boss energy.)",
}

func IsCanonicalRole(value string) bool {
	return contains(Roles, value)
}

func IsKnownDepartment(value string) bool {
	return contains(Departments, value)
}

func IsKnownYear(value string) bool {
	return contains(Years, value)
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
