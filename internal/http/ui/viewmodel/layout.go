package viewmodel

// User represents the authenticated user context exposed to templates.
type User struct {
	Email       string
	Role        string
	CompanyName string
}

// NavItem is one entry of the sidebar.
type NavItem struct {
	Key   string
	Label string
	Href  string
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	View            string
	CSRFToken       string
	IsAuthenticated bool
	IsSuperAdmin    bool
	User            *User
	Nav             []NavItem
}

// AdminNav is the sidebar for company admins.
func AdminNav() []NavItem {
	return []NavItem{
		{Key: "dashboard", Label: "Dashboard", Href: "/"},
		{Key: "users", Label: "Users", Href: "/users"},
		{Key: "residents", Label: "Residents", Href: "/profiles/residents"},
		{Key: "caregivers", Label: "Caregivers", Href: "/profiles/caregivers"},
		{Key: "healthcare-professionals", Label: "Healthcare professionals", Href: "/profiles/healthcare-professionals"},
		{Key: "interview-candidates", Label: "Interview candidates", Href: "/profiles/interview-candidates"},
		{Key: "documents", Label: "Documents", Href: "/documents"},
		{Key: "plans", Label: "Plans", Href: "/plans"},
		{Key: "company", Label: "Company", Href: "/company"},
	}
}

// SuperAdminNav is the sidebar for platform operators.
func SuperAdminNav() []NavItem {
	return []NavItem{
		{Key: "dashboard", Label: "Dashboard", Href: "/"},
		{Key: "care-homes", Label: "Care homes", Href: "/care-homes"},
		{Key: "plans", Label: "Plans", Href: "/plans"},
	}
}
