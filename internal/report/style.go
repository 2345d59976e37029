package report

// Role is the part of the report a piece of text belongs to.
type Role int

const (
	RoleCover Role = iota
	RoleHeader
	RoleBody
	RoleTotal
)

// Style is the font treatment of a role.
type Style struct {
	// Size is the font size in points.
	Size float64
	Bold bool
}

// Styles maps each role to its style.
type Styles struct {
	Cover  Style
	Header Style
	Body   Style
	Total  Style
}

// DefaultStyles returns the standard report fonts.
func DefaultStyles() Styles {
	return Styles{
		Cover:  Style{Size: 20, Bold: true},
		Header: Style{Size: 10, Bold: true},
		Body:   Style{Size: 9},
		Total:  Style{Size: 9, Bold: true},
	}
}

// For returns the style of role r.
func (s Styles) For(r Role) Style {
	switch r {
	case RoleCover:
		return s.Cover
	case RoleHeader:
		return s.Header
	case RoleTotal:
		return s.Total
	default:
		return s.Body
	}
}
