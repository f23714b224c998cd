package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) Authenticated() bool {
	return a.UserID != ""
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns reports whether the actor may mutate p. Admins do not bypass this; moderation paths check
// IsAdmin explicitly.
func (a Actor) Owns(p *Project) bool {
	return p != nil && a.UserID != "" && p.OwnerUserID == a.UserID
}
