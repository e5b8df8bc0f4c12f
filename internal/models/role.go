package models

// Role is the closed set of marketplace roles. The API transmits roles as
// strings; ParseRole maps anything unknown to RoleGuest so switches over
// Role stay exhaustive.
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleHost  Role = "host"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) Role {
	switch Role(s) {
	case RoleUser, RoleHost, RoleAdmin:
		return Role(s)
	default:
		return RoleGuest
	}
}

func (r Role) String() string {
	return string(r)
}

// CanBook reports whether the role is allowed to submit reservations.
func (r Role) CanBook() bool {
	switch r {
	case RoleUser, RoleHost, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanModerate reports whether the role may approve or reject listings.
func (r Role) CanModerate() bool {
	return r == RoleAdmin
}

// CanExport reports whether the role may download reservation exports.
func (r Role) CanExport() bool {
	return r == RoleHost || r == RoleAdmin
}
