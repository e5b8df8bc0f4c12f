// Package session holds the per-chat authenticated identity and answers
// access-control questions for role-gated navigation.
package session

import "stayfinder/internal/models"

// Decision is the outcome of an access check. When Allowed is false,
// Redirect names the canonical route the chat should be sent to instead.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Authorize decides whether a session may reach a view that requires the
// given role. Pass models.RoleGuest as requiredRole when the view only
// needs an authenticated session. The function is pure: the same inputs
// always yield the same decision.
func Authorize(sess *models.Session, requiredRole models.Role) Decision {
	if sess == nil || sess.Token == "" {
		return Decision{Redirect: models.RouteLogin}
	}

	if requiredRole == models.RoleGuest {
		return Decision{Allowed: true}
	}

	if sess.Identity.Role == requiredRole {
		return Decision{Allowed: true}
	}

	// Role mismatch: send the chat to the home of its actual role.
	switch sess.Identity.Role {
	case models.RoleAdmin:
		return Decision{Redirect: models.RouteAdmin}
	case models.RoleHost:
		return Decision{Redirect: models.RouteHost}
	case models.RoleUser:
		return Decision{Redirect: models.RouteReservations}
	default:
		return Decision{Redirect: models.RouteHome}
	}
}

// HomeRoute returns the canonical landing route for a session.
func HomeRoute(sess *models.Session) string {
	if sess == nil {
		return models.RouteHome
	}
	switch sess.Identity.Role {
	case models.RoleAdmin:
		return models.RouteAdmin
	case models.RoleHost:
		return models.RouteHost
	case models.RoleUser:
		return models.RouteReservations
	default:
		return models.RouteHome
	}
}
