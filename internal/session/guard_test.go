package session

import (
	"testing"

	"stayfinder/internal/models"

	"github.com/stretchr/testify/assert"
)

func sessionWithRole(role models.Role) *models.Session {
	return &models.Session{
		ChatID:   1,
		Token:    "tok",
		Identity: models.Identity{ID: "u1", Role: role},
	}
}

func TestAuthorizeNoSession(t *testing.T) {
	d := Authorize(nil, models.RoleUser)
	assert.False(t, d.Allowed)
	assert.Equal(t, models.RouteLogin, d.Redirect)

	// A session missing its token is no session at all.
	d = Authorize(&models.Session{Identity: models.Identity{ID: "u1", Role: models.RoleAdmin}}, models.RoleAdmin)
	assert.False(t, d.Allowed)
	assert.Equal(t, models.RouteLogin, d.Redirect)
}

func TestAuthorizeMatchingRole(t *testing.T) {
	for _, role := range []models.Role{models.RoleUser, models.RoleHost, models.RoleAdmin} {
		d := Authorize(sessionWithRole(role), role)
		assert.True(t, d.Allowed, "role %s should reach its own area", role)
		assert.Empty(t, d.Redirect)
	}
}

func TestAuthorizeAnySignedIn(t *testing.T) {
	// RoleGuest as the requirement means "any authenticated session".
	for _, role := range []models.Role{models.RoleUser, models.RoleHost, models.RoleAdmin} {
		d := Authorize(sessionWithRole(role), models.RoleGuest)
		assert.True(t, d.Allowed)
	}
}

func TestAuthorizeRoleMismatchRedirects(t *testing.T) {
	tests := []struct {
		name     string
		actual   models.Role
		required models.Role
		redirect string
	}{
		{"AdminDeniedHostArea", models.RoleAdmin, models.RoleHost, models.RouteAdmin},
		{"HostDeniedAdminArea", models.RoleHost, models.RoleAdmin, models.RouteHost},
		{"UserDeniedHostArea", models.RoleUser, models.RoleHost, models.RouteReservations},
		{"UserDeniedAdminArea", models.RoleUser, models.RoleAdmin, models.RouteReservations},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(sessionWithRole(tt.actual), tt.required)
			assert.False(t, d.Allowed)
			assert.Equal(t, tt.redirect, d.Redirect)
		})
	}
}

func TestAuthorizeIsPure(t *testing.T) {
	sess := sessionWithRole(models.RoleHost)
	first := Authorize(sess, models.RoleAdmin)
	second := Authorize(sess, models.RoleAdmin)
	assert.Equal(t, first, second)
}

func TestHomeRoute(t *testing.T) {
	assert.Equal(t, models.RouteHome, HomeRoute(nil))
	assert.Equal(t, models.RouteAdmin, HomeRoute(sessionWithRole(models.RoleAdmin)))
	assert.Equal(t, models.RouteHost, HomeRoute(sessionWithRole(models.RoleHost)))
	assert.Equal(t, models.RouteReservations, HomeRoute(sessionWithRole(models.RoleUser)))
	assert.Equal(t, models.RouteHome, HomeRoute(sessionWithRole(models.RoleGuest)))
}
