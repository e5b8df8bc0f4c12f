package models

import (
	"encoding/json"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"user", RoleUser},
		{"host", RoleHost},
		{"admin", RoleAdmin},
		{"guest", RoleGuest},
		{"", RoleGuest},
		{"superadmin", RoleGuest},
		{"User", RoleGuest}, // roles are case-sensitive on the wire
	}
	for _, tt := range tests {
		if got := ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRoleCapabilities(t *testing.T) {
	if RoleGuest.CanBook() {
		t.Error("guest must not book")
	}
	for _, r := range []Role{RoleUser, RoleHost, RoleAdmin} {
		if !r.CanBook() {
			t.Errorf("%s should book", r)
		}
	}

	if !RoleAdmin.CanModerate() {
		t.Error("admin should moderate")
	}
	for _, r := range []Role{RoleGuest, RoleUser, RoleHost} {
		if r.CanModerate() {
			t.Errorf("%s must not moderate", r)
		}
	}

	for _, r := range []Role{RoleHost, RoleAdmin} {
		if !r.CanExport() {
			t.Errorf("%s should export", r)
		}
	}
	for _, r := range []Role{RoleGuest, RoleUser} {
		if r.CanExport() {
			t.Errorf("%s must not export", r)
		}
	}
}

func TestSessionRoleNilSafe(t *testing.T) {
	var sess *Session
	if sess.Role() != RoleGuest {
		t.Errorf("nil session should read as guest, got %s", sess.Role())
	}
}

func TestListingEffectiveStatus(t *testing.T) {
	l := &Listing{}
	if l.EffectiveStatus() != ListingStatusPending {
		t.Errorf("missing status should be pending, got %s", l.EffectiveStatus())
	}
	l.Status = ListingStatusApproved
	if l.EffectiveStatus() != ListingStatusApproved {
		t.Errorf("expected approved, got %s", l.EffectiveStatus())
	}
}

func TestListingJSONShape(t *testing.T) {
	raw := `{
		"_id": "abc123",
		"title": "Sea loft",
		"location": "Porto",
		"price": 120.5,
		"guests": 3,
		"rejectionReason": "blurry photos",
		"specificRatings": {"cleanliness": 4.5, "value": 5},
		"createdBy": "u1"
	}`
	var l Listing
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if l.ID != "abc123" || l.Price != 120.5 || l.Guests != 3 {
		t.Errorf("unexpected listing: %+v", l)
	}
	if l.RejectionReason != "blurry photos" {
		t.Errorf("rejectionReason not mapped: %q", l.RejectionReason)
	}
	if l.SpecificRatings.Cleanliness != 4.5 || l.SpecificRatings.Value != 5 {
		t.Errorf("ratings not mapped: %+v", l.SpecificRatings)
	}
	if l.CreatedBy != "u1" {
		t.Errorf("createdBy not mapped: %q", l.CreatedBy)
	}
}

func TestReservationJSONShape(t *testing.T) {
	// The API populates listingId and createdBy as nested documents.
	raw := `{
		"_id": "res1",
		"listingId": {"_id": "l1", "title": "Sea loft"},
		"guests": 2,
		"totalCost": 400,
		"createdBy": {"_id": "u1", "email": "a@example.com"}
	}`
	var r Reservation
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Listing.ID != "l1" || r.Listing.Title != "Sea loft" {
		t.Errorf("listing not mapped: %+v", r.Listing)
	}
	if r.CreatedBy.ID != "u1" || r.CreatedBy.Email != "a@example.com" {
		t.Errorf("createdBy not mapped: %+v", r.CreatedBy)
	}
}

func TestSpecificRatingsComponents(t *testing.T) {
	r := SpecificRatings{Cleanliness: 1, Communication: 2, CheckIn: 3, Accuracy: 4, Location: 5, Value: 6}
	comps := r.Components()
	if len(comps) != 6 {
		t.Fatalf("expected 6 components, got %d", len(comps))
	}
	for i, want := range []float64{1, 2, 3, 4, 5, 6} {
		if comps[i] != want {
			t.Errorf("component %d = %.0f, want %.0f", i, comps[i], want)
		}
	}
}
