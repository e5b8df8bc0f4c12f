package google

import (
	"testing"
	"time"

	"stayfinder/internal/domain"
	"stayfinder/internal/models"
)

var _ domain.SheetsWriter = (*SheetsService)(nil)

func TestReservationRowValues(t *testing.T) {
	res := &models.Reservation{
		ID:        "res-1",
		Listing:   models.Listing{ID: "l1", Title: "Sea loft"},
		CheckIn:   time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC),
		Guests:    2,
		TotalCost: 400,
		CreatedBy: models.ReservationOwner{ID: "u1", Email: "a@example.com"},
		CreatedAt: time.Date(2025, 8, 27, 10, 30, 0, 0, time.UTC),
	}

	values := reservationRowValues(res)
	if len(values) != 9 {
		t.Fatalf("expected 9 columns, got %d", len(values))
	}
	if values[0] != "res-1" || values[1] != "l1" || values[2] != "Sea loft" {
		t.Errorf("unexpected id columns: %v", values[:3])
	}
	if values[3] != "2025-08-28" || values[4] != "2025-08-30" {
		t.Errorf("dates should be YYYY-MM-DD, got %v %v", values[3], values[4])
	}
	if values[5] != 2 || values[6] != 400.0 {
		t.Errorf("unexpected guests/total: %v %v", values[5], values[6])
	}
	if values[7] != "a@example.com" {
		t.Errorf("expected guest email, got %v", values[7])
	}
}

func TestRowCache(t *testing.T) {
	s := &SheetsService{rowCache: make(map[string]int)}

	if _, ok := s.getCachedRow("res-1"); ok {
		t.Fatal("empty cache should miss")
	}

	s.setCachedRow("res-1", 7)
	row, ok := s.getCachedRow("res-1")
	if !ok || row != 7 {
		t.Fatalf("expected cached row 7, got %d (ok=%v)", row, ok)
	}

	s.ClearCache()
	if _, ok := s.getCachedRow("res-1"); ok {
		t.Fatal("cache should be empty after clear")
	}
}

func TestNewSheetsServiceMissingCredentials(t *testing.T) {
	if _, err := NewSheetsService("/nonexistent/creds.json", "sheet1", "sheet2"); err == nil {
		t.Fatal("expected error for missing credentials file")
	}
}
