package booking

import (
	"errors"
	"fmt"
	"time"

	"stayfinder/internal/models"
)

// ErrInvalidDateRange is returned when check-out is not strictly after
// check-in. Zero-night stays are disallowed.
var ErrInvalidDateRange = errors.New("check-out date must be after check-in date")

// GuestLimitError is returned when the requested guest count exceeds the
// listing capacity.
type GuestLimitError struct {
	Limit int
}

func (e *GuestLimitError) Error() string {
	return fmt.Sprintf("maximum guests exceeded, limit is %d", e.Limit)
}

// Quote is the result of evaluating a prospective stay against a listing.
// Complete is false while either date is still unset; in that case no cost
// is computed and no error is raised.
type Quote struct {
	Complete  bool
	Nights    int
	Guests    int
	Nightly   float64
	TotalCost float64
}

// Day truncates a timestamp to its calendar day. Date comparison ignores
// time-of-day so partial days never affect the night count.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights returns the number of nights between two calendar days.
func Nights(checkIn, checkOut time.Time) int {
	return int(Day(checkOut).Sub(Day(checkIn)).Hours() / 24)
}

// Evaluate validates a requested stay and derives its cost. This is the one
// place booking cost is computed; quoting, draft validation and submission
// all go through it.
func Evaluate(listing *models.Listing, checkIn, checkOut time.Time, guests int) (Quote, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return Quote{}, nil
	}

	nights := Nights(checkIn, checkOut)
	if nights <= 0 {
		return Quote{}, ErrInvalidDateRange
	}

	if guests > listing.Guests {
		return Quote{}, &GuestLimitError{Limit: listing.Guests}
	}

	return Quote{
		Complete:  true,
		Nights:    nights,
		Guests:    guests,
		Nightly:   listing.Price,
		TotalCost: float64(nights) * listing.Price * float64(guests),
	}, nil
}
