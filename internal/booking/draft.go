package booking

import (
	"time"

	"stayfinder/internal/models"
)

// Draft states. Edits always drop the draft back to StatePartiallyFilled
// before re-evaluation; submission is reachable only from StateValid.
const (
	StateEmpty           = "empty"
	StatePartiallyFilled = "partially_filled"
	StateValid           = "valid"
	StateInvalid         = "invalid"
	StateSubmitting      = "submitting"
	StateConfirmed       = "confirmed"
	StateFailed          = "failed"
)

// Draft is a single not-yet-submitted reservation request, owned by one
// chat. It snapshots nightly price and capacity from the listing at the
// time the listing is chosen.
type Draft struct {
	ChatID      int64     `json:"chat_id"`
	ListingID   string    `json:"listing_id"`
	ListingName string    `json:"listing_name"`
	Nightly     float64   `json:"nightly"`
	MaxGuests   int       `json:"max_guests"`
	CheckIn     time.Time `json:"check_in"`
	CheckOut    time.Time `json:"check_out"`
	Guests      int       `json:"guests"`
	State       string    `json:"state"`
	Quote       Quote     `json:"quote"`
	LastError   string    `json:"last_error,omitempty"`
}

// NewDraft starts an empty draft for a listing. Guests defaults to 1, as
// the guest picker never goes below one.
func NewDraft(chatID int64, listing *models.Listing) *Draft {
	return &Draft{
		ChatID:      chatID,
		ListingID:   listing.ID,
		ListingName: listing.Title,
		Nightly:     listing.Price,
		MaxGuests:   listing.Guests,
		Guests:      1,
		State:       StateEmpty,
	}
}

func (d *Draft) SetCheckIn(t time.Time) {
	d.CheckIn = Day(t)
	d.State = StatePartiallyFilled
	d.revalidate()
}

func (d *Draft) SetCheckOut(t time.Time) {
	d.CheckOut = Day(t)
	d.State = StatePartiallyFilled
	d.revalidate()
}

func (d *Draft) SetGuests(n int) {
	if n < 1 {
		n = 1
	}
	d.Guests = n
	d.State = StatePartiallyFilled
	d.revalidate()
}

// listingView reconstructs the snapshot the engine needs.
func (d *Draft) listingView() *models.Listing {
	return &models.Listing{ID: d.ListingID, Price: d.Nightly, Guests: d.MaxGuests}
}

func (d *Draft) revalidate() {
	quote, err := Evaluate(d.listingView(), d.CheckIn, d.CheckOut, d.Guests)
	if err != nil {
		d.Quote = Quote{}
		d.State = StateInvalid
		d.LastError = err.Error()
		return
	}
	d.LastError = ""
	d.Quote = quote
	if quote.Complete {
		d.State = StateValid
	} else {
		d.State = StatePartiallyFilled
	}
}

// BeginSubmit transitions Valid -> Submitting. It reports false when the
// draft is not submittable or a submission is already in flight, so a
// double tap cannot produce two reservations. A previously failed draft
// keeps its data and may be submitted again.
func (d *Draft) BeginSubmit() bool {
	if d.State != StateValid && d.State != StateFailed {
		return false
	}
	d.State = StateSubmitting
	return true
}

// FinishSubmit records the submission outcome. A failure keeps the entered
// dates and guests; the error message stays attached until the next edit.
func (d *Draft) FinishSubmit(err error) {
	if err != nil {
		d.State = StateFailed
		d.LastError = err.Error()
		return
	}
	d.State = StateConfirmed
	d.LastError = ""
}

// Request builds the reservation payload for the marketplace API.
func (d *Draft) Request(createdBy string) models.ReservationRequest {
	return models.ReservationRequest{
		ListingID: d.ListingID,
		CheckIn:   d.CheckIn.Format("2006-01-02"),
		CheckOut:  d.CheckOut.Format("2006-01-02"),
		Guests:    d.Guests,
		TotalCost: d.Quote.TotalCost,
		CreatedBy: createdBy,
	}
}
