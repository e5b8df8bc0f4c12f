package models

import "time"

// ReservationRequest is the payload POSTed to /api/reservations.
// CheckIn/CheckOut are calendar dates serialized as YYYY-MM-DD.
type ReservationRequest struct {
	ListingID string  `json:"listingId"`
	CheckIn   string  `json:"checkIn"`
	CheckOut  string  `json:"checkOut"`
	Guests    int     `json:"guests"`
	TotalCost float64 `json:"totalCost"`
	CreatedBy string  `json:"createdBy"`
}

// ReservationOwner is the populated createdBy reference on fetched
// reservations.
type ReservationOwner struct {
	ID    string `json:"_id"`
	Email string `json:"email,omitempty"`
}

// Reservation is a created reservation as returned by the API. The listing
// reference comes back populated.
type Reservation struct {
	ID        string           `json:"_id"`
	Listing   Listing          `json:"listingId"`
	CheckIn   time.Time        `json:"checkIn"`
	CheckOut  time.Time        `json:"checkOut"`
	Guests    int              `json:"guests"`
	TotalCost float64          `json:"totalCost"`
	CreatedBy ReservationOwner `json:"createdBy"`
	CreatedAt time.Time        `json:"createdAt"`
}
