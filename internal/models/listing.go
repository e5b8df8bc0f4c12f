package models

import "time"

// SpecificRatings mirrors the per-category rating object on a listing.
// A zero value in any category means "not rated yet".
type SpecificRatings struct {
	Cleanliness   float64 `json:"cleanliness"`
	Communication float64 `json:"communication"`
	CheckIn       float64 `json:"checkin"`
	Accuracy      float64 `json:"accuracy"`
	Location      float64 `json:"location"`
	Value         float64 `json:"value"`
}

// Components returns the ratings in a fixed order for averaging.
func (r SpecificRatings) Components() []float64 {
	return []float64{r.Cleanliness, r.Communication, r.CheckIn, r.Accuracy, r.Location, r.Value}
}

// Listing is the marketplace listing as consumed from the API. The API owns
// its lifecycle; the bot only reads price/guests/status and sends moderation
// or ownership requests back.
type Listing struct {
	ID              string          `json:"_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Location        string          `json:"location"`
	Price           float64         `json:"price"`
	Guests          int             `json:"guests"`
	Images          []string        `json:"images,omitempty"`
	Amenities       []string        `json:"amenities,omitempty"`
	Status          string          `json:"status,omitempty"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	SpecificRatings SpecificRatings `json:"specificRatings"`
	CreatedBy       string          `json:"createdBy,omitempty"`
	CreatedAt       time.Time       `json:"createdAt,omitempty"`
}

// EffectiveStatus treats a missing status as pending, matching how the
// marketplace surfaces legacy listings.
func (l *Listing) EffectiveStatus() string {
	if l.Status == "" {
		return ListingStatusPending
	}
	return l.Status
}
