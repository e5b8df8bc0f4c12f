package service

import (
	"context"
	"math"

	"stayfinder/internal/api"
	"stayfinder/internal/domain"
	"stayfinder/internal/events"
	"stayfinder/internal/models"

	"github.com/rs/zerolog"
)

// ListingService reads listings and performs role-checked mutations.
// Ownership validation on mutating calls is mandatory: only the owner or
// an admin may update or delete a listing.
type ListingService struct {
	client   domain.Marketplace
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewListingService(client domain.Marketplace, eventBus domain.EventPublisher, logger *zerolog.Logger) *ListingService {
	return &ListingService{
		client:   client,
		eventBus: eventBus,
		logger:   logger,
	}
}

// PublicListings returns approved listings, optionally narrowed by location.
func (s *ListingService) PublicListings(ctx context.Context, location string) ([]models.Listing, error) {
	return s.client.Listings(ctx, "", api.ListingFilter{
		Status:   models.ListingStatusApproved,
		Location: location,
	})
}

// AllListings returns every listing; admin only.
func (s *ListingService) AllListings(ctx context.Context, sess *models.Session) ([]models.Listing, error) {
	if sess == nil || sess.Token == "" {
		return nil, ErrUnauthenticated
	}
	if !sess.Role().CanModerate() {
		return nil, ErrUnauthorized
	}
	return s.client.Listings(ctx, sess.Token, api.ListingFilter{})
}

// HostListings returns listings owned by the session's account.
func (s *ListingService) HostListings(ctx context.Context, sess *models.Session) ([]models.Listing, error) {
	if sess == nil || sess.Token == "" {
		return nil, ErrUnauthenticated
	}

	all, err := s.client.Listings(ctx, sess.Token, api.ListingFilter{})
	if err != nil {
		return nil, err
	}

	own := make([]models.Listing, 0, len(all))
	for _, l := range all {
		if l.CreatedBy == sess.Identity.ID {
			own = append(own, l)
		}
	}
	return own, nil
}

func (s *ListingService) Listing(ctx context.Context, id string) (*models.Listing, error) {
	return s.client.Listing(ctx, id)
}

// Create submits a new listing. Host submissions always start pending.
func (s *ListingService) Create(ctx context.Context, sess *models.Session, listing *models.Listing) error {
	if sess == nil || sess.Token == "" {
		return ErrUnauthenticated
	}
	if sess.Role() != models.RoleHost && sess.Role() != models.RoleAdmin {
		return ErrUnauthorized
	}

	listing.CreatedBy = sess.Identity.ID
	listing.Status = models.ListingStatusPending
	listing.RejectionReason = ""
	return s.client.CreateListing(ctx, sess.Token, listing)
}

// Update replaces a listing. A host edit sends the listing back through
// moderation (status returns to pending).
func (s *ListingService) Update(ctx context.Context, sess *models.Session, listing *models.Listing) error {
	if err := s.requireOwnership(sess, listing); err != nil {
		return err
	}

	if sess.Role() != models.RoleAdmin {
		listing.Status = models.ListingStatusPending
		listing.RejectionReason = ""
	}
	return s.client.UpdateListing(ctx, sess.Token, listing)
}

// Delete removes a listing; owner or admin only.
func (s *ListingService) Delete(ctx context.Context, sess *models.Session, listing *models.Listing) error {
	if err := s.requireOwnership(sess, listing); err != nil {
		return err
	}
	return s.client.DeleteListing(ctx, sess.Token, listing.ID)
}

// Approve publishes a pending or rejected listing. Admin only. Approving
// clears any prior rejection reason.
func (s *ListingService) Approve(ctx context.Context, sess *models.Session, listing *models.Listing) error {
	if err := s.requireModerator(sess); err != nil {
		return err
	}

	listing.Status = models.ListingStatusApproved
	listing.RejectionReason = ""
	if err := s.client.UpdateListing(ctx, sess.Token, listing); err != nil {
		return err
	}

	s.publishModeration(events.EventListingApproved, listing, sess, "")
	return nil
}

// Reject declines a listing with an optional reason. Admin only.
func (s *ListingService) Reject(ctx context.Context, sess *models.Session, listing *models.Listing, reason string) error {
	if err := s.requireModerator(sess); err != nil {
		return err
	}

	listing.Status = models.ListingStatusRejected
	listing.RejectionReason = reason
	if err := s.client.UpdateListing(ctx, sess.Token, listing); err != nil {
		return err
	}

	s.publishModeration(events.EventListingRejected, listing, sess, reason)
	return nil
}

func (s *ListingService) requireOwnership(sess *models.Session, listing *models.Listing) error {
	if sess == nil || sess.Token == "" {
		return ErrUnauthenticated
	}
	if sess.Role() == models.RoleAdmin {
		return nil
	}
	if listing.CreatedBy != sess.Identity.ID {
		return ErrUnauthorized
	}
	return nil
}

func (s *ListingService) requireModerator(sess *models.Session) error {
	if sess == nil || sess.Token == "" {
		return ErrUnauthenticated
	}
	if !sess.Role().CanModerate() {
		return ErrUnauthorized
	}
	return nil
}

func (s *ListingService) publishModeration(eventType string, listing *models.Listing, sess *models.Session, reason string) {
	if s.eventBus == nil {
		return
	}
	payload := events.ListingEventPayload{
		ListingID: listing.ID,
		Title:     listing.Title,
		Status:    listing.Status,
		Reason:    reason,
		AdminID:   sess.Identity.ID,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("listing_id", listing.ID).Msg("publish event error")
	}
}

// FilterByStatus keeps listings whose effective status matches. A listing
// without a status counts as pending.
func FilterByStatus(listings []models.Listing, status string) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.EffectiveStatus() == status {
			out = append(out, l)
		}
	}
	return out
}

// CountByStatus tallies listings per effective status.
func CountByStatus(listings []models.Listing) map[string]int {
	counts := make(map[string]int)
	for _, l := range listings {
		counts[l.EffectiveStatus()]++
	}
	return counts
}

// AverageRating averages the positive rating components to one decimal.
// Zero components mean "not yet rated" and are excluded; an unrated
// listing averages to 0.
func AverageRating(r models.SpecificRatings) float64 {
	var sum float64
	var n int
	for _, v := range r.Components() {
		if v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*10) / 10
}
