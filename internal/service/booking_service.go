package service

import (
	"context"
	"sync"

	"stayfinder/internal/booking"
	"stayfinder/internal/domain"
	"stayfinder/internal/events"
	"stayfinder/internal/metrics"
	"stayfinder/internal/models"

	"github.com/rs/zerolog"
)

// BookingService prices and submits reservations against the marketplace.
type BookingService struct {
	client       domain.Marketplace
	eventBus     domain.EventPublisher
	sheetsWorker domain.SyncWorker
	logger       *zerolog.Logger

	// inFlight marks chats with an outstanding submission. A second
	// submit for the same chat is refused until the first returns.
	inFlight sync.Map
}

func NewBookingService(client domain.Marketplace, eventBus domain.EventPublisher, sheetsWorker domain.SyncWorker, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		client:       client,
		eventBus:     eventBus,
		sheetsWorker: sheetsWorker,
		logger:       logger,
	}
}

// Quote re-evaluates the draft and returns its current pricing.
func (s *BookingService) Quote(draft *booking.Draft) (booking.Quote, error) {
	return booking.Evaluate(
		&models.Listing{ID: draft.ListingID, Price: draft.Nightly, Guests: draft.MaxGuests},
		draft.CheckIn, draft.CheckOut, draft.Guests,
	)
}

// Submit validates the draft one last time and creates the reservation.
// The marketplace is authoritative: on success the reservation is expected
// to appear in the account's list on next fetch, nothing is cached here.
func (s *BookingService) Submit(ctx context.Context, draft *booking.Draft, sess *models.Session) (*models.Reservation, error) {
	if sess == nil || sess.Token == "" {
		return nil, ErrUnauthenticated
	}
	if !sess.Role().CanBook() {
		return nil, ErrUnauthorized
	}
	if draft.Guests < 1 {
		return nil, ErrDraftNotReady
	}

	// Re-evaluate through the one pricing path; a stale draft must not
	// submit a cost the engine would no longer produce.
	quote, err := s.Quote(draft)
	if err != nil {
		return nil, err
	}
	if !quote.Complete {
		return nil, ErrDraftNotReady
	}
	draft.Quote = quote

	if _, busy := s.inFlight.LoadOrStore(draft.ChatID, struct{}{}); busy {
		return nil, ErrSubmitInProgress
	}
	defer s.inFlight.Delete(draft.ChatID)

	if !draft.BeginSubmit() {
		return nil, ErrDraftNotReady
	}

	created, err := s.client.CreateReservation(ctx, sess.Token, draft.Request(sess.Identity.ID))
	draft.FinishSubmit(err)
	if err != nil {
		s.logger.Error().Err(err).Int64("chat_id", draft.ChatID).Str("listing_id", draft.ListingID).Msg("reservation submit failed")
		return nil, err
	}

	metrics.IncReservationSubmitted()
	s.publishReservation(created)
	s.enqueueSync(ctx, created)
	return created, nil
}

// MyReservations returns reservations created by the session's account.
// The endpoint returns everything visible to the token, so the ownership
// filter is applied here.
func (s *BookingService) MyReservations(ctx context.Context, sess *models.Session) ([]models.Reservation, error) {
	if sess == nil || sess.Token == "" {
		return nil, ErrUnauthenticated
	}

	all, err := s.client.Reservations(ctx, sess.Token)
	if err != nil {
		return nil, err
	}

	mine := make([]models.Reservation, 0, len(all))
	for _, r := range all {
		if r.CreatedBy.ID == sess.Identity.ID {
			mine = append(mine, r)
		}
	}
	return mine, nil
}

// HostReservations returns reservations for listings owned by the session.
func (s *BookingService) HostReservations(ctx context.Context, sess *models.Session) ([]models.Reservation, error) {
	if sess == nil || sess.Token == "" {
		return nil, ErrUnauthenticated
	}
	if sess.Role() != models.RoleHost && sess.Role() != models.RoleAdmin {
		return nil, ErrUnauthorized
	}

	all, err := s.client.Reservations(ctx, sess.Token)
	if err != nil {
		return nil, err
	}

	hosted := make([]models.Reservation, 0, len(all))
	for _, r := range all {
		if r.Listing.CreatedBy == sess.Identity.ID || sess.Role() == models.RoleAdmin {
			hosted = append(hosted, r)
		}
	}
	return hosted, nil
}

func (s *BookingService) publishReservation(res *models.Reservation) {
	if s.eventBus == nil || res == nil {
		return
	}

	payload := events.ReservationEventPayload{
		ReservationID: res.ID,
		ListingID:     res.Listing.ID,
		ListingName:   res.Listing.Title,
		CheckIn:       res.CheckIn,
		CheckOut:      res.CheckOut,
		Guests:        res.Guests,
		TotalCost:     res.TotalCost,
		CreatedBy:     res.CreatedBy.ID,
	}

	if err := s.eventBus.PublishJSON(events.EventReservationSubmitted, payload); err != nil {
		s.logger.Error().Err(err).Str("reservation_id", res.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueSync(ctx context.Context, res *models.Reservation) {
	if s.sheetsWorker == nil || res == nil {
		return
	}
	if err := s.sheetsWorker.EnqueueReservation(ctx, res); err != nil {
		s.logger.Error().Err(err).Str("reservation_id", res.ID).Msg("sheets enqueue error")
	}
}
