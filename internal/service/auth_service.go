package service

import (
	"context"

	"stayfinder/internal/domain"
	"stayfinder/internal/events"
	"stayfinder/internal/models"
	"stayfinder/internal/session"

	"github.com/rs/zerolog"
)

// AuthService exchanges credentials with the marketplace and keeps the
// resulting session in the store.
type AuthService struct {
	client   domain.Marketplace
	sessions domain.SessionStore
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewAuthService(client domain.Marketplace, sessions domain.SessionStore, eventBus domain.EventPublisher, logger *zerolog.Logger) *AuthService {
	return &AuthService{
		client:   client,
		sessions: sessions,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *AuthService) Login(ctx context.Context, chatID int64, email, password string) (*models.Session, error) {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Establish(ctx, chatID, resp.Token, resp.User); err != nil {
		return nil, err
	}

	s.publishSessionEvent(events.EventSessionEstablished, chatID, resp.User)
	return s.sessions.Get(chatID), nil
}

func (s *AuthService) Register(ctx context.Context, chatID int64, email, password, name string) (*models.Session, error) {
	resp, err := s.client.Register(ctx, email, password, name)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Establish(ctx, chatID, resp.Token, resp.User); err != nil {
		return nil, err
	}

	s.publishSessionEvent(events.EventSessionEstablished, chatID, resp.User)
	return s.sessions.Get(chatID), nil
}

func (s *AuthService) Logout(ctx context.Context, chatID int64) error {
	sess := s.sessions.Get(chatID)
	if err := s.sessions.Clear(ctx, chatID); err != nil {
		return err
	}
	if sess != nil {
		s.publishSessionEvent(events.EventSessionCleared, chatID, sess.Identity)
	}
	return nil
}

func (s *AuthService) Session(chatID int64) *models.Session {
	return s.sessions.Get(chatID)
}

// Authorize answers the access question for the chat's current session.
func (s *AuthService) Authorize(chatID int64, requiredRole models.Role) session.Decision {
	return session.Authorize(s.sessions.Get(chatID), requiredRole)
}

func (s *AuthService) publishSessionEvent(eventType string, chatID int64, identity models.Identity) {
	if s.eventBus == nil {
		return
	}
	payload := map[string]interface{}{
		"chat_id": chatID,
		"user_id": identity.ID,
		"role":    identity.Role.String(),
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("chat_id", chatID).Msg("publish event error")
	}
}
