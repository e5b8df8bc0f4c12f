package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"stayfinder/internal/models"

	"github.com/rs/zerolog"
)

// persistence is the slice of the local database the store needs.
type persistence interface {
	UpsertSession(ctx context.Context, rec *models.SessionRecord) error
	DeleteSession(ctx context.Context, chatID int64) error
	ListSessions(ctx context.Context) ([]models.SessionRecord, error)
}

// Store keeps the in-memory session per chat and mirrors every change to
// the local database, so sessions survive a restart the way a browser's
// local storage survives a reload.
type Store struct {
	db     persistence
	logger *zerolog.Logger

	mu       sync.RWMutex
	sessions map[int64]*models.Session
}

func NewStore(db persistence, logger *zerolog.Logger) *Store {
	return &Store{
		db:       db,
		logger:   logger,
		sessions: make(map[int64]*models.Session),
	}
}

// Restore loads persisted sessions at startup. Rows with a missing token or
// a missing/unparseable identity are treated as absent and removed from
// storage; corruption is recovered locally and never returned as an error.
func (s *Store) Restore(ctx context.Context) error {
	records, err := s.db.ListSessions(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		sess, ok := s.decode(rec)
		if !ok {
			s.logger.Warn().Int64("chat_id", rec.ChatID).Msg("dropping corrupted stored session")
			if err := s.db.DeleteSession(ctx, rec.ChatID); err != nil {
				s.logger.Error().Err(err).Int64("chat_id", rec.ChatID).Msg("failed to clear corrupted session")
			}
			continue
		}
		s.sessions[rec.ChatID] = sess
	}

	s.logger.Info().Int("sessions", len(s.sessions)).Msg("sessions restored")
	return nil
}

func (s *Store) decode(rec models.SessionRecord) (*models.Session, bool) {
	if rec.Token == "" || rec.Identity == "" || rec.Identity == "undefined" {
		return nil, false
	}
	var identity models.Identity
	if err := json.Unmarshal([]byte(rec.Identity), &identity); err != nil {
		return nil, false
	}
	if identity.ID == "" {
		return nil, false
	}
	identity.Role = models.ParseRole(string(identity.Role))
	return &models.Session{
		ChatID:    rec.ChatID,
		Token:     rec.Token,
		Identity:  identity,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, true
}

// Establish stores the token/identity pair for a chat, replacing any prior
// session. The pair is persisted in a single upsert so storage can never
// hold one half without the other.
func (s *Store) Establish(ctx context.Context, chatID int64, token string, identity models.Identity) error {
	identity.Role = models.ParseRole(string(identity.Role))
	raw, err := json.Marshal(identity)
	if err != nil {
		return err
	}

	now := time.Now()
	rec := &models.SessionRecord{
		ChatID:    chatID,
		Token:     token,
		Identity:  string(raw),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.UpsertSession(ctx, rec); err != nil {
		return err
	}

	s.mu.Lock()
	s.sessions[chatID] = &models.Session{
		ChatID:    chatID,
		Token:     token,
		Identity:  identity,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	s.mu.Unlock()
	return nil
}

// Clear removes the chat's session from memory and storage.
func (s *Store) Clear(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	delete(s.sessions, chatID)
	s.mu.Unlock()
	return s.db.DeleteSession(ctx, chatID)
}

// Get returns the current session for a chat, or nil when absent.
func (s *Store) Get(chatID int64) *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[chatID]
}
