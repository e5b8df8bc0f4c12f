package domain

import (
	"context"
	"time"

	"stayfinder/internal/api"
	"stayfinder/internal/booking"
	"stayfinder/internal/models"
	"stayfinder/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Marketplace is the surface of the external API client the services use.
type Marketplace interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Register(ctx context.Context, email, password, name string) (*api.AuthResponse, error)
	Listings(ctx context.Context, token string, filter api.ListingFilter) ([]models.Listing, error)
	Listing(ctx context.Context, id string) (*models.Listing, error)
	CreateListing(ctx context.Context, token string, listing *models.Listing) error
	UpdateListing(ctx context.Context, token string, listing *models.Listing) error
	DeleteListing(ctx context.Context, token, id string) error
	CreateReservation(ctx context.Context, token string, req models.ReservationRequest) (*models.Reservation, error)
	Reservations(ctx context.Context, token string) ([]models.Reservation, error)
}

// SessionStore owns the per-chat sessions and their persistence.
type SessionStore interface {
	Restore(ctx context.Context) error
	Establish(ctx context.Context, chatID int64, token string, identity models.Identity) error
	Clear(ctx context.Context, chatID int64) error
	Get(chatID int64) *models.Session
}

// DraftRepository stores in-progress booking drafts and chat rate limits.
type DraftRepository interface {
	GetDraft(ctx context.Context, chatID int64) (*booking.Draft, error)
	SetDraft(ctx context.Context, draft *booking.Draft) error
	ClearDraft(ctx context.Context, chatID int64) error
	CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error)
}

// BookingService evaluates and submits reservations.
type BookingService interface {
	Quote(draft *booking.Draft) (booking.Quote, error)
	Submit(ctx context.Context, draft *booking.Draft, sess *models.Session) (*models.Reservation, error)
	MyReservations(ctx context.Context, sess *models.Session) ([]models.Reservation, error)
	HostReservations(ctx context.Context, sess *models.Session) ([]models.Reservation, error)
}

// ListingService wraps listing reads and role-checked mutations.
type ListingService interface {
	PublicListings(ctx context.Context, location string) ([]models.Listing, error)
	AllListings(ctx context.Context, sess *models.Session) ([]models.Listing, error)
	HostListings(ctx context.Context, sess *models.Session) ([]models.Listing, error)
	Listing(ctx context.Context, id string) (*models.Listing, error)
	Create(ctx context.Context, sess *models.Session, listing *models.Listing) error
	Update(ctx context.Context, sess *models.Session, listing *models.Listing) error
	Delete(ctx context.Context, sess *models.Session, listing *models.Listing) error
	Approve(ctx context.Context, sess *models.Session, listing *models.Listing) error
	Reject(ctx context.Context, sess *models.Session, listing *models.Listing, reason string) error
}

// AuthService logs chats in and out against the marketplace.
type AuthService interface {
	Login(ctx context.Context, chatID int64, email, password string) (*models.Session, error)
	Register(ctx context.Context, chatID int64, email, password, name string) (*models.Session, error)
	Logout(ctx context.Context, chatID int64) error
	Session(chatID int64) *models.Session
	Authorize(chatID int64, requiredRole models.Role) session.Decision
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	FileURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error)
	SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	AnswerCallback(callbackID string, text string) error
	FileURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

// SheetsWriter mirrors reservations and moderation decisions to Sheets.
type SheetsWriter interface {
	AppendReservation(ctx context.Context, res *models.Reservation) error
	UpsertReservation(ctx context.Context, res *models.Reservation) error
	UpdateListingsSheet(ctx context.Context, listings []models.Listing) error
}

// SyncWorker queues Sheets synchronization tasks.
type SyncWorker interface {
	EnqueueReservation(ctx context.Context, res *models.Reservation) error
	EnqueueListingsRefresh(ctx context.Context) error
}
