package bot

import (
	"context"
	"os"
	"sync"
	"time"

	"stayfinder/internal/config"
	"stayfinder/internal/domain"
	"stayfinder/internal/events"
	"stayfinder/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Bot struct {
	tgService domain.TelegramService
	config    *config.Config
	auth      domain.AuthService
	bookings  domain.BookingService
	listings  domain.ListingService
	drafts    domain.DraftRepository
	eventBus  domain.EventPublisher
	metrics   *Metrics
	logger    *zerolog.Logger
	promptsMu sync.Mutex
	prompts   map[int64]*promptState
}

func NewBot(
	tgService domain.TelegramService,
	config *config.Config,
	auth domain.AuthService,
	bookings domain.BookingService,
	listings domain.ListingService,
	drafts domain.DraftRepository,
	eventBus domain.EventPublisher,
	metrics *Metrics,
	logger *zerolog.Logger,
) (*Bot, error) {
	if eventBus == nil {
		eventBus = events.NewEventBus()
	}

	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	return &Bot{
		tgService: tgService,
		config:    config,
		auth:      auth,
		bookings:  bookings,
		listings:  listings,
		drafts:    drafts,
		eventBus:  eventBus,
		metrics:   metrics,
		logger:    logger,
		prompts:   make(map[int64]*promptState),
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		if b.metrics != nil {
			b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
		}
	}()

	// Создаем контекст для обработки каждого обновления
	updateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	requestID := uuid.New().String()
	l := b.logger.With().Str("request_id", requestID).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(func() {
		var chatID int64
		if update.Message != nil {
			chatID = update.Message.Chat.ID
		} else if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}

		if chatID == 0 {
			return
		}

		if !b.isModerator(chatID) {
			allowed, err := b.drafts.CheckRateLimit(updateCtx, chatID, b.config.Bot.RateLimitMessages, time.Duration(b.config.Bot.RateLimitWindow)*time.Second)
			if err != nil {
				b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Rate limit check failed")
			} else if !allowed {
				b.logger.Warn().Int64("chat_id", chatID).Msg("Rate limit exceeded")
				if update.Message != nil {
					b.sendMessage(chatID, "⚠️ You are sending messages too fast. Please wait a moment.")
				}
				return
			}
		}

		if update.CallbackQuery != nil {
			b.handleCallbackQuery(updateCtx, update)
			return
		}

		if update.Message == nil {
			return
		}

		if b.metrics != nil {
			b.metrics.MessagesProcessed.Inc()
		}

		b.handleMessage(updateCtx, update)
	})
}

func (b *Bot) isModerator(chatID int64) bool {
	sess := b.auth.Session(chatID)
	return sess.Role() == models.RoleAdmin
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.tgService.SendMessage(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}
