package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"stayfinder/internal/api"
	"stayfinder/internal/bot"
	"stayfinder/internal/config"
	"stayfinder/internal/database"
	"stayfinder/internal/domain"
	"stayfinder/internal/events"
	"stayfinder/internal/google"
	"stayfinder/internal/logging"
	"stayfinder/internal/metrics"
	"stayfinder/internal/models"
	"stayfinder/internal/repository"
	"stayfinder/internal/service"
	"stayfinder/internal/session"
	"stayfinder/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, loadErr := loadConfigAndLogger()
	if loadErr != nil {
		return loadErr
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка инициализации базы данных")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, draftRepo := initDraftRepository(ctx, cfg, &logger)

	client := api.NewClient(cfg.Marketplace)
	if redisClient != nil {
		client.UseRedisCache(redisClient, cfg.Marketplace.CacheTTL)
	}

	sessions := session.NewStore(db, &logger)
	if err := sessions.Restore(ctx); err != nil {
		logger.Error().Err(err).Msg("Session restore failed")
		return err
	}

	sheetsService := initGoogleSheets(ctx, cfg, &logger)

	// Запускаем воркер синхронизации Google Sheets
	var sheetsWorker *worker.SheetsWorker
	var syncWorker domain.SyncWorker
	if sheetsService != nil {
		retryPolicy := worker.RetryPolicy{MaxRetries: 5, InitialDelay: 2 * time.Second, MaxDelay: time.Minute, BackoffFactor: 2}
		sheetsWorker = worker.NewSheetsWorker(db, sheetsService, listingSnapshot{client: client}, redisClient, retryPolicy, &logger)
		syncWorker = sheetsWorker
		go sheetsWorker.Start(ctx)
	}

	metrics.Register()

	eventBus := events.NewEventBus()
	subscribeModerationEvents(ctx, eventBus, sheetsWorker, &logger)

	authService := service.NewAuthService(client, sessions, eventBus, &logger)
	bookingService := service.NewBookingService(client, eventBus, syncWorker, &logger)
	listingService := service.NewListingService(client, eventBus, &logger)
	botMetrics := bot.NewMetrics()

	if cfg.Monitoring.PrometheusEnabled {
		go serveMetrics(cfg.Monitoring.PrometheusPort, &logger)
	}

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	return startBot(ctx, cfg, authService, bookingService, listingService, draftRepo, eventBus, botMetrics, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	logger := baseLogger.With().Str("component", "bot-main").Logger()

	// An external amenities file overrides the inline list when present.
	amenitiesPath := os.Getenv("AMENITIES_PATH")
	if amenitiesPath == "" {
		amenitiesPath = "configs/amenities.yaml"
	}
	if amenitiesData, err := os.ReadFile(amenitiesPath); err == nil {
		var amenitiesConfig struct {
			Amenities []string `yaml:"amenities"`
		}
		if err := yaml.Unmarshal(amenitiesData, &amenitiesConfig); err != nil {
			logger.Error().Err(err).Msgf("Ошибка парсинга %s", amenitiesPath)
			return nil, zerolog.Logger{}, closer, err
		}
		cfg.Amenities = amenitiesConfig.Amenities
	}

	if err := config.ValidateAmenities(cfg.Amenities); err != nil {
		logger.Error().Err(err).Msg("Amenities validation failed")
		return nil, zerolog.Logger{}, closer, err
	}

	return cfg, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg == nil {
		return os.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для базы данных")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для экспорта")
		return err
	}
	return nil
}

func initDraftRepository(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, domain.DraftRepository) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if errPing := repository.Ping(ctx, redisClient); errPing != nil {
			logger.Warn().Err(errPing).Msg("Redis unavailable")
		}
	}

	ttl := time.Duration(models.DefaultRedisTTL) * time.Second
	primaryRepo := repository.NewRedisDraftRepository(redisClient, ttl)
	fallbackRepo := repository.NewMemoryDraftRepository(ttl)
	return redisClient, repository.NewFailoverDraftRepository(primaryRepo, fallbackRepo, logger)
}

// initGoogleSheets is best-effort: the bot runs without the Sheets mirror.
func initGoogleSheets(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.GoogleCredentialsFile == "" || cfg.Google.ReservationsSpreadSheetID == "" || cfg.Google.ListingsSpreadSheetID == "" {
		logger.Warn().Msg("Google Sheets not configured, skipping sync")
		return nil
	}

	sheetsSvc, err := google.NewSheetsService(
		cfg.Google.GoogleCredentialsFile,
		cfg.Google.ReservationsSpreadSheetID,
		cfg.Google.ListingsSpreadSheetID,
	)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize Google Sheets service")
		return nil
	}

	if err := sheetsSvc.TestConnection(ctx); err != nil {
		logger.Error().Err(err).Msg("Google Sheets connection test failed")
		return nil
	}

	logger.Info().Msg("Google Sheets service initialized successfully")
	return sheetsSvc
}

func monitoringMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func serveMetrics(port int, logger *zerolog.Logger) {
	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Msg("Metrics server listening")
	if err := http.ListenAndServe(addr, monitoringMux()); err != nil {
		logger.Error().Err(err).Msg("Metrics server error")
	}
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	authService *service.AuthService,
	bookingService *service.BookingService,
	listingService *service.ListingService,
	draftRepo domain.DraftRepository,
	eventBus *events.EventBus,
	botMetrics *bot.Metrics,
	logger *zerolog.Logger,
) error {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		logger.Error().Msg("Задайте токен бота в config.yaml")
		return os.ErrInvalid
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания BotAPI")
		return err
	}
	botAPI.Debug = cfg.Telegram.Debug

	botWrapper := bot.NewBotWrapper(botAPI)
	tgService := service.NewTelegramService(botWrapper)

	telegramBot, err := bot.NewBot(
		tgService, cfg, authService, bookingService,
		listingService, draftRepo, eventBus, botMetrics, logger,
	)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания бота")
		return err
	}

	logger.Info().Msg("Бот запущен...")
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}

// listingSnapshot feeds the worker the full listing set for sheet refreshes.
type listingSnapshot struct {
	client *api.Client
}

func (s listingSnapshot) AllListings(ctx context.Context) ([]models.Listing, error) {
	return s.client.Listings(ctx, "", api.ListingFilter{})
}

// subscribeModerationEvents mirrors every moderation decision into the
// listings sheet so the spreadsheet tracks the public catalog.
func subscribeModerationEvents(
	ctx context.Context,
	bus *events.EventBus,
	sheetsWorker *worker.SheetsWorker,
	logger *zerolog.Logger,
) {
	if bus == nil || sheetsWorker == nil {
		return
	}

	refresh := func(ev *events.Event) error {
		if err := sheetsWorker.EnqueueListingsRefresh(ctx); err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: enqueue listings refresh")
		}
		return nil
	}

	bus.Subscribe(events.EventListingApproved, refresh)
	bus.Subscribe(events.EventListingRejected, refresh)
}
