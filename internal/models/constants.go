package models

const (
	ListingStatusPending  = "pending"
	ListingStatusApproved = "approved"
	ListingStatusRejected = "rejected"
)

// Canonical navigation routes. The guard answers redirects in terms of
// these; the bot maps each route to its menu.
const (
	RouteHome         = "/"
	RouteLogin        = "/login"
	RouteReservations = "/reservations"
	RouteHost         = "/host"
	RouteAdmin        = "/admin"
)

const (
	ParseModeMarkdown = "Markdown"
	ParseModeHTML     = "HTML"
)

const (
	// DefaultRedisTTL время жизни черновика брони в Redis
	DefaultRedisTTL = 24 * 60 * 60 // 24 часа в секундах

	// WorkerQueueSize размер очереди воркера
	WorkerQueueSize = 1000

	// DefaultPaginationSize размер пагинации списка объектов
	DefaultPaginationSize = 5

	// RateLimitMessages количество сообщений в окне
	RateLimitMessages = 20

	// RateLimitWindow окно ограничения частоты сообщений
	RateLimitWindow = 60 // 1 минута в секундах

	// ListingsCacheTTL время жизни кэша списка объектов
	ListingsCacheTTL = 5 * 60 // 5 минут в секундах

	// MaxPhotoSizeBytes предельный размер фото для конвертации в data URL
	MaxPhotoSizeBytes = 5 * 1024 * 1024
)
