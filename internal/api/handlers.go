package api

import (
	"github.com/lumora-health/lumora-backend/internal/alerts"
	"github.com/lumora-health/lumora-backend/internal/cache"
	"github.com/lumora-health/lumora-backend/internal/chatbot"
	"github.com/lumora-health/lumora-backend/internal/config"
	"github.com/lumora-health/lumora-backend/internal/database"
	"github.com/lumora-health/lumora-backend/internal/ml"
	"github.com/lumora-health/lumora-backend/internal/monitoring"
	"github.com/lumora-health/lumora-backend/internal/ratelimit"
)

// Handlers carries every collaborator the HTTP layer needs. All fields are
// injected from main; nothing here owns global state.
type Handlers struct {
	cfg     config.Config
	db      *database.DB
	repo    *database.Repository
	users   *database.UserService
	models  *ml.ModelService
	scorer  *ml.Scorer
	alerts  *alerts.Service
	bot     *chatbot.Bot
	cache   *cache.Cache
	limiter *ratelimit.RateLimiter
	logger  *monitoring.Logger
	metrics *monitoring.Metrics
}

// NewHandlers wires the handler set
func NewHandlers(
	cfg config.Config,
	db *database.DB,
	repo *database.Repository,
	users *database.UserService,
	models *ml.ModelService,
	scorer *ml.Scorer,
	alertService *alerts.Service,
	bot *chatbot.Bot,
	responseCache *cache.Cache,
	limiter *ratelimit.RateLimiter,
	logger *monitoring.Logger,
	metrics *monitoring.Metrics,
) *Handlers {
	return &Handlers{
		cfg:     cfg,
		db:      db,
		repo:    repo,
		users:   users,
		models:  models,
		scorer:  scorer,
		alerts:  alertService,
		bot:     bot,
		cache:   responseCache,
		limiter: limiter,
		logger:  logger,
		metrics: metrics,
	}
}
