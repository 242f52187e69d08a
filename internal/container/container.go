package container

import (
	"log/slog"

	"github.com/joshua-takyi/shelf/internal/config"
	"github.com/joshua-takyi/shelf/internal/models"
	"github.com/joshua-takyi/shelf/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *slog.Logger
	ProfileService *services.ProfileService
	ReviewService  *services.ReviewService
	Sessions       *services.SessionService
}

// NewContainer creates a new dependency injection container.
// avatars may be nil when no media host is configured.
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	store models.KVStore,
	avatars services.AvatarUploader,
) *Container {
	repo := models.NewKVRepo(store)
	profileService := services.NewProfileService(repo, repo, avatars, logger)
	reviewService := services.NewReviewService(repo, repo, logger)
	sessions := services.NewSessionService(profileService, cfg.DisarmDeleteOnExit, cfg.SessionTTL)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		ProfileService: profileService,
		ReviewService:  reviewService,
		Sessions:       sessions,
	}
}
