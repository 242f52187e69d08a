package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/shelf/internal/container"
	"github.com/joshua-takyi/shelf/internal/handlers"
	"github.com/joshua-takyi/shelf/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	cfg := container.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "OK",
			"service": "shelf",
		})
	})

	screens := r.Group("/")
	screens.Use(middleware.Session(container.Sessions, cfg.SessionTTL, cfg.IsProduction()))

	// profile editor
	{
		screens.GET("/", handlers.GetProfileScreen())
		screens.PATCH("/", handlers.EditProfile())
		screens.POST("/save", handlers.SaveProfile())
		screens.POST("/reset", handlers.ResetProfile())
		screens.POST("/delete", handlers.DeleteProfile())
		screens.POST("/logout", handlers.Logout())
		screens.POST("/avatar", handlers.UploadAvatar(container.ProfileService))
	}

	reviewRoutes := screens.Group("/reviews")
	{
		reviewRoutes.GET("", handlers.GetReviewBoard(container.ReviewService))
		reviewRoutes.POST("/:itemId/reviews", handlers.CreateReview(container.ReviewService))
		reviewRoutes.DELETE("/:itemId/reviews/:reviewId", handlers.DeleteReview(container.ReviewService))
		reviewRoutes.PUT("/:itemId/draft", handlers.UpdateDraft(container.ReviewService))
		reviewRoutes.POST("/:itemId/draft/submit", handlers.SubmitDraft(container.ReviewService))
	}

	return r
}
