package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/Mboiraai/rork-automarketconnect/internal/api/handlers"
	"github.com/Mboiraai/rork-automarketconnect/internal/api/middleware"
	"github.com/Mboiraai/rork-automarketconnect/internal/config"
	"github.com/Mboiraai/rork-automarketconnect/internal/services"
	"github.com/Mboiraai/rork-automarketconnect/internal/storage"
)

// SetupRouter configures and returns the main Gin engine. rdb, s3Storage and
// taskClient may be nil; the routes depending on them are skipped.
func SetupRouter(
	cfg *config.Config,
	store services.IMarketplaceStore,
	s3Storage storage.IS3Storage,
	taskClient *asynq.Client,
	rdb *redis.Client,
	logger *slog.Logger,
) *gin.Engine {
	r := gin.Default()

	// Apply global middleware first (order matters)
	rateLimiter := middleware.NewRateLimiterMiddleware(cfg, logger)
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	listingHandler := handlers.NewListingHandler(store, rdb, logger)
	conversationHandler := handlers.NewConversationHandler(store)
	profileHandler := handlers.NewProfileHandler(store)
	adminHandler := handlers.NewAdminHandler(store)

	v1 := r.Group("/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		// Browsing is open; everything touching identity sits behind the
		// identity middleware.
		v1.GET("/listings", listingHandler.ListListings)
		v1.GET("/listings/:id", listingHandler.GetListing)

		authed := v1.Group("/")
		authed.Use(middleware.IdentityMiddleware(store))
		{
			authed.POST("/listings", listingHandler.CreateListing)
			authed.PATCH("/listings/:id", listingHandler.UpdateListing)
			authed.DELETE("/listings/:id", listingHandler.DeleteListing)

			authed.POST("/listings/:id/favorite", listingHandler.ToggleFavorite)
			authed.GET("/favorites", listingHandler.ListFavorites)

			authed.GET("/me", profileHandler.Me)
			authed.GET("/me/listings", profileHandler.MyListings)
			authed.POST("/me/listings/:id/sold", profileHandler.MarkSold)
			authed.POST("/me/listings/:id/relist", profileHandler.Relist)

			authed.GET("/conversations", conversationHandler.ListConversations)
			authed.POST("/conversations", conversationHandler.CreateConversation)
			authed.GET("/conversations/:id", conversationHandler.GetConversation)
			authed.POST("/conversations/:id/messages", conversationHandler.SendMessage)
			authed.POST("/conversations/:id/read", conversationHandler.MarkRead)

			if s3Storage != nil && taskClient != nil {
				imageHandler := handlers.NewImageHandler(store, s3Storage, taskClient)
				authed.POST("/listings/:id/images", imageHandler.RequestUpload)
				authed.POST("/listings/:id/images/complete", imageHandler.CompleteUpload)
			}
		}

		adminRequired := v1.Group("/admin")
		adminRequired.Use(middleware.IdentityMiddleware(store), middleware.AdminMiddleware())
		{
			adminRequired.GET("/listings/pending", adminHandler.PendingListings)
			adminRequired.POST("/listings/:id/approve", adminHandler.ApproveListing)
			adminRequired.POST("/listings/:id/reject", adminHandler.RejectListing)
		}
	}

	return r
}
