package server

import (
	"net/http"

	handler "auction-house/services/bidding/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(service handler.BiddingServiceInterface, jwtSecret []byte) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	biddingHandler := handler.NewBiddingHandler(service)
	requireAuth := AuthMiddleware(jwtSecret)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auctions := router.Group("/auctions")
	{
		auctions.GET("", biddingHandler.ListAuctionsHandler)
		auctions.GET("/active", biddingHandler.GetActiveAuctionsHandler)
		auctions.GET("/:auction_id", biddingHandler.GetAuctionHandler)
		auctions.GET("/:auction_id/bids", biddingHandler.GetBidsByAuctionHandler)
		auctions.GET("/:auction_id/winning", biddingHandler.GetWinningBidHandler)

		auctions.POST("", requireAuth, biddingHandler.CreateAuctionHandler)
		auctions.POST("/:auction_id/bid", requireAuth, biddingHandler.PlaceBidHandler)
		auctions.POST("/:auction_id/comments", requireAuth, biddingHandler.AddCommentHandler)
		auctions.DELETE("/:auction_id", requireAuth, biddingHandler.DeleteAuctionHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/:user_id/auctions", biddingHandler.GetAuctionsByUserHandler)
	}

	categories := router.Group("/categories")
	{
		categories.GET("", biddingHandler.ListCategoriesHandler)
		categories.POST("", requireAuth, biddingHandler.CreateCategoryHandler)
	}

	return router
}
