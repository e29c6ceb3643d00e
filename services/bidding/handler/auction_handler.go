package handler

import (
	"net/http"

	bidding "auction-house/internal/biddingService"
	"auction-house/services/bidding/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// ListAuctionsHandler handles GET /auctions
func (h *BiddingHandler) ListAuctionsHandler(c *gin.Context) {
	categoryID := c.Query("category")
	auctions, err := h.service.ListAuctions(c.Request.Context(), categoryID)
	if err != nil {
		helpers.RespondError(c, "ListAuctionsHandler", err, map[string]any{"category_id": categoryID})
		return
	}

	resp := helpers.NewAuctionResponses(auctions, h.now())
	utils.JSONResponse(c, http.StatusOK, resp, "auctions retrieved successfully")
	helpers.LogSuccess("ListAuctionsHandler", "auctions retrieved successfully", map[string]any{
		"category_id": categoryID,
		"count":       len(resp),
	})
}

// GetActiveAuctionsHandler handles GET /auctions/active
func (h *BiddingHandler) GetActiveAuctionsHandler(c *gin.Context) {
	auctions, err := h.service.GetActiveAuctions(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "GetActiveAuctionsHandler", err, nil)
		return
	}

	resp := helpers.NewAuctionResponses(auctions, h.now())
	utils.JSONResponse(c, http.StatusOK, resp, "active auctions retrieved successfully")
	helpers.LogSuccess("GetActiveAuctionsHandler", "active auctions retrieved successfully", map[string]any{
		"count": len(resp),
	})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *BiddingHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	auction, err := h.service.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		helpers.RespondError(c, "GetAuctionHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponse(auction, h.now()), "auction retrieved successfully")
	helpers.LogSuccess("GetAuctionHandler", "auction retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"bids":       len(auction.Bids),
	})
}

// CreateAuctionHandler handles POST /auctions
func (h *BiddingHandler) CreateAuctionHandler(c *gin.Context) {
	userID := helpers.UserID(c)

	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	in := bidding.NewAuction{
		Title:       req.Title,
		Description: req.Description,
		StartingBid: req.StartingBid,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		CategoryID:  req.CategoryID,
		Era:         req.Era,
		Origin:      req.Origin,
		Condition:   req.Condition,
		Provenance:  req.Provenance,
	}
	for _, img := range req.Images {
		in.Images = append(in.Images, bidding.NewImage{Key: img.Key, URL: img.URL})
	}

	auction, err := h.service.CreateAuction(c.Request.Context(), userID, in)
	if err != nil {
		helpers.RespondError(c, "CreateAuctionHandler", err, map[string]any{
			"user_id": userID,
			"title":   req.Title,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewAuctionResponse(auction, h.now()), "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": auction.ID,
		"owner_id":   auction.OwnerID,
	})
}

// DeleteAuctionHandler handles DELETE /auctions/:auction_id
func (h *BiddingHandler) DeleteAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	userID := helpers.UserID(c)

	if err := h.service.DeleteAuction(c.Request.Context(), userID, auctionID); err != nil {
		helpers.RespondError(c, "DeleteAuctionHandler", err, map[string]any{
			"auction_id": auctionID,
			"user_id":    userID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"auction_id": auctionID}, "auction deleted successfully")
	helpers.LogSuccess("DeleteAuctionHandler", "auction deleted successfully", map[string]any{
		"auction_id": auctionID,
		"user_id":    userID,
	})
}

// AddCommentHandler handles POST /auctions/:auction_id/comments
func (h *BiddingHandler) AddCommentHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	userID := helpers.UserID(c)

	var req helpers.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "AddCommentHandler", err)
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), userID, auctionID, req.Body)
	if err != nil {
		helpers.RespondError(c, "AddCommentHandler", err, map[string]any{
			"auction_id": auctionID,
			"user_id":    userID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, comment, "comment added successfully")
	helpers.LogSuccess("AddCommentHandler", "comment added successfully", map[string]any{
		"comment_id": comment.ID,
		"auction_id": auctionID,
	})
}
