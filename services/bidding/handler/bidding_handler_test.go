package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-house/internal/biddingerrors"
	bidding "auction-house/internal/biddingService"
	model "auction-house/internal/models"
	"auction-house/services/bidding/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testUserHeader = "X-Test-User"

// newTestRouter wires every handler behind a stub auth layer that trusts testUserHeader
func newTestRouter(t *testing.T) (*MockBiddingServiceInterface, *gin.Engine) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockService := NewMockBiddingServiceInterface(ctrl)
	h := NewBiddingHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if user := c.GetHeader(testUserHeader); user != "" {
			c.Set(helpers.UserIDKey, user)
		}
		c.Next()
	})

	router.GET("/auctions", h.ListAuctionsHandler)
	router.GET("/auctions/active", h.GetActiveAuctionsHandler)
	router.GET("/auctions/:auction_id", h.GetAuctionHandler)
	router.GET("/auctions/:auction_id/bids", h.GetBidsByAuctionHandler)
	router.GET("/auctions/:auction_id/winning", h.GetWinningBidHandler)
	router.POST("/auctions", h.CreateAuctionHandler)
	router.POST("/auctions/:auction_id/bid", h.PlaceBidHandler)
	router.POST("/auctions/:auction_id/comments", h.AddCommentHandler)
	router.DELETE("/auctions/:auction_id", h.DeleteAuctionHandler)
	router.GET("/users/:user_id/auctions", h.GetAuctionsByUserHandler)
	router.GET("/categories", h.ListCategoriesHandler)
	router.POST("/categories", h.CreateCategoryHandler)

	return mockService, router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, user string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(testUserHeader, user)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

// decimalMatcher matches a *decimal.Decimal by numeric value
type decimalMatcher struct{ want decimal.Decimal }

func decimalEq(s string) gomock.Matcher {
	return decimalMatcher{want: decimal.RequireFromString(s)}
}

func (m decimalMatcher) Matches(x any) bool {
	d, ok := x.(*decimal.Decimal)
	return ok && d != nil && d.Equal(m.want)
}

func (m decimalMatcher) String() string { return "is decimal " + m.want.String() }

func dataList(t *testing.T, resp map[string]any) []map[string]any {
	t.Helper()
	raw, ok := resp["data"].([]any)
	require.True(t, ok, "data should be a list, got %T", resp["data"])
	out := make([]map[string]any, len(raw))
	for i, v := range raw {
		out[i] = v.(map[string]any)
	}
	return out
}

// Test PlaceBidHandler
func TestPlaceBidHandler(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	tests := []struct {
		name           string
		user           string
		requestBody    any
		mockSetup      func(m *MockBiddingServiceInterface)
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:        "success_valid_bid",
			user:        "user1",
			requestBody: `{"amount": 150}`,
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					PlaceBid(gomock.Any(), "auction1", "user1", decimalEq("150")).
					Return(model.Bid{
						BidID:     uuid.NewString(),
						AuctionID: "auction1",
						UserID:    "user1",
						Amount:    decimal.NewFromInt(150),
						CreatedAt: now,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid recorded successfully",
			validateData: func(t *testing.T, data map[string]any) {
				bidID := data["bid_id"].(string)
				_, parseErr := uuid.Parse(bidID)
				require.NoError(t, parseErr, "BidID should be a valid UUID")
				require.Equal(t, "auction1", data["auction_id"])
				require.Equal(t, "user1", data["user_id"])
				require.Equal(t, "150", data["amount"])
				require.Equal(t, now.Format(time.RFC3339), data["created_at"])
			},
		},
		{
			name:        "success_string_amount_keeps_cents",
			user:        "user1",
			requestBody: `{"amount": "100.10"}`,
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					PlaceBid(gomock.Any(), "auction1", "user1", decimalEq("100.10")).
					Return(model.Bid{BidID: uuid.NewString(), AuctionID: "auction1", UserID: "user1", Amount: decimal.RequireFromString("100.10"), CreatedAt: now}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid recorded successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, "100.1", data["amount"])
			},
		},
		{
			name:           "invalid_json",
			user:           "user1",
			requestBody:    `{invalid json}`,
			mockSetup:      func(m *MockBiddingServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "missing_amount_reaches_service_as_nil",
			user:        "user1",
			requestBody: `{}`,
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					PlaceBid(gomock.Any(), "auction1", "user1", gomock.Nil()).
					Return(model.Bid{}, fmt.Errorf("service: %w - missing bid amount", biddingerrors.ErrValidation))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request details",
		},
		{
			name:        "unauthenticated",
			requestBody: `{"amount": 10}`,
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					PlaceBid(gomock.Any(), "auction1", "", decimalEq("10")).
					Return(model.Bid{}, biddingerrors.ErrUnauthenticated)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "authentication required",
		},
		{
			name:        "service_bid_too_low",
			user:        "user1",
			requestBody: `{"amount": 50}`,
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					PlaceBid(gomock.Any(), "auction1", "user1", decimalEq("50")).
					Return(model.Bid{}, fmt.Errorf("service: %w", biddingerrors.ErrBidTooLow))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "bid amount too low",
		},
		{
			name:        "auction_ended",
			user:        "user1",
			requestBody: `{"amount": 500}`,
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					PlaceBid(gomock.Any(), "auction1", "user1", decimalEq("500")).
					Return(model.Bid{}, biddingerrors.ErrAuctionEnded)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "auction has ended",
		},
		{
			name:        "auction_not_started",
			user:        "user1",
			requestBody: `{"amount": 500}`,
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					PlaceBid(gomock.Any(), "auction1", "user1", decimalEq("500")).
					Return(model.Bid{}, biddingerrors.ErrAuctionNotStarted)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "auction has not started",
		},
		{
			name:        "owner_bid",
			user:        "seller",
			requestBody: `{"amount": 500}`,
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					PlaceBid(gomock.Any(), "auction1", "seller", decimalEq("500")).
					Return(model.Bid{}, biddingerrors.ErrOwnerBid)
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "sellers cannot bid on their own auction",
		},
		{
			name:        "auction_not_found",
			user:        "user1",
			requestBody: `{"amount": 500}`,
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					PlaceBid(gomock.Any(), "auction1", "user1", decimalEq("500")).
					Return(model.Bid{}, biddingerrors.ErrAuctionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "auction not found",
		},
		{
			name:        "service_generic_error",
			user:        "user1",
			requestBody: `{"amount": 100}`,
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					PlaceBid(gomock.Any(), "auction1", "user1", decimalEq("100")).
					Return(model.Bid{}, errors.New("database failure"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockService, router := newTestRouter(t)
			tc.mockSetup(mockService)

			w, resp := doRequest(t, router, http.MethodPost, "/auctions/auction1/bid", tc.user, tc.requestBody)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)

			if w.Code == http.StatusInternalServerError {
				require.NotContains(t, resp["error"], "database failure", "internal details must not leak")
			}
			if tc.validateData != nil && w.Code == http.StatusCreated {
				tc.validateData(t, resp["data"].(map[string]any))
			}
		})
	}
}

// Test GetBidsByAuctionHandler
func TestGetBidsByAuctionHandler(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	tests := []struct {
		name           string
		auctionID      string
		mockSetup      func(m *MockBiddingServiceInterface)
		expectedStatus int
		expectedMsg    string
		expectedLen    int
	}{
		{
			name:      "success_multiple_bids",
			auctionID: "auction1",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetBidsForAuction(gomock.Any(), "auction1").Return([]model.Bid{
					{BidID: uuid.NewString(), AuctionID: "auction1", UserID: "user2", Amount: decimal.NewFromInt(150), CreatedAt: now},
					{BidID: uuid.NewString(), AuctionID: "auction1", UserID: "user1", Amount: decimal.NewFromInt(100), CreatedAt: now},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bids retrieved successfully",
			expectedLen:    2,
		},
		{
			name:      "service_no_bids_error",
			auctionID: "auction2",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetBidsForAuction(gomock.Any(), "auction2").Return(nil, biddingerrors.ErrNoBids)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bids retrieved successfully",
			expectedLen:    0,
		},
		{
			name:      "service_nil_slice",
			auctionID: "auction3",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetBidsForAuction(gomock.Any(), "auction3").Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bids retrieved successfully",
			expectedLen:    0,
		},
		{
			name:      "auction_not_found",
			auctionID: "missing",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetBidsForAuction(gomock.Any(), "missing").Return(nil, biddingerrors.ErrAuctionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "auction not found",
		},
		{
			name:      "service_generic_error",
			auctionID: "auction4",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetBidsForAuction(gomock.Any(), "auction4").Return(nil, errors.New("database failure"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
		{
			name:      "extremely_large_number_of_bids",
			auctionID: "auction5",
			mockSetup: func(m *MockBiddingServiceInterface) {
				bids := make([]model.Bid, 1000)
				for i := range bids {
					bids[i] = model.Bid{
						BidID:     uuid.NewString(),
						AuctionID: "auction5",
						UserID:    fmt.Sprintf("user%d", i),
						Amount:    decimal.NewFromInt(int64(1000 - i)),
						CreatedAt: now,
					}
				}
				m.EXPECT().GetBidsForAuction(gomock.Any(), "auction5").Return(bids, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bids retrieved successfully",
			expectedLen:    1000,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockService, router := newTestRouter(t)
			tc.mockSetup(mockService)

			w, resp := doRequest(t, router, http.MethodGet, "/auctions/"+tc.auctionID+"/bids", "", nil)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
			if w.Code == http.StatusOK {
				require.Len(t, dataList(t, resp), tc.expectedLen)
			}
		})
	}
}

// Test GetWinningBidHandler
func TestGetWinningBidHandler(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	tests := []struct {
		name           string
		auctionID      string
		mockSetup      func(m *MockBiddingServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:      "success",
			auctionID: "auction1",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetWinningBid(gomock.Any(), "auction1").Return(model.Bid{
					BidID: uuid.NewString(), AuctionID: "auction1", UserID: "user2", Amount: decimal.NewFromInt(200), CreatedAt: now,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "winning bid retrieved successfully",
		},
		{
			name:      "no_bids",
			auctionID: "auction2",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetWinningBid(gomock.Any(), "auction2").Return(model.Bid{}, biddingerrors.ErrNoBids)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "no winning bid found",
		},
		{
			name:      "auction_not_found",
			auctionID: "auction3",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetWinningBid(gomock.Any(), "auction3").Return(model.Bid{}, biddingerrors.ErrAuctionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "auction not found",
		},
		{
			name:      "service_generic_error",
			auctionID: "auction4",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetWinningBid(gomock.Any(), "auction4").Return(model.Bid{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockService, router := newTestRouter(t)
			tc.mockSetup(mockService)

			w, resp := doRequest(t, router, http.MethodGet, "/auctions/"+tc.auctionID+"/winning", "", nil)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
			if w.Code == http.StatusOK {
				data := resp["data"].(map[string]any)
				require.Equal(t, "200", data["amount"])
				require.Equal(t, "user2", data["user_id"])
			}
		})
	}
}

// Test GetAuctionsByUserHandler
func TestGetAuctionsByUserHandler(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	tests := []struct {
		name           string
		userID         string
		mockSetup      func(m *MockBiddingServiceInterface)
		expectedStatus int
		expectedMsg    string
		expectedLen    int
	}{
		{
			name:   "success",
			userID: "user1",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetAuctionsByUser(gomock.Any(), "user1").Return([]model.Auction{
					{ID: "a1", Title: "Clock", StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)},
					{ID: "a2", Title: "Vase", StartTime: now.Add(-2 * time.Hour), EndTime: now.Add(-time.Hour)},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "auctions retrieved successfully",
			expectedLen:    2,
		},
		{
			name:   "user_without_bids",
			userID: "user2",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetAuctionsByUser(gomock.Any(), "user2").Return(nil, biddingerrors.ErrUserNoBids)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "auctions retrieved successfully",
			expectedLen:    0,
		},
		{
			name:   "service_generic_error",
			userID: "user3",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetAuctionsByUser(gomock.Any(), "user3").Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockService, router := newTestRouter(t)
			tc.mockSetup(mockService)

			w, resp := doRequest(t, router, http.MethodGet, "/users/"+tc.userID+"/auctions", "", nil)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
			if w.Code == http.StatusOK {
				data := dataList(t, resp)
				require.Len(t, data, tc.expectedLen)
				if tc.expectedLen == 2 {
					require.Equal(t, string(model.StatusOpen), data[0]["status"])
					require.Equal(t, string(model.StatusClosed), data[1]["status"])
				}
			}
		})
	}
}

func TestListAuctionsHandler(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	t.Run("category_filter_passed_through", func(t *testing.T) {
		t.Parallel()
		mockService, router := newTestRouter(t)
		mockService.EXPECT().ListAuctions(gomock.Any(), "clocks").Return([]model.Auction{{
			ID:          "a1",
			Title:       "Longcase clock",
			OwnerID:     "seller",
			StartingBid: decimal.NewFromInt(100),
			StartTime:   now.Add(-time.Hour),
			EndTime:     now.Add(time.Hour),
			Bids:        []model.Bid{{BidID: "b1", AuctionID: "a1", UserID: "u1", Amount: decimal.NewFromInt(125)}},
		}}, nil)

		w, resp := doRequest(t, router, http.MethodGet, "/auctions?category=clocks", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := dataList(t, resp)
		require.Len(t, data, 1)
		require.Equal(t, "125", data[0]["current_bid"])
		require.Equal(t, "open", data[0]["status"])
		require.Equal(t, "seller", data[0]["owner"].(map[string]any)["user_id"])
	})

	t.Run("no_auctions_is_empty_list", func(t *testing.T) {
		t.Parallel()
		mockService, router := newTestRouter(t)
		mockService.EXPECT().ListAuctions(gomock.Any(), "").Return(nil, nil)

		w, resp := doRequest(t, router, http.MethodGet, "/auctions", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		require.Empty(t, dataList(t, resp))
	})

	t.Run("repository_failure", func(t *testing.T) {
		t.Parallel()
		mockService, router := newTestRouter(t)
		mockService.EXPECT().ListAuctions(gomock.Any(), "").Return(nil, errors.New("db down"))

		w, resp := doRequest(t, router, http.MethodGet, "/auctions", "", nil)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Equal(t, "internal server error", resp["message"])
	})
}

func TestGetActiveAuctionsHandler(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	mockService, router := newTestRouter(t)
	mockService.EXPECT().GetActiveAuctions(gomock.Any()).Return([]model.Auction{
		{ID: "a1", StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)},
		{ID: "a2", StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)},
	}, nil)

	w, resp := doRequest(t, router, http.MethodGet, "/auctions/active", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, resp["message"], "active auctions retrieved successfully")
	data := dataList(t, resp)
	require.Len(t, data, 2)
	require.Equal(t, "open", data[0]["status"])
	require.Equal(t, "pending", data[1]["status"])
	_, hasBid := data[0]["current_bid"]
	require.False(t, hasBid, "auctions without bids carry no current_bid")
}

func TestGetAuctionHandler(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	tests := []struct {
		name           string
		auctionID      string
		mockSetup      func(m *MockBiddingServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:      "success_with_history",
			auctionID: "a1",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetAuction(gomock.Any(), "a1").Return(model.Auction{
					ID:        "a1",
					StartTime: now.Add(-time.Hour),
					EndTime:   now.Add(time.Hour),
					Bids: []model.Bid{
						{BidID: "b2", Amount: decimal.NewFromInt(300)},
						{BidID: "b1", Amount: decimal.NewFromInt(200)},
					},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "auction retrieved successfully",
		},
		{
			name:      "not_found",
			auctionID: "missing",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetAuction(gomock.Any(), "missing").Return(model.Auction{}, biddingerrors.ErrAuctionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "auction not found",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			mockService, router := newTestRouter(t)
			tc.mockSetup(mockService)

			w, resp := doRequest(t, router, http.MethodGet, "/auctions/"+tc.auctionID, "", nil)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
			if w.Code == http.StatusOK {
				data := resp["data"].(map[string]any)
				require.Equal(t, "300", data["current_bid"])
				require.Len(t, data["bids"].([]any), 2)
			}
		})
	}
}

func TestCreateAuctionHandler(t *testing.T) {
	t.Parallel()
	start := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)

	validBody := fmt.Sprintf(`{
		"title": "Regency mirror",
		"description": "Gilt wood",
		"starting_bid": "250.00",
		"start_time": %q,
		"end_time": %q,
		"category_id": "cat1",
		"images": [{"key": "img/1.jpg", "url": "https://cdn.example/img/1.jpg"}]
	}`, start.Format(time.RFC3339), end.Format(time.RFC3339))

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mockService, router := newTestRouter(t)
		mockService.EXPECT().
			CreateAuction(gomock.Any(), "seller", gomock.Any()).
			DoAndReturn(func(_ context.Context, owner string, in bidding.NewAuction) (model.Auction, error) {
				require.Equal(t, "Regency mirror", in.Title)
				require.True(t, in.StartingBid.Equal(decimal.NewFromInt(250)))
				require.True(t, in.StartTime.Equal(start))
				require.True(t, in.EndTime.Equal(end))
				require.Equal(t, []bidding.NewImage{{Key: "img/1.jpg", URL: "https://cdn.example/img/1.jpg"}}, in.Images)
				return model.Auction{
					ID:          "a1",
					Title:       in.Title,
					OwnerID:     owner,
					StartingBid: *in.StartingBid,
					StartTime:   *in.StartTime,
					EndTime:     *in.EndTime,
				}, nil
			})

		w, resp := doRequest(t, router, http.MethodPost, "/auctions", "seller", validBody)

		require.Equal(t, http.StatusCreated, w.Code)
		data := resp["data"].(map[string]any)
		require.Equal(t, "a1", data["id"])
		require.Equal(t, "pending", data["status"])
		require.Equal(t, "250", data["starting_bid"])
	})

	t.Run("invalid_json", func(t *testing.T) {
		t.Parallel()
		_, router := newTestRouter(t)

		w, resp := doRequest(t, router, http.MethodPost, "/auctions", "seller", `{"title":`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "invalid request payload", resp["message"])
	})

	t.Run("validation_error", func(t *testing.T) {
		t.Parallel()
		mockService, router := newTestRouter(t)
		mockService.EXPECT().
			CreateAuction(gomock.Any(), "seller", gomock.Any()).
			Return(model.Auction{}, fmt.Errorf("service: %w - missing required fields: title", biddingerrors.ErrValidation))

		w, resp := doRequest(t, router, http.MethodPost, "/auctions", "seller", `{}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, resp["error"], "title")
	})

	t.Run("unknown_category", func(t *testing.T) {
		t.Parallel()
		mockService, router := newTestRouter(t)
		mockService.EXPECT().
			CreateAuction(gomock.Any(), "seller", gomock.Any()).
			Return(model.Auction{}, biddingerrors.ErrCategoryNotFound)

		w, resp := doRequest(t, router, http.MethodPost, "/auctions", "seller", validBody)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "category not found", resp["message"])
	})
}

func TestDeleteAuctionHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		user           string
		serviceErr     error
		expectedStatus int
		expectedMsg    string
	}{
		{name: "success", user: "seller", expectedStatus: http.StatusOK, expectedMsg: "auction deleted successfully"},
		{name: "not_owner", user: "other", serviceErr: biddingerrors.ErrForbidden, expectedStatus: http.StatusForbidden, expectedMsg: "operation not permitted"},
		{name: "not_found", user: "seller", serviceErr: biddingerrors.ErrAuctionNotFound, expectedStatus: http.StatusNotFound, expectedMsg: "auction not found"},
		{name: "unauthenticated", serviceErr: biddingerrors.ErrUnauthenticated, expectedStatus: http.StatusUnauthorized, expectedMsg: "authentication required"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			mockService, router := newTestRouter(t)
			mockService.EXPECT().DeleteAuction(gomock.Any(), tc.user, "a1").Return(tc.serviceErr)

			w, resp := doRequest(t, router, http.MethodDelete, "/auctions/a1", tc.user, nil)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
		})
	}
}

func TestAddCommentHandler(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mockService, router := newTestRouter(t)
		mockService.EXPECT().
			AddComment(gomock.Any(), "user1", "a1", "Is the case original?").
			Return(model.Comment{ID: "c1", AuctionID: "a1", UserID: "user1", Body: "Is the case original?", CreatedAt: now}, nil)

		w, resp := doRequest(t, router, http.MethodPost, "/auctions/a1/comments", "user1", helpers.CommentRequest{Body: "Is the case original?"})

		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, "c1", resp["data"].(map[string]any)["id"])
	})

	t.Run("missing_body", func(t *testing.T) {
		t.Parallel()
		_, router := newTestRouter(t)

		w, resp := doRequest(t, router, http.MethodPost, "/auctions/a1/comments", "user1", `{}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "invalid request payload", resp["message"])
	})

	t.Run("auction_not_found", func(t *testing.T) {
		t.Parallel()
		mockService, router := newTestRouter(t)
		mockService.EXPECT().
			AddComment(gomock.Any(), "user1", "gone", "hello").
			Return(model.Comment{}, biddingerrors.ErrAuctionNotFound)

		w, _ := doRequest(t, router, http.MethodPost, "/auctions/gone/comments", "user1", helpers.CommentRequest{Body: "hello"})

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCategoryHandlers(t *testing.T) {
	t.Parallel()

	t.Run("list", func(t *testing.T) {
		t.Parallel()
		mockService, router := newTestRouter(t)
		mockService.EXPECT().ListCategories(gomock.Any()).Return([]model.Category{{ID: "c1", Name: "Clocks"}}, nil)

		w, resp := doRequest(t, router, http.MethodGet, "/categories", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := dataList(t, resp)
		require.Len(t, data, 1)
		require.Equal(t, "Clocks", data[0]["name"])
	})

	t.Run("list_empty", func(t *testing.T) {
		t.Parallel()
		mockService, router := newTestRouter(t)
		mockService.EXPECT().ListCategories(gomock.Any()).Return(nil, nil)

		w, resp := doRequest(t, router, http.MethodGet, "/categories", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		require.Empty(t, dataList(t, resp))
	})

	t.Run("create", func(t *testing.T) {
		t.Parallel()
		mockService, router := newTestRouter(t)
		mockService.EXPECT().
			CreateCategory(gomock.Any(), "admin", "Silver").
			Return(model.Category{ID: "c2", Name: "Silver"}, nil)

		w, resp := doRequest(t, router, http.MethodPost, "/categories", "admin", helpers.CategoryRequest{Name: "Silver"})

		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, "c2", resp["data"].(map[string]any)["id"])
	})

	t.Run("create_duplicate", func(t *testing.T) {
		t.Parallel()
		mockService, router := newTestRouter(t)
		mockService.EXPECT().
			CreateCategory(gomock.Any(), "admin", "Silver").
			Return(model.Category{}, fmt.Errorf("%w - category already exists", biddingerrors.ErrValidation))

		w, _ := doRequest(t, router, http.MethodPost, "/categories", "admin", helpers.CategoryRequest{Name: "Silver"})

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}
