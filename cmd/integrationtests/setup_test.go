package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"auction-house/internal/auth"
	bidding "auction-house/internal/biddingService"
	"auction-house/internal/cache"
	model "auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("integration-secret")

// testEnv bundles a fully wired router with its backing repository
type testEnv struct {
	router *gin.Engine
	repo   *repository.MemoryRepo
	active *cache.ActiveAuctions
}

// SetupTestRouter wires the real service, snapshot cache and router over an in-memory
// repository holding the "cat1" category and the given auctions.
func SetupTestRouter(t *testing.T, auctions ...model.Auction) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	repo := repository.NewMemoryRepo()
	require.NoError(t, repo.CreateCategory(ctx, &model.Category{ID: "cat1", Name: "Clocks"}))
	for _, a := range auctions {
		repo.AddAuction(a)
	}

	active := cache.NewActiveAuctions(cache.NewMemoryStore(), repo, nil)
	require.NoError(t, active.Rebuild(ctx))

	service := bidding.NewBiddingService(repo, bidding.WithActiveCache(active))
	return &testEnv{router: server.SetupRouter(service, testSecret), repo: repo, active: active}
}

// OpenAuction is an auction that started an hour ago and ends in a day
func OpenAuction(id, owner string, startingBid int64) model.Auction {
	now := time.Now().UTC()
	return model.Auction{
		ID:          id,
		Title:       "title " + id,
		Description: "description " + id,
		StartingBid: decimal.NewFromInt(startingBid),
		StartTime:   now.Add(-time.Hour),
		EndTime:     now.Add(24 * time.Hour),
		OwnerID:     owner,
		CategoryID:  "cat1",
	}
}

// Token signs a bearer token for userID
func Token(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

// ExecuteRequestAndParse executes an HTTP request as userID (anonymous when empty) and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url, userID string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		require.NoError(t, err, "failed to marshal body")
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+Token(t, userID))
	}
	router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "failed to unmarshal response")
	}
	return resp, w
}

// PlaceBid posts amount as userID and returns the status code
func PlaceBid(t *testing.T, router *gin.Engine, auctionID, userID, amount string) int {
	t.Helper()
	_, w := ExecuteRequestAndParse(t, router, "POST", "/auctions/"+auctionID+"/bid", userID, `{"amount": "`+amount+`"}`)
	return w.Code
}

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
