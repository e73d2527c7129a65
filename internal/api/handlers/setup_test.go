package handlers_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Mboiraai/rork-automarketconnect/internal/api"
	"github.com/Mboiraai/rork-automarketconnect/internal/config"
	"github.com/Mboiraai/rork-automarketconnect/internal/models"
	"github.com/Mboiraai/rork-automarketconnect/internal/seed"
	"github.com/Mboiraai/rork-automarketconnect/internal/services"
	"github.com/Mboiraai/rork-automarketconnect/internal/storage"
)

// newTestRouter spins up the real router over a store seeded with the demo
// dataset and file-backed persistence in a temp dir. current overrides the
// seed's demo user when non-nil.
func newTestRouter(t *testing.T, current *models.User) (*gin.Engine, services.IMarketplaceStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kv, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	persister := services.NewQueuedPersister(kv, slog.Default())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = persister.Stop(ctx)
	})

	if current == nil {
		u := seed.CurrentUser()
		current = &u
	}
	store := services.NewMarketplaceStore(services.StoreSeed{
		CurrentUser:   current,
		Users:         seed.Users(),
		Listings:      append(seed.CarListings(), seed.PartListings()...),
		Conversations: seed.Conversations(),
		Messages:      seed.Messages(),
	}, kv, persister, slog.Default())

	cfg := &config.Config{
		RateLimitSoftBucketSize: 100,
		RateLimitSoftRefillRate: 100,
		RateLimitHardBucketSize: 100,
		RateLimitHardRefillRate: 100,
	}
	r := api.SetupRouter(cfg, store, nil, nil, nil, slog.Default())
	return r, store
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
