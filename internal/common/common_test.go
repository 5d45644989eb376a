package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"route-vending/tablegrid/internal/models/dtos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedLayout struct {
	Order []string `json:"order"`
}

func TestCacheService_GetIntoCopies(t *testing.T) {
	c := NewCacheService(time.Minute, time.Minute)
	original := cachedLayout{Order: []string{"a", "b"}}
	c.Set("k", original, time.Minute)

	var got cachedLayout
	require.True(t, c.GetInto("k", &got))
	assert.Equal(t, original, got)

	got.Order[0] = "mutated"
	var again cachedLayout
	require.True(t, c.GetInto("k", &again))
	assert.Equal(t, "a", again.Order[0])

	assert.False(t, c.GetInto("missing", &got))
}

func TestCacheService_DeletePrefix(t *testing.T) {
	c := NewCacheService(time.Minute, time.Minute)
	c.Set("VIEW_a", 1, time.Minute)
	c.Set("VIEW_b", 2, time.Minute)
	c.Set("LAYOUT_a", 3, time.Minute)

	c.DeletePrefix("VIEW_")

	_, found := c.Get("VIEW_a")
	assert.False(t, found)
	_, found = c.Get("LAYOUT_a")
	assert.True(t, found)
}

func TestCacheService_GetOrSet(t *testing.T) {
	c := NewCacheService(time.Minute, time.Minute)
	calls := 0
	loader := func() (any, error) {
		calls++
		return "v", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrSet("k", time.Minute, loader)
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	}
	assert.Equal(t, 1, calls)

	_, err := c.GetOrSet("bad", time.Minute, func() (any, error) { return nil, fmt.Errorf("boom") })
	assert.Error(t, err)
}

func TestNotificationFeed(t *testing.T) {
	feed := NewNotificationFeed(3)
	assert.Empty(t, feed.List(0))

	for i := 1; i <= 5; i++ {
		feed.Push(NotificationError, fmt.Sprintf("n%d", i))
	}

	got := feed.List(0)
	require.Len(t, got, 3)
	assert.Equal(t, "n5", got[0].Message)
	assert.Equal(t, "n3", got[2].Message)

	assert.Len(t, feed.List(2), 2)
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"SL 1", "KL 3", "Daily"}, SplitCSV([]string{"SL 1, KL 3", " ", "Daily"}))
	assert.Nil(t, SplitCSV(nil))
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestRespondError_UsesErrorText(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, time.Now(), errors.New("route is required"), "Invalid data", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Header().Get(HeaderResponseTime))

	body := decodeEnvelope(t, rr)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "route is required", body["message"])
	assert.NotContains(t, body, "data")
}

func TestRespondInternalError_HidesCause(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondInternalError(rr, time.Now(), errors.New("pq: connection refused"), "Failed to update row")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeEnvelope(t, rr)
	assert.Equal(t, "Failed to update row", body["message"])
	assert.NotContains(t, rr.Body.String(), "connection refused")
}

func TestRespondPending_EchoesKey(t *testing.T) {
	started := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	rr := httptest.NewRecorder()
	RespondPending(rr, time.Now(), dtos.PendingMutation{
		Operation: "update_row",
		TargetID:  "row-1",
		StartedAt: started,
	})

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "update_row", rr.Header().Get(HeaderPendingOp))
	assert.Equal(t, "row-1", rr.Header().Get(HeaderPendingTarget))

	var env struct {
		Status  string               `json:"status"`
		Message string               `json:"message"`
		Data    dtos.PendingMutation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "ok", env.Status)
	assert.Equal(t, MsgMutationDispatched, env.Message)
	assert.Equal(t, "row-1", env.Data.TargetID)
	assert.True(t, started.Equal(env.Data.StartedAt))
}
