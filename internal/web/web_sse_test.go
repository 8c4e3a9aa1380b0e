package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/commander-tracker/internal/model"
)

// stream opens the event stream for path and returns the body once ctx expires.
// During is called after the client has registered with the hub.
func (ts *webTestServer) stream(path string, id model.GameID, during func()) *httptest.ResponseRecorder {
	ts.t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(ctx)
	rr := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		ts.handler.ServeHTTP(rr, req)
		close(done)
	}()

	if during != nil {
		require.Eventually(ts.t, func() bool {
			hub := ts.app.HubManager.GetHub(id)
			return hub != nil && hub.ClientCount() == 1
		}, time.Second, 5*time.Millisecond)
		during()
	}
	<-done
	return rr
}

func TestSSE_EndpointHeaders(t *testing.T) {
	ts := newWebTestServer(t)
	path := ts.createGame(2)

	rr := ts.stream(path+"/events", "", nil)

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rr.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rr.Header().Get("Connection"))
	assert.Equal(t, "no", rr.Header().Get("X-Accel-Buffering"))
}

func TestSSE_InitialEvents(t *testing.T) {
	ts := newWebTestServer(t)
	path := ts.createGame(2)

	body := ts.stream(path+"/events", "", nil).Body.String()

	assert.Contains(t, body, "retry: 3000")
	assert.Contains(t, body, "event: connected")
	assert.Contains(t, body, `data: {"status":"connected"}`)
	assert.Contains(t, body, "event: game-update")
	assert.Contains(t, body, "event: log-update")
	assert.Contains(t, body, "event: state")
	assert.Less(t, strings.Index(body, "event: connected"), strings.Index(body, "event: game-update"))
}

func TestSSE_UnknownGame(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/games/MISSING1/events")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Nil(t, ts.app.HubManager.GetHub("MISSING1"))
}

func TestSSE_ReceivesLiveUpdates(t *testing.T) {
	ts := newWebTestServer(t)
	path := ts.createGame(2)
	id := model.GameID(strings.TrimPrefix(path, "/games/"))

	body := ts.stream(path+"/events", id, func() {
		_, err := ts.app.GameController.AdjustLife(t.Context(), id, 2, -13)
		require.NoError(t, err)
	}).Body.String()

	assert.Contains(t, body, `<span class="life">27</span>`)
	assert.Contains(t, body, "Player 2 lost 13 life")
	assert.Contains(t, body, `"life":27`)
}

func TestSSE_FormActionReachesOtherViewers(t *testing.T) {
	ts := newWebTestServer(t)
	path := ts.createGame(3)
	id := model.GameID(strings.TrimPrefix(path, "/games/"))

	body := ts.stream(path+"/events", id, func() {
		ts.postHTMX(path+"/turn", nil)
	}).Body.String()

	assert.Contains(t, body, "Turn 1: Player 2&#39;s turn")
}

func TestSSE_DeletingGameClosesStream(t *testing.T) {
	ts := newWebTestServer(t)
	path := ts.createGame(2)
	id := model.GameID(strings.TrimPrefix(path, "/games/"))

	start := time.Now()
	body := ts.stream(path+"/events", id, func() {
		require.NoError(t, ts.app.GameController.DeleteGame(t.Context(), id))
	}).Body.String()

	assert.Less(t, time.Since(start), 250*time.Millisecond, "stream should end before the request times out")
	assert.Contains(t, body, "event: deleted")
	assert.Nil(t, ts.app.HubManager.GetHub(id))
}
