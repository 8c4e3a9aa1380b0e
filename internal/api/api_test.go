package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/commander-tracker/internal/api"
	"github.com/mcoot/commander-tracker/internal/api/apierr"
	"github.com/mcoot/commander-tracker/internal/api/response"
	"github.com/mcoot/commander-tracker/internal/factory"
	"github.com/mcoot/commander-tracker/internal/testutil/scryfalltest"
)

// testServer wires the API router to an in-memory app and a fake card database
type testServer struct {
	handler  http.Handler
	app      *factory.TestApp
	scryfall *scryfalltest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	scryfall := scryfalltest.NewServer(
		scryfalltest.Commander("Atraxa, Praetors' Voice"),
		scryfalltest.Commander("Atraxa, Grand Unifier"),
		scryfalltest.NonCommander("Counterspell"),
	)
	t.Cleanup(scryfall.Close)

	app := factory.NewTestAppWithCards(scryfall.Config())
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:           app.Logger,
		GameController:   app.GameController,
		CommanderService: app.CommanderService,
		CardClient:       app.CardClient,
	})

	return &testServer{handler: router, app: app, scryfall: scryfall}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) createGame(t *testing.T, players int) response.Game {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]int{"player_count": players})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[response.Game](t, rr)
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[apierr.ErrorResponse](t, rr).Error.Code
}

func compact(t *testing.T, body []byte) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.Compact(&buf, body))
	return buf.String()
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestCreateGame(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockRandom.QueueString("TABLE001")

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]int{"player_count": 3})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "/api/v1/games/TABLE001", rr.Header().Get("Location"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	g := decode[response.Game](t, rr)

	assert.Equal(t, "TABLE001", g.ID)
	require.Len(t, g.Players, 3)
	assert.Equal(t, "Player 1", g.Players[0].Name)
	assert.Equal(t, 40, g.Players[0].Life)
	assert.Equal(t, 1, g.ActivePlayer)
	assert.Equal(t, 1, g.TurnNumber)
	assert.True(t, g.Started)
}

func TestCreateGameInvalidPlayerCount(t *testing.T) {
	ts := newTestServer(t)

	for _, n := range []int{0, 1, 5} {
		rr := ts.request(http.MethodPost, "/api/v1/games", map[string]int{"player_count": n})
		assert.Equal(t, http.StatusBadRequest, rr.Code, "player_count %d", n)
		assert.Equal(t, apierr.CodeInvalidPlayerCount, errorCode(t, rr))
	}

	rr := ts.request(http.MethodPost, "/api/v1/games", "not an object")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
}

func TestListGetAndDeleteGame(t *testing.T) {
	ts := newTestServer(t)
	g := ts.createGame(t, 2)

	rr := ts.request(http.MethodGet, "/api/v1/games", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[response.GameList](t, rr)
	require.Len(t, list.Games, 1)
	assert.Equal(t, g.ID, list.Games[0].ID)
	assert.Equal(t, 2, list.Games[0].PlayerCount)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, g.ID, decode[response.Game](t, rr).ID)

	rr = ts.request(http.MethodDelete, "/api/v1/games/"+g.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeGameNotFound, errorCode(t, rr))

	rr = ts.request(http.MethodDelete, "/api/v1/games/"+g.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLifeSetAndAdjust(t *testing.T) {
	ts := newTestServer(t)
	g := ts.createGame(t, 4)
	path := "/api/v1/games/" + g.ID + "/life"

	rr := ts.request(http.MethodPost, path, map[string]any{"player_id": 2, "delta": -7})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 33, decode[response.Game](t, rr).Players[1].Life)

	rr = ts.request(http.MethodPost, path, map[string]any{"player_id": 2, "value": 50})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 50, decode[response.Game](t, rr).Players[1].Life)

	// Life may go negative; the game does not decide who has lost on life
	rr = ts.request(http.MethodPost, path, map[string]any{"player_id": 3, "value": -3})
	require.Equal(t, http.StatusOK, rr.Code)
	p := decode[response.Game](t, rr).Players[2]
	assert.Equal(t, -3, p.Life)
	assert.False(t, p.HasLost)
}

func TestCounterRequiresExactlyOneOfValueAndDelta(t *testing.T) {
	ts := newTestServer(t)
	g := ts.createGame(t, 2)

	tests := []struct {
		name string
		path string
		body any
	}{
		{"life neither", "/life", map[string]any{"player_id": 1}},
		{"life both", "/life", map[string]any{"player_id": 1, "value": 1, "delta": 1}},
		{"poison neither", "/poison", map[string]any{"player_id": 1}},
		{"damage both", "/commander-damage", map[string]any{"player_id": 1, "opponent_id": 2, "value": 1, "delta": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/games/"+g.ID+tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
		})
	}
}

func TestUnknownPlayerLeavesGameUnchanged(t *testing.T) {
	ts := newTestServer(t)
	g := ts.createGame(t, 2)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/life", map[string]any{"player_id": 9, "delta": -5})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodePlayerNotFound, errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID+"/log", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	for _, e := range decode[response.Log](t, rr).Entries {
		assert.NotEqual(t, "life_change", e.Kind)
	}
}

func TestPoisonClampsAndFlags(t *testing.T) {
	ts := newTestServer(t)
	g := ts.createGame(t, 2)
	path := "/api/v1/games/" + g.ID + "/poison"

	rr := ts.request(http.MethodPost, path, map[string]any{"player_id": 1, "delta": -3})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, decode[response.Game](t, rr).Players[0].PoisonCounters)

	rr = ts.request(http.MethodPost, path, map[string]any{"player_id": 1, "value": 10})
	require.Equal(t, http.StatusOK, rr.Code)
	p := decode[response.Game](t, rr).Players[0]
	assert.Equal(t, 10, p.PoisonCounters)
	assert.True(t, p.IsPoisoned)
	assert.True(t, p.HasLost)
}

func TestCommanderDamage(t *testing.T) {
	ts := newTestServer(t)
	g := ts.createGame(t, 3)
	path := "/api/v1/games/" + g.ID + "/commander-damage"

	rr := ts.request(http.MethodPost, path, map[string]any{"player_id": 1, "opponent_id": 2, "value": 21})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	p := decode[response.Game](t, rr).Players[0]
	assert.Equal(t, 21, p.CommanderDamage[2])
	assert.Equal(t, []int{2}, p.LethalCommanderDamage)
	assert.True(t, p.HasLost)
	assert.Equal(t, 40, p.Life, "commander damage is tracked separately from life")

	rr = ts.request(http.MethodPost, path, map[string]any{"player_id": 1, "opponent_id": 3, "delta": -4})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, decode[response.Game](t, rr).Players[0].CommanderDamage[3])

	rr = ts.request(http.MethodPost, path, map[string]any{"player_id": 1, "opponent_id": 1, "delta": 1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeSelfCommanderDamage, errorCode(t, rr))

	rr = ts.request(http.MethodPost, path, map[string]any{"player_id": 1, "opponent_id": 7, "delta": 1})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTurnControls(t *testing.T) {
	ts := newTestServer(t)
	g := ts.createGame(t, 3)
	base := "/api/v1/games/" + g.ID

	for i := 0; i < 3; i++ {
		rr := ts.request(http.MethodPost, base+"/turn", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		g = decode[response.Game](t, rr)
	}
	assert.Equal(t, 1, g.ActivePlayer)
	assert.Equal(t, 2, g.TurnNumber)

	rr := ts.request(http.MethodPost, base+"/turn/previous", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	g = decode[response.Game](t, rr)
	assert.Equal(t, 3, g.ActivePlayer)
	assert.Equal(t, 2, g.TurnNumber, "going back never rewinds the turn number")
}

func TestStartEndAndReset(t *testing.T) {
	ts := newTestServer(t)
	g := ts.createGame(t, 4)
	base := "/api/v1/games/" + g.ID

	ts.request(http.MethodPost, base+"/life", map[string]any{"player_id": 1, "delta": -10})

	rr := ts.request(http.MethodPost, base+"/end", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotNil(t, decode[response.Game](t, rr).EndedAt)

	rr = ts.request(http.MethodPost, base+"/start", map[string]int{"player_count": 2})
	require.Equal(t, http.StatusOK, rr.Code)
	g = decode[response.Game](t, rr)
	assert.Len(t, g.Players, 2)
	assert.Nil(t, g.EndedAt)
	assert.Equal(t, 40, g.Players[0].Life)

	rr = ts.request(http.MethodPost, base+"/start", map[string]int{"player_count": 6})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	g = decode[response.Game](t, rr)
	assert.Empty(t, g.Players)
	assert.False(t, g.Started)

	rr = ts.request(http.MethodPost, base+"/turn", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNoPlayers, errorCode(t, rr))
}

func TestGameLog(t *testing.T) {
	ts := newTestServer(t)
	g := ts.createGame(t, 2)
	base := "/api/v1/games/" + g.ID

	ts.request(http.MethodPost, base+"/life", map[string]any{"player_id": 2, "delta": -7})
	ts.request(http.MethodPost, base+"/turn", nil)

	rr := ts.request(http.MethodGet, base+"/log", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	log := decode[response.Log](t, rr)
	assert.Equal(t, g.ID, log.GameID)
	require.GreaterOrEqual(t, len(log.Entries), 2)

	last := log.Entries[len(log.Entries)-1]
	assert.Equal(t, "turn_change", last.Kind)
	assert.Equal(t, "Turn 1: Player 2's turn", last.Details)

	life := log.Entries[len(log.Entries)-2]
	assert.Equal(t, "life_change", life.Kind)
	assert.Equal(t, "Player 2 lost 7 life", life.Details)
	require.NotNil(t, life.Value)
	assert.Equal(t, -7, *life.Value)
}

func TestAssignCommander(t *testing.T) {
	ts := newTestServer(t)
	g := ts.createGame(t, 2)
	path := "/api/v1/games/" + g.ID + "/players/1/commanders/partner"

	rr := ts.request(http.MethodPut, path, map[string]string{"name": "Thrasios", "image": "https://img.example/t.jpg"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	c := decode[response.Game](t, rr).Players[0].Commanders
	assert.Nil(t, c.Main)
	require.NotNil(t, c.Partner)
	assert.Equal(t, "Thrasios", c.Partner.Name)

	rr = ts.request(http.MethodPut, "/api/v1/games/"+g.ID+"/players/1/commanders/sideboard", map[string]string{"name": "X"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidSlot, errorCode(t, rr))

	rr = ts.request(http.MethodPut, path, map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPut, "/api/v1/games/"+g.ID+"/players/5/commanders/main", map[string]string{"name": "X"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestResolveCommander(t *testing.T) {
	ts := newTestServer(t)
	g := ts.createGame(t, 2)
	path := "/api/v1/games/" + g.ID + "/players/2/commanders/main/resolve"

	rr := ts.request(http.MethodPost, path, map[string]string{"name": "Atraxa, Praetors' Voice"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	main := decode[response.Game](t, rr).Players[1].Commanders.Main
	require.NotNil(t, main)
	assert.Equal(t, "Atraxa, Praetors' Voice", main.Name)
	assert.Equal(t, "https://img.example/art/atraxa,-praetors'-voice.jpg", main.Image)

	rr = ts.request(http.MethodPost, path, map[string]string{"name": "Counterspell"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, apierr.CodeNotACommander, errorCode(t, rr))

	rr = ts.request(http.MethodPost, path, map[string]string{"name": "No Such Card"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeCardNotFound, errorCode(t, rr))

	ts.scryfall.SetFailing(true)
	rr = ts.request(http.MethodPost, path, map[string]string{"name": "Atraxa, Grand Unifier"})
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, apierr.CodeUpstreamError, errorCode(t, rr))
}

func TestResolveCommanderUnknownGameSkipsLookup(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/games/NOPE/players/1/commanders/main/resolve",
		map[string]string{"name": "Atraxa, Praetors' Voice"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, ts.scryfall.Requests())
}

func TestCardsAutocomplete(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/cards/autocomplete?q=atra", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.ElementsMatch(t, []string{"Atraxa, Praetors' Voice", "Atraxa, Grand Unifier"}, decode[response.Autocomplete](t, rr).Data)

	// Short queries never reach the card database
	rr = ts.request(http.MethodGet, "/api/v1/cards/autocomplete?q=at", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[response.Autocomplete](t, rr).Data)
	assert.Len(t, ts.scryfall.Requests(), 1)

	// Failures degrade to no suggestions
	ts.scryfall.SetFailing(true)
	rr = ts.request(http.MethodGet, "/api/v1/cards/autocomplete?q=atra", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"data":[]}`, compact(t, rr.Body.Bytes()))
}

func TestCardsNamed(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		status string
	}{
		{"found", "Atraxa, Grand Unifier", "found"},
		{"ineligible", "Counterspell", "ineligible"},
		{"not found", "Nothing Like It", "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodGet, "/api/v1/cards/named?exact="+url.QueryEscape(tt.query), nil)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			resolved := decode[response.ResolvedCard](t, rr)
			assert.Equal(t, tt.status, resolved.Status)
			assert.NotEmpty(t, resolved.ArtworkURL)
		})
	}

	rr := ts.request(http.MethodGet, "/api/v1/cards/named", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	ts.scryfall.SetFailing(true)
	rr = ts.request(http.MethodGet, "/api/v1/cards/named?exact=Counterspell", nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestCardsSearch(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/cards/search?q=atraxa", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	result := decode[response.SearchResult](t, rr)
	assert.Equal(t, 2, result.TotalCards)
	assert.Len(t, result.Data, 2)

	rr = ts.request(http.MethodGet, "/api/v1/cards/search", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCommanderCache(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/commanders?name=Kenrith", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeCommanderNotCached, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/commanders", map[string]string{"name": "Kenrith", "type_line": "Legendary Creature"})
	require.Equal(t, http.StatusCreated, rr.Code)
	saved := decode[response.CommanderCard](t, rr)
	assert.NotEmpty(t, saved.ArtworkURL, "missing artwork falls back to the placeholder")
	assert.True(t, ts.app.MockClock.Now().Equal(saved.CachedAt))

	rr = ts.request(http.MethodGet, "/api/v1/commanders?name=Kenrith", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Legendary Creature", decode[response.CommanderCard](t, rr).TypeLine)

	rr = ts.request(http.MethodPost, "/api/v1/commanders", map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/commanders", map[string]string{"name": "Llanowar Elves", "type_line": "Creature — Elf Druid"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, apierr.CodeNotACommander, errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/commanders", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCommanderCacheResolve(t *testing.T) {
	ts := newTestServer(t)
	path := "/api/v1/commanders?resolve=true&name=" + url.QueryEscape("Atraxa, Grand Unifier")

	rr := ts.request(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Atraxa, Grand Unifier", decode[response.CommanderCard](t, rr).Name)

	rr = ts.request(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, ts.scryfall.Requests(), 1, "second resolve is served from the cache")
}

func TestLegacyPaths(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/game", map[string]int{"player_count": 2})
	require.Equal(t, http.StatusCreated, rr.Code)
	g := decode[response.Game](t, rr)

	rr = ts.request(http.MethodGet, "/api/game?id="+g.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, g.ID, decode[response.Game](t, rr).ID)

	rr = ts.request(http.MethodPost, "/api/commanders", map[string]string{"name": "Kenrith", "type_line": "Legendary Creature"})
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = ts.request(http.MethodGet, "/api/commanders?name=Kenrith", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/game?id="+g.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = ts.request(http.MethodGet, "/api/game?id="+g.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
