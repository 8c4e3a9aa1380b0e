package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/commander-tracker/internal/factory"
	"github.com/mcoot/commander-tracker/internal/testutil"
	"github.com/mcoot/commander-tracker/internal/testutil/scryfalltest"
	"github.com/mcoot/commander-tracker/internal/web"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t        *testing.T
	handler  http.Handler
	app      *factory.TestApp
	scryfall *scryfalltest.Server
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	scryfall := scryfalltest.NewServer(
		scryfalltest.Commander("Atraxa, Praetors' Voice"),
		scryfalltest.Commander("Atraxa, Grand Unifier"),
		scryfalltest.NonCommander("Counterspell"),
	)
	t.Cleanup(scryfall.Close)

	app := factory.NewTestAppWithCards(scryfall.Config())
	t.Cleanup(func() { _ = app.Close() })

	router := web.NewRouter(web.RouterConfig{
		Logger:           testutil.NopLogger(),
		GameController:   app.GameController,
		HubManager:       app.HubManager,
		Broadcaster:      app.Broadcaster,
		CardClient:       app.CardClient,
		CommanderService: app.CommanderService,
	})

	return &webTestServer{
		t:        t,
		handler:  router,
		app:      app,
		scryfall: scryfall,
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil, false)
}

// post makes a plain form POST
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form, false)
}

// postHTMX makes a form POST as htmx would
func (ts *webTestServer) postHTMX(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form, true)
}

// createGame starts a game through the form and returns its tracker path
func (ts *webTestServer) createGame(players int) string {
	ts.t.Helper()
	rr := ts.post("/games", url.Values{"player_count": {strconv.Itoa(players)}})
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after game creation")
	location := rr.Header().Get("Location")
	require.True(ts.t, strings.HasPrefix(location, "/games/"), "Expected redirect to tracker, got %q", location)
	return location
}

// followRedirect follows a Location or HX-Redirect header
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	location := rr.Header().Get("HX-Redirect")
	if location == "" {
		location = rr.Header().Get("Location")
	}
	require.NotEmpty(ts.t, location, "Expected Location or HX-Redirect header for redirect")
	return ts.get(location)
}

// parseHTML parses the response body as HTML
func parseHTML(t *testing.T, r io.Reader) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(r)
	require.NoError(t, err)
	return doc
}

// assertContainsText checks that the selection contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	assert.Contains(t, doc.Find(selector).Text(), text, "Expected %q to contain %q", selector, text)
}
