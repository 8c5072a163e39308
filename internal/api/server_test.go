package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/WishDesk/internal/client"
	"github.com/Kerhoff/WishDesk/internal/form"
	"github.com/Kerhoff/WishDesk/internal/service"
	"github.com/Kerhoff/WishDesk/pkg/logger"
)

// newConsole starts the console in front of a fake REST API and returns a
// client with its own cookie jar, so every request it makes belongs to one
// visitor.
func newConsole(t *testing.T, restAPI http.HandlerFunc) (*httptest.Server, *http.Client, *service.Sessions) {
	t.Helper()
	rest := httptest.NewServer(restAPI)
	t.Cleanup(rest.Close)

	reg := prometheus.NewRegistry()
	c := client.New(rest.URL, 5*time.Second, logger.Discard(), client.WithMetrics(client.NewMetrics(reg)))
	svc := service.New(c, logger.Discard())
	sessions := service.NewSessions()

	console := httptest.NewServer(NewServer(svc, sessions, logger.Discard(), reg).Handler())
	t.Cleanup(console.Close)
	return console, newVisitor(t), sessions
}

func newVisitor(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

// sessionOf returns the session the visitor's cookie points at.
func sessionOf(t *testing.T, visitor *http.Client, consoleURL string, sessions *service.Sessions) *service.Session {
	t.Helper()
	u, err := url.Parse(consoleURL)
	require.NoError(t, err)
	for _, c := range visitor.Jar.Cookies(u) {
		if c.Name == SessionCookie {
			return sessions.Get(c.Value)
		}
	}
	t.Fatalf("no %s cookie", SessionCookie)
	return nil
}

func TestIndexRendersForm(t *testing.T) {
	console, visitor, _ := newConsole(t, func(w http.ResponseWriter, r *http.Request) {})

	resp, err := visitor.Get(console.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `id="wishlist_name"`)
	assert.Contains(t, string(body), `formaction="/actions/create-item-by-name"`)
	assert.Contains(t, string(body), `<th>Updated Time</th>`)
}

func TestFormPostCreatesWishlist(t *testing.T) {
	var posted map[string]any
	console, visitor, sessions := newConsole(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&posted)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":42,"name":"Birthday","note":"","is_favorite":false,"updated_time":"2024-01-01T00:00:00Z"}`)
	})

	resp, err := visitor.PostForm(console.URL+"/actions/create-wishlist", url.Values{
		"wishlist_name":         {"Birthday"},
		"wishlist_updated_time": {"2024-01-01"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, posted["is_favorite"])
	assert.Equal(t, "42", sessionOf(t, visitor, console.URL, sessions).Form().Read(form.WishlistID))
	assert.Contains(t, string(body), `value="42"`)
	assert.Contains(t, string(body), `<div id="flash_message">Success</div>`)
}

func TestFlashIsSanitized(t *testing.T) {
	console, visitor, _ := newConsole(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"<img src=x onerror=alert(1)>gone"}`)
	})

	resp, err := visitor.PostForm(console.URL+"/actions/retrieve-wishlist", url.Values{"wishlist_id": {"1"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.NotContains(t, string(body), "onerror")
	assert.Contains(t, string(body), `<div id="flash_message">gone</div>`)
}

func TestAPIActionValidation(t *testing.T) {
	calls := 0
	console, visitor, _ := newConsole(t, func(w http.ResponseWriter, r *http.Request) { calls++ })

	resp, err := visitor.Post(console.URL+"/api/actions/create-item", "application/json",
		strings.NewReader(`{"fields":{"item_name":"Lego","customer_name":"ignored"}}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out formResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, service.MsgWishlistIDRequired, out.Flash)
	assert.True(t, out.Error)
	assert.Equal(t, 0, calls)
	_, leaked := out.Form["customer_name"]
	assert.False(t, leaked)
}

func TestAPIActionListItems(t *testing.T) {
	console, visitor, _ := newConsole(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wishlists/3/items", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":5,"wishlist_id":3,"name":"Lego","category":"toys","price":9.5,"quantity":1}]`)
	})

	resp, err := visitor.Post(console.URL+"/api/actions/list-items", "application/json",
		strings.NewReader(`{"fields":{"item_wishlist_id":3}}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out formResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotNil(t, out.Table)
	assert.Equal(t, [][]string{{"5", "Lego", "toys", "9.5", "1", "3"}}, out.Table.Rows)
	assert.Equal(t, "Lego", out.Form[form.ItemName])

	resp2, err := visitor.Get(console.URL + "/api/form")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var snap formResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&snap))
	assert.Equal(t, service.MsgSuccess, snap.Flash)
	assert.Equal(t, "5", snap.Form[form.ItemID])
}

func TestUnknownActionIs404(t *testing.T) {
	console, visitor, _ := newConsole(t, func(w http.ResponseWriter, r *http.Request) {})

	resp, err := visitor.Post(console.URL+"/api/actions/explode", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	console, visitor, _ := newConsole(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	resp, err := visitor.Get(console.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = visitor.PostForm(console.URL+"/actions/search-wishlists", url.Values{})
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = visitor.Get(console.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `wishdesk_client_requests_total{code="200",method="GET"} 1`)
}

func TestAPIActionKeepsLargeNumericIDs(t *testing.T) {
	var gotPath string
	console, visitor, _ := newConsole(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = io.WriteString(w, `[]`)
	})

	resp, err := visitor.Post(console.URL+"/api/actions/list-items", "application/json",
		strings.NewReader(`{"fields":{"item_wishlist_id":12345678,"item_price":0.0000001}}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out formResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "/wishlists/12345678/items", gotPath)
	assert.Equal(t, "12345678", out.Form[form.ItemWishlistID])
	assert.Equal(t, "0.0000001", out.Form[form.ItemPrice])
}

func TestVisitorsHaveSeparateForms(t *testing.T) {
	console, alice, sessions := newConsole(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":1,"name":"Alice's"}`)
	})
	bob := newVisitor(t)

	resp, err := alice.PostForm(console.URL+"/actions/retrieve-wishlist", url.Values{"wishlist_id": {"1"}})
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = bob.Get(console.URL + "/api/form")
	require.NoError(t, err)
	defer resp.Body.Close()
	var snap formResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))

	assert.Equal(t, "", snap.Form.Read(form.WishlistName))
	assert.Equal(t, "", snap.Flash)
	assert.Equal(t, "Alice's", sessionOf(t, alice, console.URL, sessions).Form().Read(form.WishlistName))
	assert.Equal(t, 2, sessions.Len())
}
