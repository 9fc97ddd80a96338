package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"todolist/socket"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	URL    string
	Mock   sqlmock.Sqlmock
	Hub    *socket.Hub
	Client *http.Client
}

func newTestServer(t *testing.T) *testServer {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	hub := socket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	handler, err := Setup(Deps{
		DB:  db,
		Hub: hub,
		Now: func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	server := httptest.NewServer(handler)
	t.Cleanup(func() {
		cancel()
		server.Close()
		db.Close()
	})

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testServer{URL: server.URL, Mock: mock, Hub: hub, Client: client}
}

func TestAddPublishesToOpenPages(t *testing.T) {
	ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return ts.Hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	ts.Mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO items (title) VALUES ($1) RETURNING id, title, created_at")).
		WithArgs("Buy milk").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "created_at"}).AddRow(9, "Buy milk", time.Now()))

	resp, err := ts.Client.PostForm(ts.URL+"/add", url.Values{"newItem": {"Buy milk"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, p, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev socket.ItemEvent
	require.NoError(t, json.Unmarshal(p, &ev))
	assert.Equal(t, socket.ItemAddedType, ev.Type)
	assert.Equal(t, int64(9), ev.ItemID)

	assert.NoError(t, ts.Mock.ExpectationsWereMet())
}

func TestRoutes(t *testing.T) {
	ts := newTestServer(t)

	ts.Mock.ExpectQuery("SELECT id, title, created_at FROM items ORDER BY id ASC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "created_at"}).AddRow(1, "Buy milk", time.Now()))
	resp, err := ts.Client.Get(ts.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Buy milk")

	ts.Mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	resp, err = ts.Client.Get(ts.URL + "/health")
	require.NoError(t, err)
	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "2025-01-01T00:00:00Z", health["timestamp"])

	resp, err = ts.Client.Get(ts.URL + "/does-not-exist")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = ts.Client.Get(ts.URL + "/static/styles.css")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NoError(t, ts.Mock.ExpectationsWereMet())
}

func TestInvalidFormNeverReachesDatabase(t *testing.T) {
	ts := newTestServer(t)

	resp, err := ts.Client.PostForm(ts.URL+"/delete", url.Values{"deleteItemId": {"not-a-number"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NoError(t, ts.Mock.ExpectationsWereMet())
}

func TestSetupRequiresDependencies(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = Setup(Deps{DB: db})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Hub")

	_, err = Setup(Deps{Hub: socket.NewHub()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB")
}
