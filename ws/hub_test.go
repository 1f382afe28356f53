package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The server side mirrors the handlers: Register only starts the write pump,
// the read loop stays here so the connection has exactly one reader.
func subscriberServer(t *testing.T, docID string, registered chan<- struct{}) *httptest.Server {
	t.Helper()
	upgr := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgr.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		H.Register(docID, conn)
		defer H.Unregister(docID, conn)
		close(registered)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}))
}

func TestStatusUpdateReachesSubscriber(t *testing.T) {
	registered := make(chan struct{})
	srv := subscriberServer(t, "doc-1", registered)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer client.Close()

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never registered")
	}

	SendStatusUpdate("doc-1", "extracting", 0.25, "")

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := client.ReadMessage()
	require.NoError(t, err)

	var update DocumentStatusUpdate
	require.NoError(t, json.Unmarshal(msg, &update))
	assert.Equal(t, "doc-1", update.DocumentID)
	assert.Equal(t, "extracting", update.Status)
	assert.Equal(t, 0.25, update.Progress)
}

func TestBroadcastSkipsOtherDocuments(t *testing.T) {
	registered := make(chan struct{})
	srv := subscriberServer(t, "doc-a", registered)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer client.Close()

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never registered")
	}

	SendStatusUpdate("doc-b", "success", 1, "")

	client.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = client.ReadMessage()
	assert.Error(t, err, "a doc-b update must not reach a doc-a subscriber")
}
