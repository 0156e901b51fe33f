package realtime

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newHubServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", hub.Subscribe)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("subscribers = %d, want %d", hub.SubscriberCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPublishReachesConnectedSubscribers(t *testing.T) {
	hub := NewHub([]string{"*"})
	srv := newHubServer(t, hub)

	a := dial(t, srv)
	b := dial(t, srv)
	waitForSubscribers(t, hub, 2)

	hub.Publish(EventNewUsage, map[string]string{"grado": "3", "tema": "fracciones"})

	for _, conn := range []*websocket.Conn{a, b} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var env Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		require.Equal(t, EventNewUsage, env.Event)

		payload, ok := env.Data.(map[string]any)
		require.True(t, ok)
		require.Equal(t, "3", payload["grado"])
		require.Equal(t, "fracciones", payload["tema"])
	}
}

func TestPublishWithoutSubscribersIsSilent(t *testing.T) {
	hub := NewHub(nil)
	// Must not panic or block.
	hub.Publish(EventNewUsage, map[string]string{"grado": "1"})
	require.Zero(t, hub.SubscriberCount())
}

func TestDisconnectedSubscriberIsDropped(t *testing.T) {
	hub := NewHub([]string{"*"})
	srv := newHubServer(t, hub)

	conn := dial(t, srv)
	waitForSubscribers(t, hub, 1)

	conn.Close()
	waitForSubscribers(t, hub, 0)

	// A subscriber that left before the publish never receives it.
	hub.Publish(EventNewUsage, map[string]string{"grado": "2"})
	require.Zero(t, hub.SubscriberCount())
}

func TestLateSubscriberMissesEarlierEvents(t *testing.T) {
	hub := NewHub([]string{"*"})
	srv := newHubServer(t, hub)

	hub.Publish(EventNewUsage, map[string]string{"grado": "1"})

	conn := dial(t, srv)
	waitForSubscribers(t, hub, 1)

	// No replay: nothing arrives until the next publish.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}
