package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialPair returns a server-side connection registered nowhere yet and the
// matching client connection, both cleaned up when the test ends.
func dialPair(t *testing.T) (server, client *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-serverConns:
	case <-time.After(2 * time.Second):
		t.Fatal("server connection never arrived")
	}
	t.Cleanup(func() { server.Close() })

	return server, client
}

func TestPublishWithNoConnectionsIsNoOp(t *testing.T) {
	hub := NewHub()

	assert.Equal(t, 0, hub.Count())
	hub.Publish("service_updated", map[string]interface{}{"id": 1})
}

func TestPublishDeliversEnvelope(t *testing.T) {
	hub := NewHub()

	server, client := dialPair(t)
	hub.Add(server)
	require.Equal(t, 1, hub.Count())

	hub.Publish("service_updated", map[string]interface{}{
		"id":     float64(7),
		"status": "partial_outage",
	})

	client.SetReadDeadline(time.Now().Add(2 * time.Second))

	_, raw, err := client.ReadMessage()
	require.NoError(t, err)

	var envelope struct {
		Type string                 `json:"type"`
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))

	assert.Equal(t, "service_updated", envelope.Type)
	assert.Equal(t, float64(7), envelope.Data["id"])
	assert.Equal(t, "partial_outage", envelope.Data["status"])
}

func TestPublishReachesEveryConnection(t *testing.T) {
	hub := NewHub()

	serverA, clientA := dialPair(t)
	serverB, clientB := dialPair(t)
	hub.Add(serverA)
	hub.Add(serverB)
	require.Equal(t, 2, hub.Count())

	hub.Publish("incident_created", map[string]interface{}{"title": "db down"})

	for _, client := range []*websocket.Conn{clientA, clientB} {
		client.SetReadDeadline(time.Now().Add(2 * time.Second))

		_, raw, err := client.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(raw), "incident_created")
	}
}

// Monitor goroutines broadcast independently, so Publish must be safe to call
// from many goroutines against the same connection. Every frame must arrive
// intact.
func TestConcurrentPublishesAreSerializedPerConnection(t *testing.T) {
	hub := NewHub()

	server, client := dialPair(t)
	hub.Add(server)

	const (
		publishers    = 32
		perPublisher  = 8
		totalExpected = publishers * perPublisher
	)

	var wg sync.WaitGroup

	for i := 0; i < publishers; i++ {
		wg.Add(1)

		go func(id int) {
			defer wg.Done()

			for j := 0; j < perPublisher; j++ {
				hub.Publish("service_updated", map[string]interface{}{"id": id})
			}
		}(i)
	}

	received := 0

	for received < totalExpected {
		client.SetReadDeadline(time.Now().Add(5 * time.Second))

		_, raw, err := client.ReadMessage()
		require.NoError(t, err)

		var envelope struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(raw, &envelope), "frame arrived corrupted")
		require.Equal(t, "service_updated", envelope.Type)

		received++
	}

	wg.Wait()
	assert.Equal(t, 1, hub.Count(), "no connection may be evicted by healthy concurrent writes")
}

// The welcome write and ping writer share the client's lock with Publish.
func TestClientWriteAndPingInterleaveWithPublish(t *testing.T) {
	hub := NewHub()

	server, client := dialPair(t)
	handle := hub.Add(server)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for i := 0; i < 50; i++ {
			hub.Publish("service_updated", map[string]interface{}{"id": i})
		}
	}()

	for i := 0; i < 50; i++ {
		require.NoError(t, handle.Ping())
	}

	require.NoError(t, handle.WriteJSON(map[string]string{"type": "connected"}))
	<-done

	// Drain everything the client received; every data frame must parse.
	client.SetReadDeadline(time.Now().Add(2 * time.Second))

	for i := 0; i < 51; i++ {
		_, raw, err := client.ReadMessage()
		require.NoError(t, err)
		assert.True(t, json.Valid(raw))
	}
}

func TestPublishEvictsDeadConnections(t *testing.T) {
	hub := NewHub()

	server, client := dialPair(t)
	hub.Add(server)

	// Kill the transport underneath the hub, then publish until the failed
	// write is observed and the connection evicted.
	client.Close()
	server.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() > 0 && time.Now().Before(deadline) {
		hub.Publish("service_updated", map[string]interface{}{"id": 1})
		time.Sleep(10 * time.Millisecond)
	}

	assert.Equal(t, 0, hub.Count())
}

func TestRemoveIsIdempotent(t *testing.T) {
	hub := NewHub()

	server, _ := dialPair(t)
	client := hub.Add(server)
	hub.Remove(client)
	hub.Remove(client)

	assert.Equal(t, 0, hub.Count())
}
