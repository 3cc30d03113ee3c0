package ws

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectDisconnectRemovesEmptyEntry(t *testing.T) {
	hub := NewHub()
	user := uuid.New()
	c1 := NewClient(user, 4)

	hub.Connect(user, c1)
	assert.True(t, hub.IsOnline(user))
	assert.Equal(t, 1, hub.OnlineUsers())

	hub.Disconnect(user, c1)
	assert.False(t, hub.IsOnline(user))
	assert.Equal(t, 0, hub.OnlineUsers())

	// Disconnecting again, or a client that was never registered, is a no-op.
	hub.Disconnect(user, c1)
	hub.Disconnect(uuid.New(), NewClient(uuid.New(), 1))
	assert.Equal(t, 0, hub.OnlineUsers())
}

func TestMultipleConnectionsPerUser(t *testing.T) {
	hub := NewHub()
	user := uuid.New()
	c1, c2 := NewClient(user, 4), NewClient(user, 4)

	hub.Connect(user, c1)
	hub.Connect(user, c2)
	assert.Equal(t, 2, hub.ConnectionCount(user))

	hub.Disconnect(user, c1)
	assert.Equal(t, 1, hub.ConnectionCount(user))
	assert.True(t, hub.IsOnline(user))
}

func TestSendToOfflineUserIsNoop(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, 0, hub.SendToUser(uuid.New(), map[string]string{"type": "mention"}))
}

func TestSendToUserDeliversToEveryConnection(t *testing.T) {
	hub := NewHub()
	user, other := uuid.New(), uuid.New()
	c1, c2 := NewClient(user, 4), NewClient(user, 4)
	bystander := NewClient(other, 4)
	hub.Connect(user, c1)
	hub.Connect(user, c2)
	hub.Connect(other, bystander)

	delivered := hub.SendToUser(user, map[string]string{"type": "like", "message": "hi"})
	assert.Equal(t, 2, delivered)

	for _, c := range []*Client{c1, c2} {
		select {
		case msg := <-c.Send:
			var got map[string]string
			require.NoError(t, json.Unmarshal(msg, &got))
			assert.Equal(t, "like", got["type"])
		default:
			t.Fatal("expected a queued message")
		}
	}
	assert.Empty(t, bystander.Send)
}

func TestSendToUserIsolatesFailingConnection(t *testing.T) {
	hub := NewHub()
	user := uuid.New()
	healthy := NewClient(user, 4)
	stuck := NewClient(user, 1)
	hub.Connect(user, healthy)
	hub.Connect(user, stuck)

	// Fill the stuck client's buffer so the next delivery cannot be queued.
	stuck.Send <- []byte("backlog")

	delivered := hub.SendToUser(user, map[string]string{"type": "mention"})
	assert.Equal(t, 1, delivered)
	assert.Len(t, healthy.Send, 1)

	assert.True(t, stuck.Closed())
	assert.Equal(t, 1, hub.ConnectionCount(user), "failing connection is removed")

	// The stuck client's channel is closed after draining its backlog.
	<-stuck.Send
	_, ok := <-stuck.Send
	assert.False(t, ok)
}

func TestClientCloseIsIdempotent(t *testing.T) {
	hub := NewHub()
	user := uuid.New()
	c := NewClient(user, 1)
	hub.Connect(user, c)

	c.Close()
	c.Close()
	assert.False(t, hub.IsOnline(user))

	// A closed client cannot be registered again.
	hub.Connect(user, c)
	assert.False(t, hub.IsOnline(user))
}

func TestHubConcurrentAccess(t *testing.T) {
	hub := NewHub()
	user := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := NewClient(user, 8)
			hub.Connect(user, c)
			hub.SendToUser(user, map[string]int{"n": 1})
			c.Close()
		}()
		go func() {
			defer wg.Done()
			hub.SendToUser(user, map[string]int{"n": 2})
		}()
	}
	wg.Wait()
	assert.False(t, hub.IsOnline(user))
}
