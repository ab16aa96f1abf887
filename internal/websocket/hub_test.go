package websocket

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.cancel)
	return hub
}

// testClient builds a client without a real socket; delivery stops at the
// send queue, which is all the hub touches.
func testClient(queue int) *Client {
	return &Client{
		ID:   uuid.New(),
		Send: make(chan []byte, queue),
	}
}

func waitConnected(t *testing.T, hub *Hub, connID uuid.UUID) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(hub.ConnectedIDs([]uuid.UUID{connID})) == 1 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("client %s never registered", connID)
}

func TestSendToConn(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	client := testClient(4)
	hub.Register(client)
	waitConnected(t, hub, client.ID)

	payload := map[string]string{"status": "OK"}
	if err := hub.SendToConn(client.ID, EventRoomDestroyed, payload); err != nil {
		t.Fatalf("SendToConn: %v", err)
	}

	select {
	case raw := <-client.Send:
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if msg.Type != EventRoomDestroyed {
			t.Errorf("envelope type: got %q, want %q", msg.Type, EventRoomDestroyed)
		}
		var decoded map[string]string
		if err := json.Unmarshal(msg.Data, &decoded); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if decoded["status"] != "OK" {
			t.Errorf("payload: got %v, want status OK", decoded)
		}
	default:
		t.Fatal("nothing queued on the client")
	}
}

func TestSendToUnknownConn(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	if err := hub.SendToConn(uuid.New(), EventRoomJoined, nil); !errors.Is(err, ErrUnknownClient) {
		t.Errorf("SendToConn to unknown id: got %v, want ErrUnknownClient", err)
	}
}

func TestSendToConnQueueFull(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	client := testClient(1)
	hub.Register(client)
	waitConnected(t, hub, client.ID)

	if err := hub.SendToConn(client.ID, EventRoomJoined, nil); err != nil {
		t.Fatalf("first send: %v", err)
	}
	if err := hub.SendToConn(client.ID, EventRoomJoined, nil); !errors.Is(err, ErrClientQueueFull) {
		t.Errorf("send past queue: got %v, want ErrClientQueueFull", err)
	}
}

func TestSendToConnsSkipsMissing(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	client := testClient(4)
	hub.Register(client)
	waitConnected(t, hub, client.ID)

	gone := uuid.New()
	hub.SendToConns([]uuid.UUID{client.ID, gone}, EventUserLeftRoom, nil)

	if got := len(client.Send); got != 1 {
		t.Errorf("queued messages: got %d, want 1", got)
	}
	if got := hub.ConnectedIDs([]uuid.UUID{client.ID, gone}); len(got) != 1 {
		t.Errorf("ConnectedIDs: got %v, want only the registered client", got)
	}
}
