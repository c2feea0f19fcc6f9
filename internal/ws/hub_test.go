package ws

/*

go test -v ./internal/ws -count=1

*/

import (
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case got, ok := <-c.Send:
		require.True(t, ok, "canal fechado")
		return string(got)
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting %s", c.ID)
		return ""
	}
}

func silent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case got := <-c.Send:
		t.Fatalf("%s não deveria receber %q", c.ID, got)
	case <-time.After(50 * time.Millisecond):
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(slog.Default())
	go h.Run()
	t.Cleanup(h.Stop)
	return h
}

func TestHub_Broadcast(t *testing.T) {
	h := startHub(t)

	c1 := &Client{Send: make(chan []byte, 1)}
	c2 := &Client{Send: make(chan []byte, 1)}
	h.Register(c1)
	h.Register(c2)

	h.Broadcast([]byte("hello"))

	assert.Equal(t, "hello", recv(t, c1))
	assert.Equal(t, "hello", recv(t, c2))
}

func TestHub_PublishRespectsSubscriptions(t *testing.T) {
	h := startHub(t)

	all := &Client{ID: "all", Send: make(chan []byte, 4)}
	d1 := &Client{ID: "d1", Send: make(chan []byte, 4)}
	d2 := &Client{ID: "d2", Send: make(chan []byte, 4)}
	for _, c := range []*Client{all, d1, d2} {
		h.Register(c)
	}
	h.Subscribe(d1, "draft-1")
	h.Subscribe(d2, "draft-2")

	h.Publish("draft-1", []byte("x"))

	assert.Equal(t, "x", recv(t, all))
	assert.Equal(t, "x", recv(t, d1))
	silent(t, d2)

	// sair da última assinatura não vira broadcast
	h.Unsubscribe(d2, "draft-2")
	h.Publish("draft-1", []byte("y"))
	assert.Equal(t, "y", recv(t, all))
	assert.Equal(t, "y", recv(t, d1))
	silent(t, d2)

	h.Subscribe(d2, "draft-1")
	h.Publish("draft-1", []byte("z"))
	assert.Equal(t, "z", recv(t, d2))
}

func TestHub_Dispatch(t *testing.T) {
	h := startHub(t)

	c := &Client{ID: "c", Send: make(chan []byte, 4)}
	h.Register(c)
	h.Subscribe(c, "draft-1")

	h.Dispatch([]byte(`{"type":"draft.created","draft_id":"draft-2"}`))
	h.Dispatch([]byte(`{"type":"draft.submitted","draft_id":"draft-1"}`))
	assert.Contains(t, recv(t, c), "draft.submitted")

	// texto livre vai para todos
	h.Dispatch([]byte("Cadastro de parceiro ACME"))
	assert.Equal(t, "Cadastro de parceiro ACME", recv(t, c))
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	h := startHub(t)

	slow := &Client{ID: "slow", Send: make(chan []byte)} // sem buffer
	h.Register(slow)
	require.Equal(t, 1, h.Count())

	h.Broadcast([]byte("x"))
	assert.Eventually(t, func() bool { return h.Count() == 0 }, time.Second, 10*time.Millisecond)

	_, ok := <-slow.Send
	assert.False(t, ok)
}

func TestHub_SendToClient(t *testing.T) {
	h := startHub(t)

	c1 := &Client{ID: "a", Send: make(chan []byte, 1)}
	c2 := &Client{ID: "b", Send: make(chan []byte, 1)}
	h.Register(c1)
	h.Register(c2)

	h.SendToClient("b", []byte("só b"))
	assert.Equal(t, "só b", recv(t, c2))
	silent(t, c1)
}

func TestHub_CallsAfterStopDoNotBlock(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	h.Stop()

	done := make(chan struct{})
	go func() {
		c := &Client{Send: make(chan []byte)}
		h.Register(c)
		h.Subscribe(c, "x")
		h.Unregister(c)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("chamadas bloquearam após Stop")
	}
}

func TestHandler_SubscribeOverSocket(t *testing.T) {
	h := startHub(t)
	srv := httptest.NewServer(Handler(h, 8, slog.Default()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url+"?draft_id=draft-1", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.Count() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "subscribe", "draft_id": "draft-3"}))
	// dá tempo do readPump processar a assinatura
	time.Sleep(50 * time.Millisecond)

	h.Dispatch([]byte(`{"draft_id":"draft-2","n":1}`))
	h.Dispatch([]byte(`{"draft_id":"draft-3","n":2}`))
	h.Dispatch([]byte(`{"draft_id":"draft-1","n":3}`))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, first, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"draft_id":"draft-3","n":2}`, string(first))

	_, second, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"draft_id":"draft-1","n":3}`, string(second))
}
