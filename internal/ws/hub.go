package ws

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/tidwall/gjson"
)

type Client struct {
	ID   string
	Send chan []byte

	// rascunhos assinados. Só o hub mexe.
	topics map[string]struct{}
	// filtered fica true na primeira assinatura; antes disso recebe tudo.
	// Sair da última assinatura não volta a receber tudo.
	filtered bool
}

func (c *Client) wants(draftID string) bool {
	if !c.filtered {
		return true
	}
	_, ok := c.topics[draftID]
	return ok
}

type unicastMsg struct {
	id  string
	msg []byte
}

type topicMsg struct {
	draftID string
	msg     []byte
}

type subscription struct {
	c       *Client
	draftID string
	on      bool
}

type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client // id -> client
	register chan *Client
	unreg    chan *Client
	subs     chan subscription

	sendAll chan []byte     // envio para todos
	unicast chan unicastMsg // envio para 1 cliente
	topic   chan topicMsg   // envio para quem assina o rascunho

	log     *slog.Logger
	stop    chan struct{}
	stopped chan struct{}

	nextID atomic.Uint64
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:  make(map[string]*Client),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		subs:     make(chan subscription),
		sendAll:  make(chan []byte, 1024),
		unicast:  make(chan unicastMsg, 1024),
		topic:    make(chan topicMsg, 1024),
		log:      log.With("cmp", "ws.hub"),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (h *Hub) newID() string {
	id := h.nextID.Add(1)
	return fmt.Sprintf("c%d", id)
}

// drop remove o cliente e fecha o canal; chamado só pelo loop do hub.
func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.clients[c.ID]; ok && cur == c {
		delete(h.clients, c.ID)
		close(c.Send)
	}
}

// deliver não bloqueia: cliente lento é desconectado para não travar o hub.
func (h *Hub) deliver(c *Client, msg []byte) {
	select {
	case c.Send <- msg:
	default:
		h.drop(c)
		h.log.Warn("client_drop_slow", "id", c.ID)
	}
}

func (h *Hub) snapshot() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		out = append(out, c)
	}
	return out
}

func (h *Hub) Run() {
	h.log.Info("hub_run_start")
	defer close(h.stopped)

	for {
		select {
		case c := <-h.register:
			if c.ID == "" {
				c.ID = h.newID()
			}
			h.mu.Lock()
			h.clients[c.ID] = c
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client_registered", "id", c.ID, "total", total)

		case c := <-h.unreg:
			if c == nil {
				continue
			}
			h.drop(c)
			h.log.Info("client_unregistered", "id", c.ID, "total", h.Count())

		case s := <-h.subs:
			if s.on {
				if s.c.topics == nil {
					s.c.topics = make(map[string]struct{})
				}
				s.c.topics[s.draftID] = struct{}{}
				s.c.filtered = true
			} else {
				delete(s.c.topics, s.draftID)
			}
			h.log.Debug("client_subscription", "id", s.c.ID, "draft_id", s.draftID, "on", s.on)

		case msg := <-h.sendAll:
			for _, c := range h.snapshot() {
				h.deliver(c, msg)
			}

		case t := <-h.topic:
			for _, c := range h.snapshot() {
				if c.wants(t.draftID) {
					h.deliver(c, t.msg)
				}
			}

		case u := <-h.unicast:
			h.mu.RLock()
			c := h.clients[u.id]
			h.mu.RUnlock()
			if c == nil {
				h.log.Warn("send_one_miss", "id", u.id)
				continue
			}
			h.deliver(c, u.msg)

		case <-h.stop:
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.log.Info("hub_run_stop")
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.stop)
	<-h.stopped
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Depois do Stop as chamadas abaixo viram no-op em vez de bloquear.

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.stopped:
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unreg <- c:
	case <-h.stopped:
	}
}

func (h *Hub) Subscribe(c *Client, draftID string) {
	select {
	case h.subs <- subscription{c: c, draftID: draftID, on: true}:
	case <-h.stopped:
	}
}

func (h *Hub) Unsubscribe(c *Client, draftID string) {
	select {
	case h.subs <- subscription{c: c, draftID: draftID}:
	case <-h.stopped:
	}
}

func (h *Hub) Broadcast(b []byte)               { h.sendAll <- b }
func (h *Hub) SendToClient(id string, b []byte) { h.unicast <- unicastMsg{id: id, msg: b} }

// Publish entrega para quem assina draftID e para quem nunca assinou nada.
func (h *Hub) Publish(draftID string, b []byte) { h.topic <- topicMsg{draftID: draftID, msg: b} }

// Dispatch roteia uma mensagem da fila pelo draft_id do evento;
// mensagens sem draft_id (texto livre) vão para todos.
func (h *Hub) Dispatch(body []byte) {
	if gjson.ValidBytes(body) {
		if id := gjson.GetBytes(body, "draft_id").String(); id != "" {
			h.Publish(id, body)
			return
		}
	}
	h.Broadcast(body)
}
