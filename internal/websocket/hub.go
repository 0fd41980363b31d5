// Package websocket pushes matchup changes to subscribed browsers.
package websocket

import (
	"sync"

	"github.com/dom/matchup-companion/internal/service"
	log "github.com/sirupsen/logrus"
)

type subscription struct {
	client    *Client
	matchupID int
	subscribe bool
}

type broadcast struct {
	matchupID int
	msgType   MessageType
	payload   interface{}
}

// Hub fans matchup events out to the clients subscribed to that matchup.
// All subscription state is owned by Run.
type Hub struct {
	clients       map[*Client]map[int]bool
	topics        map[int]map[*Client]bool
	register      chan *Client
	unregister    chan *Client
	subscriptions chan *subscription
	broadcasts    chan *broadcast
	stop          chan struct{}
	done          chan struct{} // closed when Run() exits
	stopOnce      sync.Once
	mu            sync.RWMutex
}

var _ service.MatchupNotifier = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		clients:       make(map[*Client]map[int]bool),
		topics:        make(map[int]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		subscriptions: make(chan *subscription),
		broadcasts:    make(chan *broadcast, 64),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]map[int]bool)
			h.topics = make(map[int]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = make(map[int]bool)
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case sub := <-h.subscriptions:
			h.handleSubscription(sub)

		case b := <-h.broadcasts:
			h.handleBroadcast(b)
		}
	}
}

// Stop closes every client and blocks until Run has exited.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Subscribe adds client to the feed of one matchup.
func (h *Hub) Subscribe(client *Client, matchupID int) {
	h.updateSubscription(&subscription{client: client, matchupID: matchupID, subscribe: true})
}

func (h *Hub) updateSubscription(sub *subscription) {
	select {
	case h.subscriptions <- sub:
	case <-h.done:
	}
}

// SubscriberCount returns how many clients follow the matchup.
func (h *Hub) SubscriberCount(matchupID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[matchupID])
}

// remove must be called with mu held.
func (h *Hub) remove(client *Client) {
	matchups, ok := h.clients[client]
	if !ok {
		return
	}
	for matchupID := range matchups {
		h.dropSubscriber(matchupID, client)
	}
	delete(h.clients, client)
	client.Close()
}

func (h *Hub) dropSubscriber(matchupID int, client *Client) {
	if subscribers, ok := h.topics[matchupID]; ok {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(h.topics, matchupID)
		}
	}
}

func (h *Hub) handleSubscription(sub *subscription) {
	h.mu.Lock()
	matchups, ok := h.clients[sub.client]
	if !ok {
		h.mu.Unlock()
		return
	}
	if sub.subscribe {
		matchups[sub.matchupID] = true
		if h.topics[sub.matchupID] == nil {
			h.topics[sub.matchupID] = make(map[*Client]bool)
		}
		h.topics[sub.matchupID][sub.client] = true
	} else {
		delete(matchups, sub.matchupID)
		h.dropSubscriber(sub.matchupID, sub.client)
	}
	h.mu.Unlock()

	reply := MessageTypeSubscribed
	if !sub.subscribe {
		reply = MessageTypeUnsubscribed
	}
	sub.client.Send(reply, SubscriptionPayload{MatchupID: sub.matchupID})
}

func (h *Hub) handleBroadcast(b *broadcast) {
	h.mu.RLock()
	subscribers := make([]*Client, 0, len(h.topics[b.matchupID]))
	for client := range h.topics[b.matchupID] {
		subscribers = append(subscribers, client)
	}
	h.mu.RUnlock()

	for _, client := range subscribers {
		client.Send(b.msgType, b.payload)
	}

	if b.msgType == MessageTypeMatchupDeleted {
		h.mu.Lock()
		for _, client := range subscribers {
			delete(h.clients[client], b.matchupID)
		}
		delete(h.topics, b.matchupID)
		h.mu.Unlock()
	}
}

func (h *Hub) publish(matchupID int, msgType MessageType, payload interface{}) {
	select {
	case h.broadcasts <- &broadcast{matchupID: matchupID, msgType: msgType, payload: payload}:
	case <-h.done:
	default:
		log.WithFields(log.Fields{
			"matchupID": matchupID,
			"type":      msgType,
		}).Warn("[websocket.Hub] broadcast queue full, dropping event")
	}
}

func (h *Hub) MatchupChanged(matchup *service.MatchupView) {
	h.publish(matchup.ID, MessageTypeMatchupUpdated, MatchupUpdatedPayload{Matchup: matchup})
}

func (h *Hub) TipAdded(matchupID int, tip service.TipView) {
	h.publish(matchupID, MessageTypeTipAdded, TipAddedPayload{MatchupID: matchupID, Tip: tip})
}

func (h *Hub) MatchupDeleted(matchupID int) {
	h.publish(matchupID, MessageTypeMatchupDeleted, MatchupDeletedPayload{MatchupID: matchupID})
}
