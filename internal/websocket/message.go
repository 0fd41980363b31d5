package websocket

import (
	"encoding/json"
	"time"

	"github.com/dom/matchup-companion/internal/service"
)

type MessageType string

const (
	// Client to Server
	MessageTypeSubscribe   MessageType = "SUBSCRIBE"
	MessageTypeUnsubscribe MessageType = "UNSUBSCRIBE"

	// Server to Client
	MessageTypeSubscribed     MessageType = "SUBSCRIBED"
	MessageTypeUnsubscribed   MessageType = "UNSUBSCRIBED"
	MessageTypeMatchupUpdated MessageType = "MATCHUP_UPDATED"
	MessageTypeTipAdded       MessageType = "TIP_ADDED"
	MessageTypeMatchupDeleted MessageType = "MATCHUP_DELETED"
	MessageTypeError          MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

// SubscriptionPayload is used by SUBSCRIBE and UNSUBSCRIBE and echoed back
// in SUBSCRIBED and UNSUBSCRIBED.
type SubscriptionPayload struct {
	MatchupID int `json:"matchupId"`
}

// Server to Client payloads

type MatchupUpdatedPayload struct {
	Matchup *service.MatchupView `json:"matchup"`
}

type TipAddedPayload struct {
	MatchupID int             `json:"matchupId"`
	Tip       service.TipView `json:"tip"`
}

type MatchupDeletedPayload struct {
	MatchupID int `json:"matchupId"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
