package comm

import (
	"encoding/json"
	"time"
)

// CardEventsTopic carries card change notifications from cardsvc to websvc.
const CardEventsTopic = "cards.events"

const CardChanged = "card.changed"

// Actions carried by CardEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// CardEvent is published after every committed mutation.
type CardEvent struct {
	ID     string    `json:"id"`   // event id
	Type   string    `json:"type"` // always card.changed
	Action string    `json:"action"`
	CardID int64     `json:"card_id"`
	At     time.Time `json:"at"`
	Source string    `json:"source"` // publishing instance id
}

// WSMessage is the envelope pushed to browser sockets.
type WSMessage struct {
	Type string          `json:"type"` // e.g. "card.changed"
	Data json.RawMessage `json:"data"`
}
