package broker

import (
	"encoding/json"
	"time"

	"github.com/avvvet/poketracker/internal/comm"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Broker publishes card change events on NATS.
type Broker struct {
	Conn       *nats.Conn
	InstanceId string
	topic      string
}

func NewBroker(nc *nats.Conn, instanceId string) *Broker {
	return &Broker{
		Conn:       nc,
		InstanceId: instanceId,
		topic:      comm.CardEventsTopic,
	}
}

// CardChanged publishes a card.changed event. Failures are logged, the
// mutation that triggered it is already committed.
func (b *Broker) CardChanged(action string, cardID int64) {
	event := comm.CardEvent{
		ID:     uuid.New().String(),
		Type:   comm.CardChanged,
		Action: action,
		CardID: cardID,
		At:     time.Now().UTC(),
		Source: b.InstanceId,
	}

	bytes, err := json.Marshal(event)
	if err != nil {
		log.Errorf("Failed to marshal card event: %v", err)
		return
	}

	if err := b.Conn.Publish(b.topic, bytes); err != nil {
		log.Errorf("Error publishing to topic %s: %s", b.topic, err)
		return
	}

	log.Debugf("published %s for card %d", action, cardID)
}
