package broker

import (
	"encoding/json"

	"github.com/avvvet/poketracker/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

type Broker struct {
	Conn      *nats.Conn
	Broadcast func(*comm.WSMessage)
}

func NewBroker(conn *nats.Conn, fncBroadcast func(*comm.WSMessage)) *Broker {
	return &Broker{
		Conn:      conn,
		Broadcast: fncBroadcast,
	}
}

// consume card events from the card service
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) handleMessages(msgNats *nats.Msg) {
	b.HandleEvent(msgNats.Data)
}

// HandleEvent forwards a card event payload to the browser sockets.
func (b *Broker) HandleEvent(data []byte) {
	event := comm.CardEvent{}
	if err := json.Unmarshal(data, &event); err != nil {
		log.Errorf("Error decoding card event %s", err)
		return
	}

	switch event.Type {
	case comm.CardChanged:
		b.Broadcast(&comm.WSMessage{Type: event.Type, Data: json.RawMessage(data)})
	default:
		log.Warnf("unknown card event received: %s", event.Type)
	}
}
