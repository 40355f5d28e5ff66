package services

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// Marketplace event routing keys.
const (
	EventUserRegistered = "user.registered"
	EventBookAdded      = "book.added"
	EventBookUpdated    = "book.updated"
	EventBookDeleted    = "book.deleted"
	EventBookPurchased  = "book.purchased"
)

// EventPublisher publishes a marketplace event. *rabbitmq.Client implements it.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// publishEvent is fire-and-forget: a nil publisher or a broker failure is
// logged and never fails the operation that produced the event.
func publishEvent(pub EventPublisher, log logrus.FieldLogger, routingKey string, payload map[string]interface{}) {
	if pub == nil {
		return
	}

	payload["event"] = routingKey
	payload["at"] = time.Now().UTC().Format(time.RFC3339)
	body, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).WithField("event", routingKey).Error("failed to marshal event")
		return
	}
	if err := pub.Publish(routingKey, body); err != nil {
		log.WithError(err).WithField("event", routingKey).Warn("failed to publish event")
	}
}
