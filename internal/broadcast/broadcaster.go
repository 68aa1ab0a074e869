package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/neurofleet/neurofleet-core/internal/db"
)

// Publisher abstracts the outbound message channel so the broadcaster can be
// tested without a broker.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// MQTTPublisher publishes over an MQTT connection.
type MQTTPublisher struct {
	Client mqtt.Client
}

// NewMQTTPublisher connects to the broker and returns a publisher.
func NewMQTTPublisher(brokerURL, clientID string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &MQTTPublisher{Client: client}, nil
}

// Publish sends one message at QoS 0. Delivery is at-most-once; subscribers
// that miss a snapshot pick up the next one.
func (p *MQTTPublisher) Publish(topic string, payload []byte) error {
	token := p.Client.Publish(topic, 0, false, payload)
	token.Wait()
	return token.Error()
}

// Broadcaster periodically publishes the full vehicle list as one JSON
// snapshot. Like the telemetry simulator it is self-healing: a failed tick is
// logged and the next tick starts clean.
type Broadcaster struct {
	Vehicles db.VehicleStore
	Pub      Publisher
	Topic    string
	Interval time.Duration
}

// NewBroadcaster creates a broadcaster for the given topic and cadence.
func NewBroadcaster(vehicles db.VehicleStore, pub Publisher, topic string, interval time.Duration) *Broadcaster {
	return &Broadcaster{Vehicles: vehicles, Pub: pub, Topic: topic, Interval: interval}
}

// Run publishes snapshots until the context is cancelled.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()
	log.WithFields(log.Fields{"topic": b.Topic, "interval": b.Interval}).Info("Fleet broadcaster started")
	for {
		select {
		case <-ctx.Done():
			log.Info("Fleet broadcaster stopped")
			return
		case <-ticker.C:
			if err := b.Tick(ctx); err != nil {
				log.WithError(err).Error("Fleet broadcast tick failed")
			}
		}
	}
}

// Tick publishes one snapshot of the whole registry.
func (b *Broadcaster) Tick(ctx context.Context) error {
	vehicles, err := b.Vehicles.FindVehicles(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(vehicles)
	if err != nil {
		return err
	}
	return b.Pub.Publish(b.Topic, payload)
}
