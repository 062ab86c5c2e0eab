package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event kinds published to <prefix>/event/<kind>.
const (
	EventIdentify = "identify"
	EventEnroll   = "enroll"
	EventDelete   = "delete"
)

// Event is the JSON payload published after a successful sensor operation.
type Event struct {
	EventID   string    `json:"event_id"`
	Kind      string    `json:"kind"`
	StationID string    `json:"station_id"`
	Slot      *int      `json:"slot,omitempty"`
	Score     *int      `json:"score,omitempty"`
	Count     *int      `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher sends events to an MQTT broker. A nil *Publisher is valid and
// publishes nothing, so the gateway works with MQTT disabled.
type Publisher struct {
	client  paho.Client
	prefix  string
	station string
	log     *logrus.Logger
}

// NewPublisher connects to the broker and returns a publisher stamping
// events with this station's identity.
func NewPublisher(cfg MQTTConfig, log *logrus.Logger) (*Publisher, error) {
	station := stationID()

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("zfmd-%.8s", station)
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetCleanSession(true)
	opts.OnConnect = func(paho.Client) {
		log.WithField("broker", cfg.BrokerURL).Info("mqtt connected")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.WithError(err).Warn("mqtt connection lost")
	}

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connect to %s: timed out", cfg.BrokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.BrokerURL, err)
	}

	return &Publisher{
		client:  client,
		prefix:  cfg.TopicPrefix,
		station: station,
		log:     log,
	}, nil
}

// Publish sends one event. Publishing is best-effort: a broker outage is
// logged, never surfaced to the HTTP caller whose sensor operation already
// succeeded.
func (p *Publisher) Publish(kind string, slot, score, count *int) {
	if p == nil {
		return
	}

	event := Event{
		EventID:   uuid.New().String(),
		Kind:      kind,
		StationID: p.station,
		Slot:      slot,
		Score:     score,
		Count:     count,
		Timestamp: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.log.WithError(err).Error("marshal event")
		return
	}

	topic := fmt.Sprintf("%s/event/%s", p.prefix, kind)
	token := p.client.Publish(topic, 0, false, payload)
	go func() {
		if token.WaitTimeout(5*time.Second) && token.Error() != nil {
			p.log.WithError(token.Error()).WithField("topic", topic).Warn("publish event")
		}
	}()
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.client.Disconnect(250)
}

// stationID identifies this host in events: the machine ID when the
// platform exposes one, the hostname otherwise.
func stationID() string {
	if id, err := machineid.ID(); err == nil && id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "unknown"
}

func intPtr(v int) *int {
	return &v
}
