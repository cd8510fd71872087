package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/jgoulah/tempcompare/internal/config"
	"github.com/jgoulah/tempcompare/internal/series"
)

// client is the subset of mqtt.Client the publisher needs
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

// Publisher sends comparison results to an MQTT broker
type Publisher struct {
	client      client
	topicPrefix string
	timeout     time.Duration
}

// New connects to the broker described by cfg
func New(cfg config.MQTTConfig, topicPrefix string) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("MQTT publishing is not enabled in config")
	}
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID("tempcompare-" + uuid.NewString()[:8])
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	c := mqtt.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return newWithClient(c, topicPrefix), nil
}

func newWithClient(c client, topicPrefix string) *Publisher {
	return &Publisher{
		client:      c,
		topicPrefix: topicPrefix,
		timeout:     10 * time.Second,
	}
}

// Payload is the JSON body published for a comparison
type Payload struct {
	Date           string  `json:"date"`
	DayKey         string  `json:"day_key"`
	TMean          float64 `json:"tmean"`
	HistoricalMean float64 `json:"historical_mean"`
	Deviation      float64 `json:"deviation"`
	Samples        int     `json:"samples"`
}

// NewPayload flattens a comparison into its wire form
func NewPayload(c series.Comparison) Payload {
	return Payload{
		Date:           c.Target.Date.Format("2006-01-02"),
		DayKey:         c.Key.String(),
		TMean:          c.Target.TMean,
		HistoricalMean: c.HistoricalMean,
		Deviation:      c.Deviation,
		Samples:        c.Samples,
	}
}

// Topic returns the topic a comparison for key is published on
func (p *Publisher) Topic(key series.DayKey) string {
	return fmt.Sprintf("%s/comparison/%s", p.topicPrefix, key)
}

// Publish sends a retained comparison message at QoS 1
func (p *Publisher) Publish(ctx context.Context, c series.Comparison) error {
	body, err := json.Marshal(NewPayload(c))
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	token := p.client.Publish(p.Topic(c.Key), 1, true, body)

	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.timeout):
		return fmt.Errorf("publishing to %s: timed out after %s", p.Topic(c.Key), p.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", p.Topic(c.Key), err)
	}

	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
