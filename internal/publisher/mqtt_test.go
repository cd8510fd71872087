package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/tempcompare/internal/config"
	"github.com/jgoulah/tempcompare/internal/series"
	"github.com/jgoulah/tempcompare/pkg/models"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func newToken(err error, complete bool) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	if complete {
		close(t.done)
	}
	return t
}

func (t *fakeToken) Wait() bool                       { <-t.done; return true }
func (t *fakeToken) WaitTimeout(d time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}            { return t.done }
func (t *fakeToken) Error() error                     { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	token        *fakeToken
	sent         []published
	connected    bool
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.sent = append(c.sent, published{topic, qos, retained, payload.([]byte)})
	return c.token
}

func (c *fakeClient) IsConnected() bool       { return c.connected }
func (c *fakeClient) Disconnect(quiesce uint) { c.disconnected = true }

func comparison() series.Comparison {
	target := models.NewRecord(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 20, 28)
	return series.Comparison{
		Target:         target,
		Key:            series.KeyOf(target.Date),
		HistoricalMean: 23,
		Deviation:      1,
		Samples:        2,
	}
}

func TestPublish(t *testing.T) {
	fc := &fakeClient{token: newToken(nil, true)}
	p := newWithClient(fc, "home/temps")

	require.NoError(t, p.Publish(context.Background(), comparison()))
	require.Len(t, fc.sent, 1)

	msg := fc.sent[0]
	assert.Equal(t, "home/temps/comparison/06-15", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.True(t, msg.retained)

	var got Payload
	require.NoError(t, json.Unmarshal(msg.payload, &got))
	assert.Equal(t, Payload{
		Date:           "2024-06-15",
		DayKey:         "06-15",
		TMean:          24,
		HistoricalMean: 23,
		Deviation:      1,
		Samples:        2,
	}, got)
}

func TestPublishTokenError(t *testing.T) {
	fc := &fakeClient{token: newToken(errors.New("not authorized"), true)}
	p := newWithClient(fc, "tempcompare")

	err := p.Publish(context.Background(), comparison())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authorized")
}

func TestPublishContextCanceled(t *testing.T) {
	fc := &fakeClient{token: newToken(nil, false)}
	p := newWithClient(fc, "tempcompare")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, comparison())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCloseDisconnects(t *testing.T) {
	fc := &fakeClient{connected: true}
	newWithClient(fc, "x").Close()
	assert.True(t, fc.disconnected)
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(config.MQTTConfig{}, "x")
	assert.Error(t, err)

	_, err = New(config.MQTTConfig{Enabled: true}, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker")
}
