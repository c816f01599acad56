package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"cargo-broker/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
	skafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []skafka.Message
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...skafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaPublisherKeysByRequest(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaPublisherWithWriter(fw)

	err := p.Publish(context.Background(), Event{Type: TypeQuoteAccepted, RequestID: "req-abc", PartnerID: "p1"})
	require.NoError(t, err)

	require.Len(t, fw.msgs, 1)
	assert.Equal(t, "req-abc", string(fw.msgs[0].Key))
	assert.Equal(t, TypeQuoteAccepted, string(fw.msgs[0].Headers[0].Value))

	var decoded Event
	require.NoError(t, json.Unmarshal(fw.msgs[0].Value, &decoded))
	assert.Equal(t, "p1", decoded.PartnerID)
}

type fakeMQTT struct {
	topics       []string
	payloads     [][]byte
	closed       bool
	disconnected bool
}

func (f *fakeMQTT) Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error {
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakeMQTT) IsConnected() bool { return !f.disconnected }

func (f *fakeMQTT) Disconnect() { f.closed = true }

func TestMQTTPublisherTopic(t *testing.T) {
	client := &fakeMQTT{}
	p := NewMQTTPublisher(client, "cargo-broker/")

	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeQuotesExpiring}))
	require.NoError(t, p.Close())

	assert.Equal(t, []string{"cargo-broker/quote/expiring"}, client.topics)
	assert.True(t, client.closed)
}

func TestMQTTPublisherRefusesWhileDisconnected(t *testing.T) {
	client := &fakeMQTT{disconnected: true}
	p := NewMQTTPublisher(client, "cargo-broker")

	err := p.Publish(context.Background(), Event{Type: TypeQuotesExpiring})
	assert.ErrorIs(t, err, ErrBrokerDisconnected)
	assert.Empty(t, client.topics)
}

type fakeChannel struct {
	keys []string
	msgs []amqp.Publishing
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.keys = append(f.keys, key)
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestAMQPPublisherRoutesToQueue(t *testing.T) {
	ch := &fakeChannel{}
	p := NewAMQPPublisherWithChannel(ch, "cargo-broker.quotes")

	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeQuoteDenied, RequestID: "req-1"}))
	require.NoError(t, p.Close())

	assert.Equal(t, []string{"cargo-broker.quotes"}, ch.keys)
	assert.Equal(t, "application/json", ch.msgs[0].ContentType)
	assert.Equal(t, TypeQuoteDenied, ch.msgs[0].Type)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	fail   bool
	closed bool
}

func (r *recordingPublisher) Publish(ctx context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("broker down")
	}
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPublisher) Close() error {
	r.closed = true
	return nil
}

func TestDispatcherPublishesInOrderAndDrainsOnStop(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewDispatcher(pub, 16, time.Second)
	d.Start()

	d.Emit(Event{Type: TypeQuoteSubmitted, RequestID: "req-1"})
	d.Emit(Event{Type: TypeQuoteAccepted, RequestID: "req-1"})
	d.Stop()

	require.Len(t, pub.events, 2)
	assert.Equal(t, TypeQuoteSubmitted, pub.events[0].Type)
	assert.Equal(t, TypeQuoteAccepted, pub.events[1].Type)
	assert.False(t, pub.events[0].OccurredAt.IsZero())
	assert.True(t, pub.closed)

	m := d.Metrics()
	assert.Equal(t, int64(2), m.EventsQueued)
	assert.Equal(t, int64(2), m.EventsPublished)

	// Emit after stop is a silent no-op
	d.Emit(Event{Type: TypeQuoteDenied})
	d.Stop()
}

func TestDispatcherCountsFailures(t *testing.T) {
	pub := &recordingPublisher{fail: true}
	d := NewDispatcher(pub, 4, time.Second)
	d.Start()

	d.Emit(Event{Type: TypeQuoteCancelled, RequestID: "req-9"})
	d.Stop()

	assert.Equal(t, int64(1), d.Metrics().EventsFailed)
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	d := NewDispatcher(&recordingPublisher{}, 1, time.Second)

	d.Emit(Event{Type: TypeQuoteSubmitted})
	d.Emit(Event{Type: TypeQuoteSubmitted})

	assert.Equal(t, int64(1), d.Metrics().EventsDropped)
}

func TestNewPublisherDrivers(t *testing.T) {
	p, err := NewPublisher(&config.Config{Events: config.EventsConfig{Driver: "log"}})
	require.NoError(t, err)
	assert.IsType(t, LogPublisher{}, p)
	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeQuoteSubmitted}))

	p, err = NewPublisher(&config.Config{
		Events: config.EventsConfig{Driver: "kafka"},
		Kafka:  config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "quotes"},
	})
	require.NoError(t, err)
	assert.IsType(t, &KafkaPublisher{}, p)

	_, err = NewPublisher(&config.Config{Events: config.EventsConfig{Driver: "carrier-pigeon"}})
	assert.Error(t, err)
}
