package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWriter records written messages.
type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaPublisherWithWriter(fw)
	entry := domain.ActivityLog{ActivityID: "a1", Action: domain.ActionTransactionApproved, EntityID: "TXN-1"}

	require.NoError(t, p.Publish(context.Background(), "TXN-1", entry))

	require.Len(t, fw.msgs, 1)
	assert.Equal(t, "TXN-1", string(fw.msgs[0].Key))
	var decoded domain.ActivityLog
	require.NoError(t, json.Unmarshal(fw.msgs[0].Value, &decoded))
	assert.Equal(t, domain.ActionTransactionApproved, decoded.Action)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker down")}
	p := NewKafkaPublisherWithWriter(fw)

	err := p.Publish(context.Background(), "TXN-1", map[string]string{"a": "b"})

	assert.ErrorContains(t, err, "broker down")
}

func TestKafkaPublisher_Close(t *testing.T) {
	fw := &fakeWriter{}
	require.NoError(t, NewKafkaPublisherWithWriter(fw).Close())
	assert.True(t, fw.closed)
}

func TestNewPublisher_NoBroker(t *testing.T) {
	p := NewPublisher("", "audit")
	assert.IsType(t, NoopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), "k", "v"))
}
