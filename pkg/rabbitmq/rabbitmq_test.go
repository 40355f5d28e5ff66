package rabbitmq

import (
	"errors"
	"os"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientWithoutChannel(t *testing.T) {
	c := &Client{}
	assert.Error(t, c.Publish("book.added", []byte(`{}`)))
	assert.Error(t, c.ConsumeEvents(func(amqp.Delivery) error { return nil }, nil))
	assert.NoError(t, c.Close())
}

type fakeAck struct {
	acked, nacked bool
	err           error
}

func (f *fakeAck) Ack(bool) error {
	f.acked = true
	return f.err
}

func (f *fakeAck) Nack(bool, bool) error {
	f.nacked = true
	return f.err
}

type reported struct {
	tag uint64
	err error
}

func collect(into *[]reported) func(uint64, error) {
	return func(tag uint64, err error) {
		*into = append(*into, reported{tag: tag, err: err})
	}
}

func TestSettle(t *testing.T) {
	t.Run("handled message is acked", func(t *testing.T) {
		var got []reported
		ack := &fakeAck{}
		settle(ack, 7, nil, collect(&got))
		assert.True(t, ack.acked)
		assert.False(t, ack.nacked)
		assert.Empty(t, got)
	})

	t.Run("failed message is nacked and reported", func(t *testing.T) {
		var got []reported
		ack := &fakeAck{}
		handlerErr := errors.New("bad payload")
		settle(ack, 7, handlerErr, collect(&got))
		assert.True(t, ack.nacked)
		require.Len(t, got, 1)
		assert.Equal(t, uint64(7), got[0].tag)
		assert.ErrorIs(t, got[0].err, handlerErr)
	})

	t.Run("ack failure is reported", func(t *testing.T) {
		var got []reported
		channelErr := errors.New("channel closed")
		settle(&fakeAck{err: channelErr}, 8, nil, collect(&got))
		require.Len(t, got, 1)
		assert.ErrorIs(t, got[0].err, channelErr)
		assert.Contains(t, got[0].err.Error(), "failed to ack message")
	})

	t.Run("nack failure is reported after the handler error", func(t *testing.T) {
		var got []reported
		channelErr := errors.New("channel closed")
		settle(&fakeAck{err: channelErr}, 9, errors.New("bad payload"), collect(&got))
		require.Len(t, got, 2)
		assert.ErrorIs(t, got[1].err, channelErr)
		assert.Contains(t, got[1].err.Error(), "failed to nack message")
	})

	t.Run("nil onError is allowed", func(t *testing.T) {
		assert.NotPanics(t, func() {
			settle(&fakeAck{err: errors.New("channel closed")}, 1, errors.New("bad payload"), nil)
		})
	})
}

func TestPublishAndConsume(t *testing.T) {
	url := os.Getenv("RABBITMQ_TEST_URL")
	if url == "" {
		t.Skip("RABBITMQ_TEST_URL not set")
	}

	client, err := NewClient(Config{URL: url, Exchange: "bookmarket_test", Queue: "bookmarket_test_events"})
	require.NoError(t, err)
	defer client.Close()

	received := make(chan amqp.Delivery, 1)
	require.NoError(t, client.ConsumeEvents(func(msg amqp.Delivery) error {
		received <- msg
		return nil
	}, nil))

	require.NoError(t, client.Publish("book.purchased", []byte(`{"bookId":"b1"}`)))
	msg := <-received
	assert.Equal(t, "book.purchased", msg.RoutingKey)
	assert.JSONEq(t, `{"bookId":"b1"}`, string(msg.Body))
}
