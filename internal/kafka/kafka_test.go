package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
	err    error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) written() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.msgs...)
}

type fakeReader struct {
	mu        sync.Mutex
	pending   chan kafka.Message
	committed []kafka.Message
	closed    bool
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	r := &fakeReader{pending: make(chan kafka.Message, len(msgs))}
	for _, m := range msgs {
		r.pending <- m
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.pending:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) commits() []kafka.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]kafka.Message(nil), r.committed...)
}

func TestProducer_FlushesOnClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := &fakeWriter{}
	p := newProducer(w, "topic", 8)
	p.Start(context.Background())

	p.Publish([]byte("k1"), []byte("v1"), EventHeaders("OrderPlaced")...)
	p.Publish([]byte("k2"), []byte("v2"))
	p.Close()
	p.WaitClosed()

	msgs := w.written()
	require.Len(t, msgs, 2)
	assert.Equal(t, "k1", string(msgs[0].Key))
	assert.Equal(t, "x-event-type", msgs[0].Headers[0].Key)
	assert.Equal(t, "OrderPlaced", string(msgs[0].Headers[0].Value))
	assert.True(t, w.closed)
}

func TestProducer_StopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := &fakeWriter{}
	p := newProducer(w, "topic", 8)
	ctx, cancel := context.WithCancel(context.Background())
	p.Publish([]byte("k"), []byte("v"))
	p.Start(ctx)

	cancel()
	p.WaitClosed()

	assert.Len(t, w.written(), 1)
}

func TestProducer_WriteErrorDoesNotStopLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := &fakeWriter{err: errors.New("broker down")}
	p := newProducer(w, "topic", 8)
	p.Start(context.Background())

	p.Publish([]byte("k"), []byte("v"))
	p.Close()
	p.WaitClosed()

	assert.Empty(t, w.written())
}

func TestProducer_PublishAfterCloseIsDropped(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := &fakeWriter{}
	p := newProducer(w, "topic", 8)
	p.Start(context.Background())
	p.Close()
	p.WaitClosed()

	assert.NotPanics(t, func() {
		p.Publish([]byte("late"), []byte("v"))
		p.Close()
	})
	assert.Empty(t, w.written())
}

func TestProducer_PublishAfterLoopExitDoesNotBlock(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := &fakeWriter{}
	p := newProducer(w, "topic", 1)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	cancel()
	p.WaitClosed()

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Publish([]byte("k1"), []byte("v"))
		p.Publish([]byte("k2"), []byte("v"))
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked after the write loop exited")
	}
	assert.Empty(t, w.written())
}

func TestConsumer_CommitsOnlySuccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	ok := kafka.Message{Topic: "t", Offset: 1, Value: []byte("ok")}
	bad := kafka.Message{Topic: "t", Offset: 2, Value: []byte("bad")}
	r := newFakeReader(ok, bad)
	c := newConsumer(r, 2)

	ctx, cancel := context.WithCancel(context.Background())
	var mu sync.Mutex
	handled := 0
	done := make(chan error, 1)
	go func() {
		done <- c.Start(ctx, func(_ context.Context, m kafka.Message) error {
			mu.Lock()
			handled++
			mu.Unlock()
			if string(m.Value) == "bad" {
				return errors.New("poison")
			}
			return nil
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return handled == 2
	}, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	commits := r.commits()
	require.Len(t, commits, 1)
	assert.Equal(t, int64(1), commits[0].Offset)
	assert.True(t, r.closed)
}

func TestUnwrapPayload(t *testing.T) {
	type payload struct {
		OrderID string `json:"order_id"`
	}

	got, err := UnwrapPayload[payload](MustMarshal(payload{OrderID: "ORD-1"}))
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", got.OrderID)

	_, err = UnwrapPayload[payload]([]byte(`{`))
	assert.ErrorContains(t, err, "decode payload")
}
