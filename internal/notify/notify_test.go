package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subject  string
	data     []byte
	flushed  bool
	closed   bool
	flushErr error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.subject, f.data = subject, data
	return nil
}

func (f *fakeConn) FlushWithContext(context.Context) error {
	f.flushed = true
	return f.flushErr
}

func (f *fakeConn) Close() { f.closed = true }

func withFake(n *Notifier, c *fakeConn) *Notifier {
	n.connect = func(string) (conn, error) { return c, nil }
	return n
}

func TestNotify_Disabled(t *testing.T) {
	n := New("", "sitegen.published")
	assert.False(t, n.Enabled())
	require.NoError(t, n.Notify(context.Background(), Event{BuildID: "x"}))

	var nilNotifier *Notifier
	assert.False(t, nilNotifier.Enabled())
}

func TestNotify_PublishesEvent(t *testing.T) {
	c := &fakeConn{}
	n := withFake(New("nats://localhost:4222", "site.events"), c)

	err := n.Notify(context.Background(), Event{BuildID: "b-1", OutputDir: "dist", Pages: 4, Assets: 2})
	require.NoError(t, err)

	assert.Equal(t, "site.events", c.subject)
	assert.True(t, c.flushed)
	assert.True(t, c.closed)

	var got Event
	require.NoError(t, json.Unmarshal(c.data, &got))
	assert.Equal(t, EventPublished, got.Type)
	assert.Equal(t, "b-1", got.BuildID)
	assert.Equal(t, 4, got.Pages)
	assert.WithinDuration(t, time.Now(), got.Timestamp, time.Minute)
}

func TestNotify_Errors(t *testing.T) {
	boom := errors.New("no responders")
	c := &fakeConn{flushErr: boom}
	err := withFake(New("nats://localhost:4222", "s"), c).Notify(context.Background(), Event{})
	require.ErrorIs(t, err, boom)
	assert.True(t, c.closed, "connection is closed on failure")

	n := New("nats://localhost:4222", "s")
	n.connect = func(string) (conn, error) { return nil, boom }
	require.ErrorIs(t, n.Notify(context.Background(), Event{}), boom)
}

func TestNotify_UnreachableServer(t *testing.T) {
	err := New("nats://127.0.0.1:1", "s").Notify(context.Background(), Event{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect")
}
