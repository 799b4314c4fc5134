package troupe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailbox_FIFO(t *testing.T) {
	m := newMailbox(4)
	require.NoError(t, m.put(envelope{msg: 1}))
	require.NoError(t, m.put(envelope{msg: 2}))
	require.NoError(t, m.put(envelope{msg: 3}))

	e1, ok := m.take()
	require.True(t, ok)
	assert.Equal(t, 1, e1.msg)

	e2, ok := m.take()
	require.True(t, ok)
	assert.Equal(t, 2, e2.msg)
}

func TestMailbox_CloseDrainsBufferedBeforeEOF(t *testing.T) {
	m := newMailbox(4)
	require.NoError(t, m.put(envelope{msg: "last words"}))
	m.close()

	e, ok := m.take()
	require.True(t, ok, "a buffered message must still be delivered after close")
	assert.Equal(t, "last words", e.msg)

	_, ok = m.take()
	assert.False(t, ok)
}

func TestMailbox_PutAfterCloseFails(t *testing.T) {
	m := newMailbox(1)
	m.close()
	assert.ErrorIs(t, m.put(envelope{msg: 1}), ErrClosed)
}

func TestMailbox_CloseIsIdempotent(t *testing.T) {
	m := newMailbox(1)
	m.close()
	assert.NotPanics(t, func() { m.close() })
}

func TestMailbox_PushFrontReplaysInOrder(t *testing.T) {
	m := newMailbox(4)
	require.NoError(t, m.put(envelope{msg: "live"}))

	m.pushFront([]envelope{{msg: "stash1"}, {msg: "stash2"}})

	e1, _ := m.take()
	e2, _ := m.take()
	e3, _ := m.take()
	assert.Equal(t, "stash1", e1.msg)
	assert.Equal(t, "stash2", e2.msg)
	assert.Equal(t, "live", e3.msg)
}

func TestMailbox_TakeCtxCancels(t *testing.T) {
	m := newMailbox(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, status := m.takeCtx(ctx)
	assert.Equal(t, takeCancelled, status)
}
