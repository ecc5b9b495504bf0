package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varunhm/honeynet/internal/domain"
)

func TestMemoryStoreLoadMissingIsNil(t *testing.T) {
	m := NewMemoryStore()

	sess, err := m.Load("nope")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestMemoryStoreClonesOnSaveAndLoad(t *testing.T) {
	m := NewMemoryStore()
	sess := domain.NewSession("sess-1")
	_, err := sess.Accept(domain.Message{Sender: "scammer", Text: "hi"})
	require.NoError(t, err)
	require.NoError(t, m.Save(sess))

	// mutating the caller's copy must not touch stored state
	sess.Messages[0].Text = "mutated"

	loaded, err := m.Load("sess-1")
	require.NoError(t, err)
	assert.Equal(t, "hi", loaded.Messages[0].Text)

	// and mutating a loaded copy must not either
	loaded.Messages[0].Text = "also mutated"
	again, err := m.Load("sess-1")
	require.NoError(t, err)
	assert.Equal(t, "hi", again.Messages[0].Text)
}

func TestMemoryStoreMarkCallbackSent(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.Save(domain.NewSession("sess-1")))

	won, err := m.MarkCallbackSent("sess-1")
	require.NoError(t, err)
	assert.True(t, won)

	won, err = m.MarkCallbackSent("sess-1")
	require.NoError(t, err)
	assert.False(t, won)

	won, err = m.MarkCallbackSent("missing")
	require.NoError(t, err)
	assert.False(t, won)
}

func TestMemoryStoreSaveNeverClearsCallbackSent(t *testing.T) {
	m := NewMemoryStore()
	sess := domain.NewSession("sess-1")
	require.NoError(t, m.Save(sess))

	won, err := m.MarkCallbackSent("sess-1")
	require.NoError(t, err)
	require.True(t, won)

	// the caller's stale copy still has the flag unset
	require.NoError(t, m.Save(sess))

	loaded, err := m.Load("sess-1")
	require.NoError(t, err)
	assert.True(t, loaded.CallbackSent)
}

func TestMemoryStoreDeadLetters(t *testing.T) {
	m := NewMemoryStore()
	sess := domain.NewSession("sess-1")
	require.NoError(t, m.RecordDeadLetter(sess.Payload(), "unreachable"))

	letters, err := m.DeadLetters("sess-1")
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, "unreachable", letters[0].Reason)

	none, err := m.DeadLetters("other")
	require.NoError(t, err)
	assert.Empty(t, none)
}
