package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deduce/internal/ledger"
	"deduce/internal/logic"
)

func TestNewSessionIsOpenAndEmpty(t *testing.T) {
	sess := New()
	assert.Equal(t, Open, sess.Status)
	assert.False(t, sess.Closed())
	assert.Equal(t, 0, sess.Ledger.Len())
	assert.Nil(t, sess.Goal)
	assert.NotEqual(t, New().ID, sess.ID)
}

func TestCloseIsPermanentAndIdempotent(t *testing.T) {
	sess := New()
	sess.Close()
	require.True(t, sess.Closed())
	sess.Close()
	assert.True(t, sess.Closed())
	assert.Equal(t, "Closed", sess.Status.String())
}

func TestClearLeavesReceiverUntouched(t *testing.T) {
	sess := New()
	sess.Ledger.Append(ledger.Given, logic.Rel{Name: "p"}, ledger.Justification{})
	sess.Close()

	fresh := sess.Clear()
	assert.NotEqual(t, sess.ID, fresh.ID)
	assert.Equal(t, 0, fresh.Ledger.Len())
	assert.False(t, fresh.Closed())
	// Old handle keeps its history.
	assert.Equal(t, 1, sess.Ledger.Len())
	assert.True(t, sess.Closed())
}
