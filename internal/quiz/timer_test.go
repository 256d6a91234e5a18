package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimers_FireOnce(t *testing.T) {
	timers := NewTimers()
	timers.Reset("s1")

	tok := timers.Arm(TimerAdvance)
	assert.True(t, timers.Pending(TimerAdvance))
	assert.True(t, timers.Live(tok))
	assert.True(t, timers.Fire(tok))
	assert.False(t, timers.Fire(tok), "a token fires at most once")
	assert.False(t, timers.Pending(TimerAdvance))
}

func TestTimers_ArmSupersedes(t *testing.T) {
	timers := NewTimers()
	timers.Reset("s1")

	first := timers.Arm(TimerAdvance)
	second := timers.Arm(TimerAdvance)
	assert.False(t, timers.Fire(first))
	assert.True(t, timers.Fire(second))
}

func TestTimers_KindsAreIndependent(t *testing.T) {
	timers := NewTimers()
	countdown := timers.Arm(TimerCountdown)
	advance := timers.Arm(TimerAdvance)

	timers.Cancel(TimerAdvance)
	assert.False(t, timers.Fire(advance))
	assert.True(t, timers.Fire(countdown))
}

func TestTimers_ResetCancelsEverything(t *testing.T) {
	timers := NewTimers()
	timers.Reset("s1")
	old := timers.Arm(TimerAdvance)

	timers.Reset("s2")
	assert.False(t, timers.Fire(old))

	// Re-arming in the new session must not revive a token from the old one.
	fresh := timers.Arm(TimerAdvance)
	assert.False(t, timers.Fire(old))
	assert.Equal(t, "s2", fresh.Session)
	assert.True(t, timers.Fire(fresh))
}
