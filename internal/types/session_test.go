package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionStatusCanTransition(t *testing.T) {
	all := []SessionStatus{SessionInvited, SessionInProgress, SessionCompleted, SessionExpired, SessionCanceled}

	allowed := map[SessionStatus][]SessionStatus{
		SessionInvited:    {SessionInProgress, SessionExpired, SessionCanceled},
		SessionInProgress: {SessionCompleted, SessionExpired, SessionCanceled},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, ok := range allowed[from] {
				if to == ok {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestSessionStatusPredicates(t *testing.T) {
	assert.True(t, SessionInvited.Active())
	assert.True(t, SessionInProgress.Active())
	assert.False(t, SessionCompleted.Active())

	assert.True(t, SessionCompleted.Terminal())
	assert.True(t, SessionExpired.Terminal())
	assert.True(t, SessionCanceled.Terminal())
	assert.False(t, SessionInProgress.Terminal())

	assert.True(t, SessionInProgress.Valid())
	assert.False(t, SessionStatus("paused").Valid())
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := InterviewSession{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, s.Expired(now))

	s.ExpiresAt = now.Add(-time.Minute)
	assert.True(t, s.Expired(now))

	s.ExpiresAt = time.Time{}
	assert.False(t, s.Expired(now), "zero deadline never expires")
}
