// internal/domain/notification/entity_test.go
package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoticeIsDue(t *testing.T) {
	now := time.Now().UTC()
	earlier := now.Add(-time.Hour)
	later := now.Add(time.Hour)

	assert.True(t, (&Notice{State: StateScheduled, ScheduledAt: &earlier}).IsDue(now))
	assert.True(t, (&Notice{State: StateScheduled}).IsDue(now))
	assert.False(t, (&Notice{State: StateScheduled, ScheduledAt: &later}).IsDue(now))
	assert.False(t, (&Notice{State: StateDraft, ScheduledAt: &earlier}).IsDue(now))
	assert.False(t, (&Notice{State: StateSent, ScheduledAt: &earlier}).IsDue(now))
}
