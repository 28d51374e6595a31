package freshness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var stored = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func policyAt(now time.Time, threshold time.Duration) Policy {
	p := New(threshold)
	p.Clock = func() time.Time { return now }
	return p
}

func TestFresh(t *testing.T) {
	for desc, tc := range map[string]struct {
		now       time.Time
		threshold time.Duration
		fresh     bool
	}{
		"just stored":                 {now: stored, fresh: true},
		"59 minutes later":            {now: stored.Add(59 * time.Minute), fresh: true},
		"61 minutes later":            {now: stored.Add(61 * time.Minute), fresh: false},
		"exactly at the threshold":    {now: stored.Add(time.Hour), fresh: false},
		"stored in the future":        {now: stored.Add(-time.Minute), fresh: false},
		"custom threshold, inside":    {now: stored.Add(4 * time.Minute), threshold: 5 * time.Minute, fresh: true},
		"custom threshold, outside":   {now: stored.Add(6 * time.Minute), threshold: 5 * time.Minute, fresh: false},
		"negative threshold defaults": {now: stored.Add(30 * time.Minute), threshold: -time.Second, fresh: true},
	} {
		t.Run(desc, func(t *testing.T) {
			p := policyAt(tc.now, tc.threshold)
			assert.Equal(t, tc.fresh, p.Fresh(stored))
		})
	}
}

func TestZeroTimestampIsStale(t *testing.T) {
	p := policyAt(stored, 0)
	assert.False(t, p.Fresh(time.Time{}))
	assert.Zero(t, p.Expiry(time.Time{}))
}

func TestExpiry(t *testing.T) {
	p := policyAt(stored.Add(45*time.Minute), 0)
	assert.Equal(t, 15*time.Minute, p.Expiry(stored))
}

func TestNew(t *testing.T) {
	assert.Equal(t, DefaultThreshold, New(0).Threshold)
	assert.Equal(t, time.Minute, New(time.Minute).Threshold)

	var zero Policy
	assert.True(t, zero.Fresh(time.Now().Add(-time.Minute)), "zero policy uses the default threshold and wall clock")
}
