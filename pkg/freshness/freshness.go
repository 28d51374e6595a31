package freshness

import "time"

// DefaultThreshold is how long a cached list is served before it's refetched.
const DefaultThreshold = time.Hour

// Policy decides whether a cached entry is still usable given when it was
// stored. The threshold is global, not per key.
type Policy struct {
	Threshold time.Duration
	Clock     func() time.Time
}

// New returns a Policy with the given threshold. A zero or negative threshold
// selects DefaultThreshold.
func New(threshold time.Duration) Policy {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Policy{Threshold: threshold, Clock: time.Now}
}

// Now is the policy's notion of the current time
func (p Policy) Now() time.Time {
	if p.Clock == nil {
		return time.Now()
	}
	return p.Clock()
}

// Fresh reports whether an entry stored at storedAt may still be served.
//
// A zero timestamp is always stale, as is one from the future: if the clock
// went backwards there's no telling how old the entry really is.
func (p Policy) Fresh(storedAt time.Time) bool {
	return p.Expiry(storedAt) > 0
}

// Expiry returns how much longer an entry stored at storedAt stays fresh, or
// zero if it's already stale.
func (p Policy) Expiry(storedAt time.Time) time.Duration {
	if storedAt.IsZero() {
		return 0
	}
	threshold := p.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	age := p.Now().Sub(storedAt)
	if age < 0 || age >= threshold {
		return 0
	}
	return threshold - age
}
