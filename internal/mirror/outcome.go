package mirror

// Outcome reports whether a cache operation was served by the local store.
// Mirror operations never return errors: the cache is an optimization, so a
// failure degrades to a miss instead of breaking the feature. Callers that
// care (telemetry, diagnostics) can still observe the degradation here.
type Outcome int

const (
	// OutcomeHit means the local store served the operation
	OutcomeHit Outcome = iota
	// OutcomeMiss means the store was unavailable or the operation failed;
	// the caller received the degraded empty result
	OutcomeMiss
)

// Degraded reports whether the operation fell back to a cache miss
func (o Outcome) Degraded() bool { return o == OutcomeMiss }

func (o Outcome) String() string {
	if o == OutcomeHit {
		return "hit"
	}
	return "miss"
}
