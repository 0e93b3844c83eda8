package retry

import (
	"math"
	"math/rand"
	"time"

	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

// minDelay floors every non-zero backoff so tight loops cannot hammer a
// struggling dependency.
const minDelay = 100 * time.Millisecond

// envDelayCeilings cap the computed backoff per deployment tier,
// independently of the policy, so a misconfigured large delay base cannot
// stall fast environments.
var envDelayCeilings = map[types.EnvironmentType]time.Duration{
	types.EnvTesting:     2 * time.Second,
	types.EnvDevelopment: 10 * time.Second,
	types.EnvStaging:     30 * time.Second,
	types.EnvProduction:  60 * time.Second,
}

// jitterFractions define the symmetric jitter window per strategy.
var jitterFractions = map[types.RetryStrategy]float64{
	types.RetryExponential: 0.25,
	types.RetryLinear:      0.10,
	types.RetryFixed:       0.05,
}

// Backoff computes the sleep before the attempt after attempt number
// `attempt` (zero-based). The jitter source is a [0,1) float; pass
// rand.Float64 outside tests.
func Backoff(policy types.RetryPolicy, attempt int, env types.EnvironmentType, jitter func() float64) time.Duration {
	if policy.Strategy == types.RetryNone {
		return 0
	}
	if jitter == nil {
		jitter = rand.Float64
	}

	base := policy.DelayBase.Seconds()
	var raw float64
	switch policy.Strategy {
	case types.RetryExponential:
		raw = base * math.Pow(2, float64(attempt))
	case types.RetryLinear:
		raw = base * float64(1+attempt)
	default:
		raw = base
	}

	frac := jitterFractions[policy.Strategy]
	// jitter() in [0,1) maps onto [-frac, +frac).
	raw *= 1 + frac*(2*jitter()-1)

	d := time.Duration(raw * float64(time.Second))
	if d < minDelay {
		d = minDelay
	}
	if ceiling, ok := envDelayCeilings[env]; ok && d > ceiling {
		d = ceiling
	}
	return d
}
