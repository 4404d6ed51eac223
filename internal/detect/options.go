package detect

import "github.com/mapscan-dev/mapscan-backend/internal/detect/notify"

const (
	// NoUser is the sentinel user label attached to notifications when the
	// caller does not supply one.
	NoUser = "NoUser"

	// DefaultThreshold is the minimum run length for bundle detection: any
	// immediate repeat qualifies.
	DefaultThreshold = 2
)

// Options carries the caller-supplied knobs shared by all detectors.
type Options struct {
	// ThresholdService and ThresholdEndpoint are the minimum consecutive
	// run lengths (inclusive) for bundle detection. Zero means default.
	ThresholdService  int
	ThresholdEndpoint int

	// User labels emitted notifications. Empty means NoUser.
	User string

	// Sink receives one notification per finding. Nil means discard.
	Sink notify.Sink
}

func (o Options) withDefaults() Options {
	if o.ThresholdService <= 0 {
		o.ThresholdService = DefaultThreshold
	}
	if o.ThresholdEndpoint <= 0 {
		o.ThresholdEndpoint = DefaultThreshold
	}
	if o.User == "" {
		o.User = NoUser
	}
	if o.Sink == nil {
		o.Sink = notify.Discard{}
	}
	return o
}
