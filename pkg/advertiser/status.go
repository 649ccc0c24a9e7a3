package advertiser

import "fmt"

// Status is the status plane that crosses every completion callback in the
// public API: either a raw HCI status byte propagated verbatim from the
// controller, or one of a small set of host-detected conditions. It
// implements error so callers that only want Go idiom can treat it as one,
// while callers that need the wire byte can type-assert back to Status.
type Status uint8

const (
	StatusSuccess Status = 0x00

	// StatusFeatureUnsupported mirrors HCI error 0x05 (Hardware
	// Failure/Unsupported Feature) and doubles as the host-detected
	// "encrypted data requested but the feature flag is off" and "BIG
	// requested without controller support" cases.
	StatusFeatureUnsupported Status = 0x05

	// StatusLimitReached and StatusAdvertisingTimeout are the two
	// HCI Advertising Set Terminated statuses treated as a normal
	// end-of-duration, not an error (Core 5.4 Vol 4, Part E, 7.7.65.18).
	StatusLimitReached       Status = 0x43
	StatusAdvertisingTimeout Status = 0x3C

	// Host-only statuses with no HCI wire equivalent, assigned values
	// outside the HCI status byte range's active use so they remain
	// distinguishable in logs.
	StatusTooManyAdvertisers Status = 0xF0
	StatusMultiAdvFailure    Status = 0xF1
	StatusUnregistered       Status = 0xF2
)

func (s Status) Error() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFeatureUnsupported:
		return "feature unsupported"
	case StatusLimitReached:
		return "limit reached"
	case StatusAdvertisingTimeout:
		return "advertising timeout"
	case StatusTooManyAdvertisers:
		return "too many advertisers"
	case StatusMultiAdvFailure:
		return "multi adv failure"
	case StatusUnregistered:
		return "instance not registered"
	default:
		return fmt.Sprintf("hci status 0x%02x", uint8(s))
	}
}

// IsTerminal reports whether the status represents an expected end of an
// advertising set's duration rather than a failure.
func (s Status) IsTerminal() bool {
	return s == StatusLimitReached || s == StatusAdvertisingTimeout
}
