package advertiser

// Config is the plain struct of flags passed to Initialize. The stack has
// no config-file layer of its own (HAL/config parsing is an external
// collaborator), so this is set once at startup and not reloaded.
type Config struct {
	// EncAdvDataEnabled gates whether any *_enc payload is accepted at
	// all; StartAdvertisingSet/SetData fail with StatusFeatureUnsupported
	// otherwise.
	EncAdvDataEnabled bool

	// EncAdvDataLogEnabled additionally emits Debug-level hex dumps of
	// key/IV/randomizer/nonce/plaintext/ciphertext from the encryption
	// engine. Never gates anything above Debug, so key material never
	// ships at a log level enabled by default.
	EncAdvDataLogEnabled bool

	// RPAGenOffloadEnabled means the controller generates and rotates
	// resolvable private addresses itself; StartAdvertisingSet then skips
	// host-side RPA generation and SetRandomAddress. In neither mode does
	// the manager arm a timer that rotates the address after the set starts.
	RPAGenOffloadEnabled bool

	// PTSNonDiscoverableMode forces the Flags AD value to
	// NON_DISCOVERABLE regardless of duration, for PTS qualification
	// test modes that expect that specific value.
	PTSNonDiscoverableMode bool

	// MaxAdvertisingInstances caps the instance table size if nonzero;
	// otherwise the controller-reported LE Read Number of Supported
	// Advertising Sets value is used.
	MaxAdvertisingInstances uint8

	// SkipRPARotations is how many ConfigureRpa invocations a
	// broadcast (skip_rpa) set ignores before rotating once.
	SkipRPARotations uint8
}

// DefaultSkipRPARotations matches the throttle the original multi-advertiser
// implementation uses for Public Broadcast Announcement sets.
const DefaultSkipRPARotations = 15

func (c *Config) skipRPARotations() uint8 {
	if c.SkipRPARotations == 0 {
		return DefaultSkipRPARotations
	}
	return c.SkipRPARotations
}
