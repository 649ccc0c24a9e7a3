package advertiser

import (
	"encoding/hex"

	"github.com/muxable/bleadv/internal/ccm"
	"go.uber.org/zap"
)

// adTypeFlags, adTypeTxPowerLevel, and adTypeEncryptedData are the AD type
// octets this package patches or emits.
const (
	adTypeFlags         = 0x01
	adTypeTxPowerLevel  = 0x0A
	adTypeEncryptedData = 0x31
)

const (
	flagsLimitedDiscoverable = 1 << 0
	flagsGeneralDiscoverable = 1 << 1
	flagsBREDRNotSupported   = 1 << 2
)

// buildFlagsAD is §4.3 step 3: length=2, type=FLAGS, value depends on
// duration and PTS non-discoverable mode.
func buildFlagsAD(duration uint16, nonDiscoverable bool) []byte {
	var value byte = flagsBREDRNotSupported
	switch {
	case nonDiscoverable:
		// NON_DISCOVERABLE carries no additional discoverability bit.
	case duration > 0:
		value |= flagsLimitedDiscoverable
	default:
		value |= flagsGeneralDiscoverable
	}
	return []byte{0x02, adTypeFlags, value}
}

// patchTxPower is §9's length-prefix-aware TX-power patch: scan for AD type
// 0x0A and overwrite its value with the cached TX power. Operates on a copy
// so the caller's slice is never mutated in place.
func patchTxPower(data []byte, txPower int8) []byte {
	if len(data) == 0 {
		return data
	}
	out := append([]byte(nil), data...)
	for i := 0; i < len(out); {
		length := int(out[i])
		if length == 0 || i+1+length > len(out) {
			break
		}
		adType := out[i+1]
		if adType == adTypeTxPowerLevel && length >= 2 {
			out[i+2] = byte(txPower)
		}
		i += length + 1
	}
	return out
}

// reverse returns a reversed copy of b.
func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// encryptedDataAAD is the single-byte associated data EAD authenticates.
var encryptedDataAAD = []byte{0xEA}

// wrapEAD is §4.4: AES-128-CCM encrypt enc with the instance's key/IV
// (reversed byte order) and the given randomizer, then LTV-wrap the result
// as an Encrypted Data (0x31) AD structure.
func wrapEAD(key, iv []byte, randomizer [5]byte, enc []byte, logEnabled bool) ([]byte, error) {
	revKey := reverse(key)
	revIV := reverse(iv)
	revRandomizer := reverse(randomizer[:])

	nonce := append(append([]byte{}, revRandomizer...), revIV...)

	if logEnabled {
		zap.L().Debug("ead encrypt",
			zap.String("key", hex.EncodeToString(revKey)),
			zap.String("iv", hex.EncodeToString(revIV)),
			zap.String("randomizer", hex.EncodeToString(revRandomizer)),
			zap.String("nonce", hex.EncodeToString(nonce)),
			zap.String("plaintext", hex.EncodeToString(enc)))
	}

	ciphertextAndMIC, err := ccm.Seal(revKey, nonce, enc, encryptedDataAAD)
	if err != nil {
		return nil, err
	}

	if logEnabled {
		zap.L().Debug("ead encrypt result", zap.String("ciphertext_mic", hex.EncodeToString(ciphertextAndMIC)))
	}

	value := append(append([]byte{}, revRandomizer...), ciphertextAndMIC...)
	out := make([]byte, 2+len(value))
	out[0] = byte(1 + len(value))
	out[1] = adTypeEncryptedData
	copy(out[2:], value)
	return out, nil
}

// keyAndIV resolves the instance's encryption key material: caller-provided
// enc_key_value (16-byte key ‖ 8-byte IV) if present, otherwise GAP-layer
// key material. This stack has no GAP key-material source of its own (GAP
// is an external collaborator), so the zero key/IV stands in for it when
// enc_key_value is absent - callers that need real confidentiality must
// supply enc_key_value.
func keyAndIV(encKeyValue []byte) (key, iv []byte) {
	if len(encKeyValue) == 24 {
		return encKeyValue[:16], encKeyValue[16:24]
	}
	return make([]byte, 16), make([]byte, 8)
}
