package advertiser

import (
	"testing"

	"github.com/muxable/bleadv/internal/ccm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialBytes(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i)
	}
	return out
}

func TestWrapEADStructure(t *testing.T) {
	key := sequentialBytes(16)    // 0x00..0x0F
	iv := sequentialBytes(8)      // 0x00..0x07
	randomizer := [5]byte{0x01, 0x02, 0x03, 0x04, 0x05}
	plaintext := []byte{0x03, 0x16, 0x51, 0x18}

	ltv, err := wrapEAD(key, iv, randomizer, plaintext, false)
	require.NoError(t, err)

	// value = randomizer(5) ‖ ciphertext(len(plaintext)) ‖ MIC(4)
	wantValueLen := 5 + len(plaintext) + 4
	require.Len(t, ltv, 2+wantValueLen)
	assert.EqualValues(t, 1+wantValueLen, ltv[0])
	assert.EqualValues(t, adTypeEncryptedData, ltv[1])

	gotRevRandomizer := ltv[2 : 2+5]
	assert.Equal(t, reverse(randomizer[:]), gotRevRandomizer)
}

func TestWrapEADRoundTrip(t *testing.T) {
	key := sequentialBytes(16)
	iv := sequentialBytes(8)
	randomizer := [5]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE}
	plaintext := []byte("broadcast audio announcement")

	ltv, err := wrapEAD(key, iv, randomizer, plaintext, false)
	require.NoError(t, err)

	value := ltv[2:]
	revRandomizer := value[:5]
	ciphertextAndMIC := value[5:]

	nonce := append(append([]byte{}, revRandomizer...), reverse(iv)...)
	pt, err := ccm.Open(reverse(key), nonce, ciphertextAndMIC, encryptedDataAAD)
	require.NoError(t, err)
	assert.Equal(t, plaintext, pt)
}

func TestPatchTxPowerIsLengthPrefixAware(t *testing.T) {
	data := []byte{
		0x02, adTypeFlags, 0x06,
		0x02, adTypeTxPowerLevel, 0x00,
		0x03, 0x16, adTypeTxPowerLevel, 0x99, // a value byte that happens to equal the TX power AD type
	}
	txPower := int8(-40)
	patched := patchTxPower(data, txPower)

	assert.EqualValues(t, byte(txPower), patched[5])
	assert.EqualValues(t, 0x99, patched[9], "byte inside another structure must not be mistaken for an AD type")
}

func TestIsBroadcastUUIDPresent(t *testing.T) {
	data := []byte{0x03, 0x16, 0x51, 0x18}
	assert.True(t, isBroadcastUUIDPresent(data))
	assert.False(t, isBroadcastUUIDPresent([]byte{0x03, 0x16, 0x0d, 0x18}))
}
