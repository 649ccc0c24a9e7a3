// Package ccm implements AES-CCM (RFC 3610) with the fixed 13-byte nonce
// and 4-byte MIC that Bluetooth Core 5.4 Encrypted Advertising Data uses.
// The standard library's crypto/cipher does not expose a public CCM
// constructor (crypto/tls builds one internally for its own cipher suites,
// but it is not importable), so this is assembled directly from
// crypto/aes's block cipher per RFC 3610 Appendix A.
package ccm

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"
	"errors"
)

const (
	// NonceSize is the CCM nonce length EAD uses: 5-byte randomizer ‖
	// 8-byte IV.
	NonceSize = 13
	// TagSize is the MIC length EAD uses.
	TagSize = 4

	blockSize = 16
	lFieldLen = 2 // max plaintext length 2^16-1, matches L=2 in RFC 3610 terms
)

// Seal encrypts plaintext with key and nonce, authenticating associatedData,
// and returns ciphertext‖tag. len(nonce) must be NonceSize.
func Seal(key, nonce, plaintext, associatedData []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceSize {
		return nil, errors.New("ccm: bad nonce length")
	}
	if len(plaintext) > 0xFFFF {
		return nil, errors.New("ccm: plaintext too large")
	}

	tag := mac(block, nonce, plaintext, associatedData)
	ks := keystream(block, nonce, len(plaintext))

	out := make([]byte, len(plaintext)+TagSize)
	ct := out[:len(plaintext)]
	for i := range plaintext {
		ct[i] = plaintext[i] ^ ks[blockSize+i]
	}
	s0 := ks[:blockSize]
	for i := 0; i < TagSize; i++ {
		out[len(plaintext)+i] = tag[i] ^ s0[i]
	}
	return out, nil
}

// Open reverses Seal, verifying the tag in constant time.
func Open(key, nonce, ciphertextAndTag, associatedData []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceSize {
		return nil, errors.New("ccm: bad nonce length")
	}
	if len(ciphertextAndTag) < TagSize {
		return nil, errors.New("ccm: ciphertext too short")
	}
	ct := ciphertextAndTag[:len(ciphertextAndTag)-TagSize]
	gotTag := ciphertextAndTag[len(ciphertextAndTag)-TagSize:]

	ks := keystream(block, nonce, len(ct))
	pt := make([]byte, len(ct))
	for i := range ct {
		pt[i] = ct[i] ^ ks[blockSize+i]
	}

	tag := mac(block, nonce, pt, associatedData)
	s0 := ks[:blockSize]
	wantTag := make([]byte, TagSize)
	for i := 0; i < TagSize; i++ {
		wantTag[i] = tag[i] ^ s0[i]
	}
	if subtle.ConstantTimeCompare(wantTag, gotTag) != 1 {
		return nil, errors.New("ccm: authentication failed")
	}
	return pt, nil
}

// mac computes the raw (unmasked) CBC-MAC tag, truncated to TagSize bytes.
func mac(block cipher.Block, nonce, plaintext, associatedData []byte) []byte {
	flags := byte(0)
	if len(associatedData) > 0 {
		flags |= 0x40
	}
	flags |= byte((TagSize-2)/2) << 3
	flags |= byte(lFieldLen - 1)

	b0 := make([]byte, blockSize)
	b0[0] = flags
	copy(b0[1:1+NonceSize], nonce)
	binary.BigEndian.PutUint16(b0[1+NonceSize:], uint16(len(plaintext)))

	x := make([]byte, blockSize)
	block.Encrypt(x, b0)

	if len(associatedData) > 0 {
		aBlock := make([]byte, 2+len(associatedData))
		binary.BigEndian.PutUint16(aBlock[:2], uint16(len(associatedData)))
		copy(aBlock[2:], associatedData)
		xorBlocksInto(block, x, aBlock)
	}

	xorBlocksInto(block, x, plaintext)

	return x[:TagSize]
}

// xorBlocksInto runs the CBC-MAC chaining step over data (zero-padded to a
// block boundary), updating x in place.
func xorBlocksInto(block cipher.Block, x []byte, data []byte) {
	buf := make([]byte, blockSize)
	for len(data) > 0 {
		n := copy(buf, data)
		for i := n; i < blockSize; i++ {
			buf[i] = 0
		}
		for i := 0; i < blockSize; i++ {
			buf[i] ^= x[i]
		}
		block.Encrypt(x, buf)
		if n >= len(data) {
			break
		}
		data = data[n:]
	}
}

// keystream returns S0 ‖ S1 ‖ S2 ‖ ... covering enough counter blocks to
// mask n plaintext bytes (S0 is reserved for masking the MIC).
func keystream(block cipher.Block, nonce []byte, n int) []byte {
	flags := byte(lFieldLen - 1)
	numBlocks := 1 + (n+blockSize-1)/blockSize
	out := make([]byte, numBlocks*blockSize)
	a := make([]byte, blockSize)
	for i := 0; i < numBlocks; i++ {
		a[0] = flags
		copy(a[1:1+NonceSize], nonce)
		binary.BigEndian.PutUint16(a[1+NonceSize:], uint16(i))
		block.Encrypt(out[i*blockSize:(i+1)*blockSize], a)
	}
	return out
}
