package advertiser

import (
	"testing"

	"github.com/muxable/bleadv/pkg/hci"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFragmentSplitsAt251(t *testing.T) {
	payload := make([]byte, 300)
	for i := range payload {
		payload[i] = byte(i)
	}

	type chunk struct {
		op  hci.DataOperation
		n   int
	}
	var chunks []chunk
	var finalStatus Status

	fragment(payload, hci.MaxExtendedAdvertisingDataFragmentLength, func(op hci.DataOperation, data []byte, cb func(Status)) {
		chunks = append(chunks, chunk{op, len(data)})
		cb(StatusSuccess)
	}, func(status Status) {
		finalStatus = status
	})

	require.Len(t, chunks, 2)
	assert.Equal(t, hci.DataOperationFirst, chunks[0].op)
	assert.Equal(t, 251, chunks[0].n)
	assert.Equal(t, hci.DataOperationLast, chunks[1].op)
	assert.Equal(t, 49, chunks[1].n)
	assert.Equal(t, StatusSuccess, finalStatus)
}

func TestFragmentRoundTrip(t *testing.T) {
	payload := make([]byte, 613)
	for i := range payload {
		payload[i] = byte(i * 3)
	}

	var reassembled []byte
	fragment(payload, hci.MaxExtendedAdvertisingDataFragmentLength, func(op hci.DataOperation, data []byte, cb func(Status)) {
		reassembled = append(reassembled, data...)
		cb(StatusSuccess)
	}, func(Status) {})

	assert.Equal(t, payload, reassembled)
}

func TestFragmentFitsInOneChunk(t *testing.T) {
	payload := []byte{1, 2, 3}
	var ops []hci.DataOperation
	fragment(payload, hci.MaxExtendedAdvertisingDataFragmentLength, func(op hci.DataOperation, data []byte, cb func(Status)) {
		ops = append(ops, op)
		cb(StatusSuccess)
	}, func(Status) {})

	require.Len(t, ops, 1)
	assert.Equal(t, hci.DataOperationComplete, ops[0])
}

func TestFragmentEmptyPayload(t *testing.T) {
	var gotData []byte
	var gotOp hci.DataOperation
	called := false
	fragment(nil, hci.MaxExtendedAdvertisingDataFragmentLength, func(op hci.DataOperation, data []byte, cb func(Status)) {
		called = true
		gotOp = op
		gotData = data
		cb(StatusSuccess)
	}, func(Status) {})

	assert.True(t, called)
	assert.Equal(t, hci.DataOperationComplete, gotOp)
	assert.Len(t, gotData, 0)
}

func TestFragmentAbortsOnFirstFailure(t *testing.T) {
	payload := make([]byte, 600)
	var calls int
	var finalStatus Status
	fragment(payload, hci.MaxExtendedAdvertisingDataFragmentLength, func(op hci.DataOperation, data []byte, cb func(Status)) {
		calls++
		if calls == 1 {
			cb(StatusMultiAdvFailure)
			return
		}
		cb(StatusSuccess)
	}, func(status Status) {
		finalStatus = status
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, StatusMultiAdvFailure, finalStatus)
}
