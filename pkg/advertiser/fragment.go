package advertiser

import "github.com/muxable/bleadv/pkg/hci"

// sendChunkFunc issues one HCI data fragment and reports its completion
// status asynchronously.
type sendChunkFunc func(op hci.DataOperation, chunk []byte, cb func(Status))

// fragment is §4.5: splits payload into maxChunk-sized pieces and sends
// them serially through send, only issuing the next chunk from the
// completion callback of the previous one. The chain aborts on the first
// non-zero status.
func fragment(payload []byte, maxChunk int, send sendChunkFunc, cb func(Status)) {
	if len(payload) == 0 {
		send(hci.DataOperationComplete, nil, cb)
		return
	}
	if len(payload) <= maxChunk {
		send(hci.DataOperationComplete, payload, cb)
		return
	}

	var step func(offset int, op hci.DataOperation)
	step = func(offset int, op hci.DataOperation) {
		end := offset + maxChunk
		isLast := false
		if end >= len(payload) {
			end = len(payload)
			isLast = true
		}
		chunkOp := op
		if isLast {
			chunkOp = hci.DataOperationLast
		}
		send(chunkOp, payload[offset:end], func(status Status) {
			if status != StatusSuccess || isLast {
				cb(status)
				return
			}
			step(end, hci.DataOperationIntermediate)
		})
	}
	step(0, hci.DataOperationFirst)
}
