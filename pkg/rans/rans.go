// Package rans provides memory-to-memory entropy coding using interleaved
// rANS (range Asymmetric Numeral Systems), in order-0 and order-1 byte
// models. The wire format and arithmetic are bit-compatible with the
// htslib/CRAM rANS codec: 12-bit probability scale, 4-way interleaved
// 32-bit state, L = 1<<23.
//
// The package does one thing: take a whole buffer in, produce a whole
// buffer out, synchronously. There is no streaming, no adaptive
// modelling, and no container format above the single compressed block
// described by Compress and Decompress.
package rans

import (
	"encoding/binary"
	"errors"
)

const (
	// ProbBits is the number of bits of probability precision (TF_SHIFT
	// in the reference implementation).
	ProbBits = 12
	// ProbScale is the total frequency budget of a symbol table
	// (TOTFREQ = 1<<ProbBits). Normalised tables sum to ProbScale-1;
	// decoding accepts a sum of ProbScale-1 or ProbScale.
	ProbScale = 1 << ProbBits
	// RansL is the lower bound of the normalized encoder/decoder state.
	RansL = 1 << 23
)

// headerSize is the length in bytes of the compressed block header: one
// order byte, a little-endian uint32 compressed size (excluding this
// header), and a little-endian uint32 uncompressed size.
const headerSize = 9

// tableSafetyMargin upper-bounds the serialized frequency table size: up
// to 257 contexts (256 plus the order-1 outer terminator), each with up
// to 257 table entries of at most 3 bytes.
const tableSafetyMargin = 257 * 257 * 3

var (
	// ErrEmptyInput is returned by Compress when given a zero-length
	// buffer: there is no frequency distribution to normalize.
	ErrEmptyInput = errors.New("rans: input is empty")
	// ErrCorrupted is returned by Decompress when the compressed block
	// fails a structural check: a malformed frequency table, a state
	// that doesn't meet the renormalization invariant, or truncated
	// input.
	ErrCorrupted = errors.New("rans: corrupted or malformed compressed block")
	// ErrInvalidOrder is returned when order is neither 0 nor 1, or when
	// a compressed block's header names an order outside that range.
	ErrInvalidOrder = errors.New("rans: order must be 0 or 1")
	// ErrSizeMismatch is returned when a compressed block's header size
	// field disagrees with the buffer's actual length.
	ErrSizeMismatch = errors.New("rans: stored size does not match block length")
	// ErrTooShort is returned when a buffer is too small to hold even
	// an empty compressed block for its stated order.
	ErrTooShort = errors.New("rans: block shorter than minimum header")
)

// Compress encodes in with an order-0 or order-1 byte model. order must
// be 0 or 1. An order-1 request on fewer than four bytes silently falls
// back to order-0, matching the reference encoder, since an order-1
// model needs at least four bytes to seed its four interleaved streams.
func Compress(in []byte, order int) ([]byte, error) {
	if len(in) == 0 {
		return nil, ErrEmptyInput
	}
	switch order {
	case 0:
		return compressO0(in)
	case 1:
		return compressO1(in)
	default:
		return nil, ErrInvalidOrder
	}
}

// Decompress reverses Compress. The modelling order and uncompressed
// size are read from the 9-byte header at the start of in.
func Decompress(in []byte) ([]byte, error) {
	if len(in) < headerSize {
		return nil, ErrTooShort
	}
	order := in[0]
	if order != 0 && order != 1 {
		return nil, ErrInvalidOrder
	}

	minLen := 26
	if order == 1 {
		minLen = 27
	}
	if len(in) < minLen {
		return nil, ErrTooShort
	}

	compSize := binary.LittleEndian.Uint32(in[1:5])
	outSize := binary.LittleEndian.Uint32(in[5:9])
	if compSize != uint32(len(in)-headerSize) {
		return nil, ErrSizeMismatch
	}
	if outSize == 0 {
		return []byte{}, nil
	}

	if order == 1 {
		return decompressO1(in, outSize)
	}
	return decompressO0(in, outSize)
}

// assembleBlock writes the 9-byte header and concatenates the serialized
// frequency table with the encoded payload. payload[pos:] is the tail of
// the reverse-written payload buffer actually used.
func assembleBlock(order byte, inSize int, table []byte, payload []byte, pos int) []byte {
	payloadLen := len(payload) - pos
	tableSize := len(table)
	compSize := tableSize + payloadLen

	out := make([]byte, headerSize+compSize)
	out[0] = order
	binary.LittleEndian.PutUint32(out[1:5], uint32(compSize))
	binary.LittleEndian.PutUint32(out[5:9], uint32(inSize))
	copy(out[headerSize:headerSize+tableSize], table)
	copy(out[headerSize+tableSize:], payload[pos:])
	return out
}

// payloadBufferSize returns an upper bound on the space needed for the
// reverse-written encoded payload of an n-byte input: a 5% margin over
// the input plus the worst-case table size and header, mirroring the
// allocate-once-free-on-every-path sizing of the reference encoder.
func payloadBufferSize(n int) int {
	return int(1.05*float64(n)) + tableSafetyMargin + headerSize
}
