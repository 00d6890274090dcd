package rans

import "bytes"

// compressO0 encodes in with a single, whole-buffer order-0 frequency
// model and four interleaved rANS streams.
func compressO0(in []byte) ([]byte, error) {
	var counts [256]uint32
	for _, b := range in {
		counts[b]++
	}
	freqs := normalizeO0(counts, uint32(len(in)))

	var table bytes.Buffer
	syms := encodeRow(&table, &freqs)

	n := len(in)
	payload := make([]byte, payloadBufferSize(n))
	pos := len(payload)

	s0, s1, s2, s3 := uint32(RansL), uint32(RansL), uint32(RansL), uint32(RansL)

	// Handle the 0-3 trailing bytes that don't fill a full group of
	// four, so the main loop below can always consume exactly 4 bytes
	// per iteration.
	rem := n & 3
	switch rem {
	case 3:
		putSymbol(&s2, payload, &pos, &syms[in[n-(rem-2)]])
		fallthrough
	case 2:
		putSymbol(&s1, payload, &pos, &syms[in[n-(rem-1)]])
		fallthrough
	case 1:
		putSymbol(&s0, payload, &pos, &syms[in[n-(rem-0)]])
	}

	for i := n &^ 3; i > 0; i -= 4 {
		putSymbol(&s3, payload, &pos, &syms[in[i-1]])
		putSymbol(&s2, payload, &pos, &syms[in[i-2]])
		putSymbol(&s1, payload, &pos, &syms[in[i-3]])
		putSymbol(&s0, payload, &pos, &syms[in[i-4]])
	}

	flush(s3, payload, &pos)
	flush(s2, payload, &pos)
	flush(s1, payload, &pos)
	flush(s0, payload, &pos)

	return assembleBlock(0, n, table.Bytes(), payload, pos), nil
}

// decompressO0 reverses compressO0, reading the table starting right
// after the 9-byte header and writing exactly outSize decoded bytes.
func decompressO0(in []byte, outSize uint32) ([]byte, error) {
	r := &tableReader{buf: in, pos: headerSize}
	syms, R, err := decodeRow(r, false)
	if err != nil {
		return nil, err
	}
	if r.remaining() < 16 {
		return nil, ErrCorrupted
	}

	ptr := r.pos
	var s [4]uint32
	for k := range s {
		s[k] = decInit(in, &ptr)
		if s[k] < RansL {
			return nil, ErrCorrupted
		}
	}

	out := make([]byte, outSize)
	mask := uint32(ProbScale - 1)
	outEnd := int(outSize) &^ 3
	end := len(in)

	for i := 0; i < outEnd; i += 4 {
		var m [4]uint32
		var c [4]byte
		for k := 0; k < 4; k++ {
			m[k] = s[k] & mask
			c[k] = R[m[k]]
		}
		out[i+0], out[i+1], out[i+2], out[i+3] = c[0], c[1], c[2], c[3]

		for k := 0; k < 4; k++ {
			sym := syms[c[k]]
			s[k] = sym.freq*(s[k]>>ProbBits) + m[k] - sym.start
		}

		if ptr < end-8 {
			for k := 0; k < 4; k++ {
				renorm(&s[k], in, &ptr)
			}
		} else {
			for k := 0; k < 4; k++ {
				renormSafe(&s[k], in, &ptr, end)
			}
		}
	}

	switch int(outSize) & 3 {
	case 3:
		out[outEnd+2] = R[s[2]&mask]
		fallthrough
	case 2:
		out[outEnd+1] = R[s[1]&mask]
		fallthrough
	case 1:
		out[outEnd] = R[s[0]&mask]
	}

	return out, nil
}
