package rans

import "bytes"

// compressO1 encodes in with an order-1 (previous-byte-conditioned)
// frequency model. Four interleaved rANS streams each walk a quarter of
// the input, so the four-way split needs at least four bytes to seed
// correctly; smaller inputs fall back to order-0.
func compressO1(in []byte) ([]byte, error) {
	n := len(in)
	if n < 4 {
		return compressO0(in)
	}

	var counts [256][256]uint32
	var totals [256]uint32
	last := byte(0)
	for i := 0; i < n; i++ {
		c := in[i]
		counts[last][c]++
		totals[last]++
		last = c
	}
	// Sentinel bumps so every quarter boundary's context row has at
	// least one entry, matching the reference encoder: without them a
	// row that the decoder's interleaved quarter-boundaries depend on
	// could come out empty.
	counts[0][in[1*(n>>2)]]++
	counts[0][in[2*(n>>2)]]++
	counts[0][in[3*(n>>2)]]++
	totals[0] += 3

	var table bytes.Buffer
	var syms [256][256]encSymbol
	rle := 0
	for i := 0; i < 256; i++ {
		if totals[i] == 0 {
			continue
		}
		freqs := normalizeO1Row(&counts[i], totals[i])

		if rle > 0 {
			rle--
		} else {
			table.WriteByte(byte(i))
			if i > 0 && totals[i-1] != 0 {
				k := i + 1
				for k < 256 && totals[k] != 0 {
					k++
				}
				rle = k - (i + 1)
				table.WriteByte(byte(rle))
			}
		}
		syms[i] = encodeRow(&table, &freqs)
	}
	table.WriteByte(0)

	payload := make([]byte, payloadBufferSize(n))
	pos := len(payload)

	s0, s1, s2, s3 := uint32(RansL), uint32(RansL), uint32(RansL), uint32(RansL)

	isz4 := n >> 2
	i0 := 1*isz4 - 2
	i1 := 2*isz4 - 2
	i2 := 3*isz4 - 2
	i3 := 4*isz4 - 2

	l0 := in[i0+1]
	l1 := in[i1+1]
	l2 := in[i2+1]
	l3 := in[n-1]

	for t := n - 2; t > 4*isz4-2; t-- {
		c3 := in[t]
		putSymbol(&s3, payload, &pos, &syms[c3][l3])
		l3 = c3
	}

	for i0 >= 0 {
		c0 := in[i0]
		c1 := in[i1]
		c2 := in[i2]
		c3 := in[i3]
		putSymbol(&s3, payload, &pos, &syms[c3][l3])
		putSymbol(&s2, payload, &pos, &syms[c2][l2])
		putSymbol(&s1, payload, &pos, &syms[c1][l1])
		putSymbol(&s0, payload, &pos, &syms[c0][l0])
		l0, l1, l2, l3 = c0, c1, c2, c3
		i0--
		i1--
		i2--
		i3--
	}

	putSymbol(&s3, payload, &pos, &syms[0][l3])
	putSymbol(&s2, payload, &pos, &syms[0][l2])
	putSymbol(&s1, payload, &pos, &syms[0][l1])
	putSymbol(&s0, payload, &pos, &syms[0][l0])

	flush(s3, payload, &pos)
	flush(s2, payload, &pos)
	flush(s1, payload, &pos)
	flush(s0, payload, &pos)

	return assembleBlock(1, n, table.Bytes(), payload, pos), nil
}

// decompressO1 reverses compressO1. If the header's uncompressed size is
// small enough that Compress would have fallen back to order-0, this
// never runs: the order byte in the header already says 0.
func decompressO1(in []byte, outSize uint32) ([]byte, error) {
	r := &tableReader{buf: in, pos: headerSize}

	var syms [256][256]decSymbol
	R := make([]byte, 256*ProbScale)

	rle := 0
	firstByte, err := r.readByte()
	if err != nil {
		return nil, ErrCorrupted
	}
	i := int(firstByte)
	for {
		rowSyms, rowR, err := decodeRow(r, true)
		if err != nil {
			return nil, err
		}
		syms[i] = rowSyms
		copy(R[i*ProbScale:(i+1)*ProbScale], rowR)

		peek, ok := r.peekInt()
		switch {
		case rle == 0 && ok && i+1 == peek:
			b1, err1 := r.readByte()
			b2, err2 := r.readByte()
			if err1 != nil || err2 != nil {
				return nil, ErrCorrupted
			}
			i = int(b1)
			rle = int(b2)
		case rle > 0:
			rle--
			i++
			if i > 255 {
				return nil, ErrCorrupted
			}
		default:
			nb, err := r.readByte()
			if err != nil {
				return nil, ErrCorrupted
			}
			i = int(nb)
		}
		if i == 0 {
			break
		}
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
	isz4 := int(outSize) >> 2
	l := [4]int{0, 0, 0, 0}
	idx := [4]int{0, isz4, 2 * isz4, 3 * isz4}
	mask := uint32(ProbScale - 1)
	end := len(in)

	for idx[0] < isz4 {
		var m [4]uint32
		var c [4]byte
		for k := 0; k < 4; k++ {
			m[k] = s[k] & mask
			c[k] = R[l[k]*ProbScale+int(m[k])]
		}
		out[idx[0]], out[idx[1]], out[idx[2]], out[idx[3]] = c[0], c[1], c[2], c[3]

		for k := 0; k < 4; k++ {
			sym := syms[l[k]][c[k]]
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

		l[0], l[1], l[2], l[3] = int(c[0]), int(c[1]), int(c[2]), int(c[3])
		idx[0]++
		idx[1]++
		idx[2]++
		idx[3]++
	}

	// Stream 3 alone carries any input length not divisible by 4,
	// continuing to the very end of the output.
	for idx[3] < int(outSize) {
		m3 := s[3] & mask
		c3 := R[l[3]*ProbScale+int(m3)]
		out[idx[3]] = c3
		sym := syms[l[3]][c3]
		s[3] = sym.freq*(s[3]>>ProbBits) + m3 - sym.start
		renormSafe(&s[3], in, &ptr, end)
		l[3] = int(c3)
		idx[3]++
	}

	return out, nil
}
