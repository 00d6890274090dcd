package rans

import (
	"bytes"
	"testing"
)

func TestTableRoundtripSingleSymbol(t *testing.T) {
	var freqs [256]uint32
	freqs['Z'] = ProbScale
	var w bytes.Buffer
	encSyms := encodeRow(&w, &freqs)

	r := &tableReader{buf: w.Bytes()}
	decSyms, R, err := decodeRow(r, false)
	if err != nil {
		t.Fatalf("decodeRow: %v", err)
	}
	if decSyms['Z'].freq != ProbScale {
		t.Fatalf("decoded freq = %d, want %d", decSyms['Z'].freq, ProbScale)
	}
	if got := encSyms['Z'].cmplFreq; got != 0 {
		t.Fatalf("cmplFreq = %d, want 0 for a symbol owning the whole scale", got)
	}
	for i := 0; i < ProbScale; i++ {
		if R[i] != 'Z' {
			t.Fatalf("R[%d] = %d, want 'Z'", i, R[i])
		}
	}
}

func TestTableRoundtripConsecutiveRun(t *testing.T) {
	var freqs [256]uint32
	// A consecutive run of present symbols exercises the run-length
	// byte; scatter the rest of the scale across them unevenly.
	freqs[5] = 1000
	freqs[6] = 1000
	freqs[7] = 1000
	freqs[8] = ProbScale - 3000

	var w bytes.Buffer
	encodeRow(&w, &freqs)
	// pad so decodeRow's 16-byte lookahead margin is satisfied
	w.Write(make([]byte, 16))

	r := &tableReader{buf: w.Bytes()}
	decSyms, _, err := decodeRow(r, false)
	if err != nil {
		t.Fatalf("decodeRow: %v", err)
	}
	for _, j := range []int{5, 6, 7, 8} {
		if decSyms[j].freq != freqs[j] {
			t.Fatalf("symbol %d: decoded freq = %d, want %d", j, decSyms[j].freq, freqs[j])
		}
	}
}

func TestTableRoundtripTwoByteFrequency(t *testing.T) {
	var freqs [256]uint32
	// Force at least one symbol above the 1-byte (<128) threshold.
	freqs[0] = 200
	freqs[1] = ProbScale - 200

	var w bytes.Buffer
	encodeRow(&w, &freqs)
	// pad so decodeRow's 16-byte lookahead margin is satisfied
	w.Write(make([]byte, 16))

	r := &tableReader{buf: w.Bytes()}
	decSyms, _, err := decodeRow(r, false)
	if err != nil {
		t.Fatalf("decodeRow: %v", err)
	}
	if decSyms[0].freq != 200 {
		t.Fatalf("symbol 0: freq = %d, want 200", decSyms[0].freq)
	}
	if decSyms[1].freq != ProbScale-200 {
		t.Fatalf("symbol 1: freq = %d, want %d", decSyms[1].freq, ProbScale-200)
	}
}

func TestTableOffByOneFillsLastSlot(t *testing.T) {
	// A table whose frequencies sum to ProbScale-1 (legal, per the
	// historical fsum++ in the normaliser) must still produce a fully
	// populated reverse-lookup array.
	freq := uint32(ProbScale - 1)
	hi := byte(0x80 | (freq>>8)&0x7f)
	lo := byte(freq & 0xff)

	var w bytes.Buffer
	w.WriteByte(0)
	w.WriteByte(hi)
	w.WriteByte(lo)
	w.WriteByte(0)
	// pad so decodeRow's 16-byte lookahead margin is satisfied
	w.Write(make([]byte, 16))

	r := &tableReader{buf: w.Bytes()}
	_, R, err := decodeRow(r, false)
	if err != nil {
		t.Fatalf("decodeRow: %v", err)
	}
	if R[ProbScale-1] != R[ProbScale-2] {
		t.Fatalf("R[M-1] = %d, want copy of R[M-2] = %d", R[ProbScale-1], R[ProbScale-2])
	}
}

func TestDecodeRowRejectsOverfullTable(t *testing.T) {
	var w bytes.Buffer
	w.WriteByte(0)                          // first symbol: 0
	w.WriteByte(0x80 | byte(ProbScale>>8))   // freq = ProbScale, high byte
	w.WriteByte(byte(ProbScale & 0xff))      // freq = ProbScale, low byte
	w.WriteByte(5)                          // next symbol: 5 (not 0+1, so no run is inferred)
	w.WriteByte(1)                          // freq = 1, which would overflow the scale
	w.WriteByte(0)
	w.Write(make([]byte, 16))

	r := &tableReader{buf: w.Bytes()}
	if _, _, err := decodeRow(r, false); err != ErrCorrupted {
		t.Fatalf("decodeRow(overfull) = %v, want ErrCorrupted", err)
	}
}

func TestDecodeRowOrder1ZeroFrequencyBecomesUniform(t *testing.T) {
	var w bytes.Buffer
	w.WriteByte(3)  // symbol 3
	w.WriteByte(0)  // stored frequency 0 -> reinterpreted as ProbScale
	w.WriteByte(0)  // terminator
	w.Write(make([]byte, 16))

	r := &tableReader{buf: w.Bytes()}
	syms, R, err := decodeRow(r, true)
	if err != nil {
		t.Fatalf("decodeRow: %v", err)
	}
	if syms[3].freq != ProbScale {
		t.Fatalf("freq = %d, want %d (zero-is-full fallback)", syms[3].freq, ProbScale)
	}
	if R[0] != 3 || R[ProbScale-1] != 3 {
		t.Fatalf("reverse lookup not uniformly symbol 3")
	}
}
