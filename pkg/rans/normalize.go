package rans

// normalizeO0 rescales raw order-0 symbol counts so they sum to exactly
// ProbScale, using the reference implementation's fixed-point ratio.
//
// The fsum++ below is deliberate and load-bearing, not a stray bug: the
// reference always counts one more unit than the loop actually produced
// before deciding how to correct the total, which is also the reason
// the last reverse-lookup slot (see table.go) has to be patched up
// separately at decode time. Removing it changes the wire format.
func normalizeO0(counts [256]uint32, total uint32) [256]uint32 {
	// work holds the frequencies the current pass scales from. On the
	// first pass that's the raw counts; on a 0.98 restart the reference
	// mutates F in place and re-scales the already-normalised values, so
	// each restart here has to read back the previous pass's freqs, not
	// the raw counts again, or the restart never converges.
	work := counts
	tr := (uint64(ProbScale)<<31)/uint64(total) + (uint64(1)<<30)/uint64(total)

	for {
		var freqs [256]uint32
		var fsum, m uint32
		mIdx := 0
		for j := 0; j < 256; j++ {
			c := work[j]
			if c == 0 {
				continue
			}
			if m < c {
				m = c
				mIdx = j
			}
			f := uint32((uint64(c) * tr) >> 31)
			if f == 0 {
				f = 1
			}
			freqs[j] = f
			fsum += f
		}
		fsum++

		switch {
		case fsum < ProbScale:
			freqs[mIdx] += ProbScale - fsum
		case fsum-ProbScale > freqs[mIdx]/2:
			// The normal ratio overshot badly enough that subtracting
			// the excess from the largest symbol would flip its rank;
			// restart with the conservative 0.98 scale-down instead.
			tr = 2104533975 // 0.98 * 2^31, fixed-point
			work = freqs
			continue
		default:
			freqs[mIdx] -= fsum - ProbScale
		}
		return freqs
	}
}

// normalizeO1Row rescales one order-1 context row using a floating-point
// ratio, unlike normalizeO0's fixed-point one. Kept distinct rather than
// unified: unifying them would shift rounding at the margins.
func normalizeO1Row(counts *[256]uint32, total uint32) [256]uint32 {
	// Same in-place-mutation requirement as normalizeO0: a 0.98 restart
	// rescales the previous pass's normalised row, not the raw counts.
	work := *counts
	p := float64(ProbScale) / float64(total)

	for {
		var freqs [256]uint32
		var fsum, m uint32
		mIdx := 0
		for j := 0; j < 256; j++ {
			c := work[j]
			if c == 0 {
				continue
			}
			if m < c {
				m = c
				mIdx = j
			}
			f := uint32(float64(c) * p)
			if f == 0 {
				f = 1
			}
			freqs[j] = f
			fsum += f
		}
		fsum++

		switch {
		case fsum < ProbScale:
			freqs[mIdx] += ProbScale - fsum
		case fsum-ProbScale >= freqs[mIdx]/2:
			p = 0.98
			work = freqs
			continue
		default:
			freqs[mIdx] -= fsum - ProbScale
		}
		return freqs
	}
}
