package masterclock

// gcd64 returns the greatest common divisor of a and b using the standard
// Euclidean algorithm. Pre-condition: a, b >= 0 and at least one is > 0.
func gcd64(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// lcm64 returns the least common multiple of a and b. The division happens
// before the multiplication to reduce overflow risk, per §4.A.
// Pre-condition: a, b >= 0 and at least one is > 0.
func lcm64(a, b uint64) uint64 {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	return a * (b / gcd64(a, b))
}

// gcd32 and lcm32 are the 32-bit-width counterparts, for values known to fit
// comfortably in 32 bits; the schedule compiler itself uses only the 64-bit
// helpers, since Clockable reports hertz as uint64. Both widths are kept because the source
// design calls for GCD/LCM "over 32- and 64-bit widths" (§4.A); the
// picosecond-scale period computation needs the 64-bit width even when every
// individual frequency fits in 32 bits.
func gcd32(a, b uint32) uint32 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm32(a, b uint32) uint32 {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	return a * (b / gcd32(a, b))
}
