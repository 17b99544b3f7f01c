package krformat

// ByteLength counts display bytes the way the legacy EUC-KR forms did:
// ASCII counts 1, everything else (Hangul included) counts 2.
func ByteLength(s string) int {
	n := 0
	for _, r := range s {
		if r > 127 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// WithinByteLength reports whether s fits in [min, max] display bytes.
func WithinByteLength(s string, min, max int) bool {
	n := ByteLength(s)
	return n >= min && n <= max
}
