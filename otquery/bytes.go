package otquery

// u16 returns the big-endian uint16 at the start of b.
func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}
