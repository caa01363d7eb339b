package permission

// Mask64 is a 64-bit permission bitmask. The vocabulary is well under
// 64 tags, so a single width covers every role.
type Mask64 uint64

// Has reports whether the given bit is set.
func (m Mask64) Has(bit int) bool {
	if bit < 0 || bit >= 64 {
		return false
	}
	return (m & (1 << bit)) != 0
}

// Set sets the given bit. Out-of-range bits are ignored.
func (m *Mask64) Set(bit int) {
	if bit < 0 || bit >= 64 {
		return
	}
	*m |= 1 << bit
}

// Clear clears the given bit. Out-of-range bits are ignored.
func (m *Mask64) Clear(bit int) {
	if bit < 0 || bit >= 64 {
		return
	}
	*m &^= 1 << bit
}

// Contains reports whether every bit set in other is also set in m.
func (m Mask64) Contains(other Mask64) bool {
	return m&other == other
}

// Raw returns the mask as a plain uint64 for encoding.
func (m Mask64) Raw() uint64 {
	return uint64(m)
}
