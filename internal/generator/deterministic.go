package generator

// Lehmer generator parameters from L'Ecuyer, "Tables of Linear Congruential
// Generators of Different Sizes and Good Lattice Structure" (1999).
const (
	Modulus    uint64 = 1<<32 - 5 // 4294967291, prime
	Multiplier uint64 = 1815976680
)

// SequenceStep advances the recurrence by one: (x * Multiplier) mod Modulus.
// The product is formed in 64 bits so it cannot overflow.
func SequenceStep(x uint32) uint32 {
	return uint32((uint64(x) * Multiplier) % Modulus)
}

// LCG holds the state of one block's sequence
type LCG struct {
	x uint32
}

// NewLCG creates a generator seeded with seed
func NewLCG(seed uint32) *LCG {
	return &LCG{x: seed}
}

// Next advances the state and returns it
func (l *LCG) Next() uint32 {
	l.x = SequenceStep(l.x)
	return l.x
}

// GenerateDeterministicBlockData returns block n of the default layout and its
// checksum. Every call with the same n yields the same bytes and checksum.
func GenerateDeterministicBlockData(n uint32) ([]byte, string) {
	data := BuildBlock(n)
	return data, ComputeChecksum(data)
}
