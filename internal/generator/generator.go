package generator

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Block layout constants
const (
	// Tag opens every block
	Tag = "helodata"

	// HeaderSize is the tag plus the little-endian uint32 block index
	HeaderSize = len(Tag) + 4

	// WordSize is the width of each generated word in bytes
	WordSize = 4

	DefaultBlockSize  = 512
	DefaultBlockCount = 400

	// MaxBlockCount is the number of distinct uint32 block indices
	MaxBlockCount int64 = 1 << 32
)

// ErrInvalidBlockSize is returned for block sizes that cannot hold a header
// followed by a whole number of words.
var ErrInvalidBlockSize = errors.New("invalid block size")

// ValidateLayout checks that blockSize is at least HeaderSize and that the
// space after the header is a whole number of words.
func ValidateLayout(blockSize int) error {
	if blockSize < HeaderSize {
		return fmt.Errorf("%w: %d is smaller than the %d-byte header", ErrInvalidBlockSize, blockSize, HeaderSize)
	}
	if (blockSize-HeaderSize)%WordSize != 0 {
		return fmt.Errorf("%w: %d leaves %d trailing bytes after the header", ErrInvalidBlockSize, blockSize, (blockSize-HeaderSize)%WordSize)
	}
	return nil
}

// WordCount returns the number of LCG words in a block of blockSize bytes
func WordCount(blockSize int) int {
	return (blockSize - HeaderSize) / WordSize
}

// Builder produces blocks of a fixed size
type Builder struct {
	blockSize int
	words     int
}

// NewBuilder creates a builder for the given block size
func NewBuilder(blockSize int) (*Builder, error) {
	if err := ValidateLayout(blockSize); err != nil {
		return nil, err
	}
	return &Builder{
		blockSize: blockSize,
		words:     WordCount(blockSize),
	}, nil
}

var defaultBuilder = &Builder{
	blockSize: DefaultBlockSize,
	words:     WordCount(DefaultBlockSize),
}

// BuildBlock returns block n using the default 512-byte layout
func BuildBlock(n uint32) []byte {
	return defaultBuilder.Build(n)
}

// BlockSize returns the size of every block this builder produces
func (b *Builder) BlockSize() int {
	return b.blockSize
}

// WordCount returns the number of LCG words per block
func (b *Builder) WordCount() int {
	return b.words
}

// Build returns a freshly allocated block for index n
func (b *Builder) Build(n uint32) []byte {
	return b.AppendBlock(make([]byte, 0, b.blockSize), n)
}

// AppendBlock appends block n to dst and returns the extended slice.
// The recurrence restarts from n, so blocks never depend on each other.
func (b *Builder) AppendBlock(dst []byte, n uint32) []byte {
	dst = append(dst, Tag...)
	dst = binary.LittleEndian.AppendUint32(dst, n)

	lcg := NewLCG(n)
	for i := 0; i < b.words; i++ {
		dst = binary.LittleEndian.AppendUint32(dst, lcg.Next())
	}
	return dst
}
