package telink

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// LambdaBitmap is the wavelength availability of a WDM link. Bit i set means
// the lambda Base+i is available.
type LambdaBitmap struct {
	Base  uint32 // WDM label of the first lambda
	Count uint16
	avail *bitset.BitSet
}

func NewLambdaBitmap(base uint32, count uint16) LambdaBitmap {
	return LambdaBitmap{Base: base, Count: count, avail: bitset.New(uint(count))}
}

// LambdaBitmapFromWords builds a bitmap from its wire words. Within a word
// the most significant bit is the lowest lambda.
func LambdaBitmapFromWords(base uint32, count uint16, words []uint32) (LambdaBitmap, error) {
	if len(words) != lambdaWords(count) {
		return LambdaBitmap{}, fmt.Errorf("LambdaBitmapFromWords: %d lambdas need %d words, got %d",
			count, lambdaWords(count), len(words))
	}
	b := NewLambdaBitmap(base, count)
	for i := uint(0); i < uint(count); i++ {
		if words[i/32]&(1<<(31-i%32)) != 0 {
			b.avail.Set(i)
		}
	}
	return b, nil
}

func lambdaWords(count uint16) int {
	return (int(count) + 31) / 32
}

// Words returns the availability as ceil(Count/32) wire words.
func (b LambdaBitmap) Words() []uint32 {
	words := make([]uint32, lambdaWords(b.Count))
	if b.avail == nil {
		return words
	}
	for i, ok := b.avail.NextSet(0); ok && i < uint(b.Count); i, ok = b.avail.NextSet(i + 1) {
		words[i/32] |= 1 << (31 - i%32)
	}
	return words
}

// SetAvailable marks lambda i as available or in use.
func (b *LambdaBitmap) SetAvailable(i uint16, avail bool) error {
	if i >= b.Count {
		return fmt.Errorf("LambdaBitmap: lambda %d out of range (count %d)", i, b.Count)
	}
	if b.avail == nil {
		b.avail = bitset.New(uint(b.Count))
	}
	b.avail.SetTo(uint(i), avail)
	return nil
}

func (b LambdaBitmap) Available(i uint16) bool {
	return b.avail != nil && i < b.Count && b.avail.Test(uint(i))
}

// NumAvailable returns how many lambdas are available.
func (b LambdaBitmap) NumAvailable() uint {
	if b.avail == nil {
		return 0
	}
	return b.avail.Count()
}

func (b LambdaBitmap) Clone() LambdaBitmap {
	if b.avail != nil {
		b.avail = b.avail.Clone()
	}
	return b
}

func (b LambdaBitmap) Equal(o LambdaBitmap) bool {
	if b.Base != o.Base || b.Count != o.Count {
		return false
	}
	return b.NumAvailable() == o.NumAvailable() && b.NumAvailable() == b.intersection(o)
}

func (b LambdaBitmap) intersection(o LambdaBitmap) uint {
	if b.avail == nil || o.avail == nil {
		return 0
	}
	return b.avail.IntersectionCardinality(o.avail)
}

func (b LambdaBitmap) String() string {
	return fmt.Sprintf("base 0x%08x %d/%d available", b.Base, b.NumAvailable(), b.Count)
}
