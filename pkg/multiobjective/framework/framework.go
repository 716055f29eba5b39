package framework

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/bits"
	"strings"
)

// Evaluator describes the contract a fitness function for feature subsets
// needs to implement. Every returned value is interpreted as "higher is better";
// metrics that are naturally minimised must be negated by the evaluator.
type Evaluator interface {
	// Evaluate scores the subset encoded by the chromosome, returning one
	// value per requested objective, in the same order.
	Evaluate(ctx context.Context, subset Chromosome, objectives []string) (ObjectiveVector, error)
}

// CloneableEvaluator is an Evaluator that can hand out independent copies of
// itself. Clones may be used concurrently with each other and with the
// original.
type CloneableEvaluator interface {
	Evaluator
	Clone() (Evaluator, error)
}

// Algorithm describes the contract that a MOO algorithm needs to implement.
type Algorithm interface {
	Name() string
}

const wordSize = 64

// Chromosome uses a binary encoding scheme, where bit i is set if and only if
// feature i is part of the subset.
type Chromosome struct {
	words []uint64
	size  int
}

func NewChromosome(size int) Chromosome {
	return Chromosome{
		words: make([]uint64, (size+wordSize-1)/wordSize),
		size:  size,
	}
}

// ChromosomeFromIndices returns a chromosome of the given size with every
// listed index set.
func ChromosomeFromIndices(size int, indices ...int) Chromosome {
	c := NewChromosome(size)
	for _, i := range indices {
		c.Set(i)
	}
	return c
}

// Len returns the size of the feature universe.
func (c Chromosome) Len() int {
	return c.size
}

func (c Chromosome) Get(i int) bool {
	return c.words[i/wordSize]&(1<<(uint(i)%wordSize)) != 0
}

func (c *Chromosome) Set(i int) {
	c.check(i)
	c.words[i/wordSize] |= 1 << (uint(i) % wordSize)
}

func (c *Chromosome) Clear(i int) {
	c.check(i)
	c.words[i/wordSize] &^= 1 << (uint(i) % wordSize)
}

func (c *Chromosome) Flip(i int) {
	c.check(i)
	c.words[i/wordSize] ^= 1 << (uint(i) % wordSize)
}

func (c *Chromosome) check(i int) {
	if i < 0 || i >= c.size {
		panic(fmt.Sprintf("bit %d out of range [0, %d)", i, c.size))
	}
}

// Count returns the number of selected features.
func (c Chromosome) Count() int {
	n := 0
	for _, w := range c.words {
		n += bits.OnesCount64(w)
	}
	return n
}

func (c Chromosome) IsEmpty() bool {
	for _, w := range c.words {
		if w != 0 {
			return false
		}
	}
	return true
}

func (c Chromosome) Clone() Chromosome {
	words := make([]uint64, len(c.words))
	copy(words, c.words)
	return Chromosome{
		words: words,
		size:  c.size,
	}
}

// SwapPrefix exchanges bits [0, cut) between a and b.
func SwapPrefix(a, b *Chromosome, cut int) {
	for i := 0; i < cut; i++ {
		ai, bi := a.Get(i), b.Get(i)
		if ai == bi {
			continue
		}
		a.Flip(i)
		b.Flip(i)
	}
}

// Indices lists the selected features in ascending order.
func (c Chromosome) Indices() []int {
	indices := make([]int, 0, c.Count())
	for wi, w := range c.words {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			indices = append(indices, wi*wordSize+tz)
			w &= w - 1
		}
	}
	return indices
}

func (c Chromosome) Equal(other Chromosome) bool {
	return c.Compare(other) == 0
}

// significant returns the words up to and including the last non-zero one.
func (c Chromosome) significant() []uint64 {
	n := len(c.words)
	for n > 0 && c.words[n-1] == 0 {
		n--
	}
	return c.words[:n]
}

// Compare defines a total order over bit patterns: the significant words are
// compared lexicographically and, when one is a prefix of the other, the
// shorter one sorts first.
func (c Chromosome) Compare(other Chromosome) int {
	a, b := c.significant(), other.significant()
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Key returns a string identifying the exact bit pattern, suitable as a map key.
func (c Chromosome) Key() string {
	sig := c.significant()
	buf := make([]byte, 8*len(sig))
	for i, w := range sig {
		binary.LittleEndian.PutUint64(buf[8*i:], w)
	}
	return string(buf)
}

func (c Chromosome) String() string {
	var sb strings.Builder
	sb.Grow(c.size)
	for i := 0; i < c.size; i++ {
		if c.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
