package forcefield

import (
	"fmt"
	"math"
)

// ResolveIndices pairs the points of two sets. An empty list stands for every
// point of its set. On a count mismatch or an out-of-range index both results
// are empty and the error says why.
func ResolveIndices(first, second []int, firstSize, secondSize int) ([]int, []int, error) {
	a := resolveSide(first, firstSize)
	b := resolveSide(second, secondSize)

	if len(a) != len(b) {
		return []int{}, []int{}, fmt.Errorf("%w: %d and %d", ErrIndexMismatch, len(a), len(b))
	}
	if i, ok := outOfRange(a, firstSize); ok {
		return []int{}, []int{}, fmt.Errorf("%w: first index %d, size %d", ErrIndexOutOfRange, i, firstSize)
	}
	if i, ok := outOfRange(b, secondSize); ok {
		return []int{}, []int{}, fmt.Errorf("%w: second index %d, size %d", ErrIndexOutOfRange, i, secondSize)
	}
	return a, b, nil
}

func resolveSide(explicit []int, size int) []int {
	if len(explicit) > 0 {
		return append([]int(nil), explicit...)
	}
	all := make([]int, size)
	for i := range all {
		all[i] = i
	}
	return all
}

func outOfRange(indices []int, size int) (int, bool) {
	for _, i := range indices {
		if i < 0 || i >= size {
			return i, true
		}
	}
	return 0, false
}

// covers reports whether every index addresses an element of a slice of length n.
func covers(indices []int, n int) bool {
	_, bad := outOfRange(indices, n)
	return !bad
}

// zeroLengthAt broadcasts the first zero length when the array is shorter than the spring count.
func zeroLengthAt(zeroLength []float64, i int) float64 {
	if i < len(zeroLength) {
		return zeroLength[i]
	}
	return zeroLength[0]
}

func validateZeroLength(zeroLength []float64) error {
	for i, l := range zeroLength {
		if !(l > 0) || math.IsInf(l, 0) {
			return fmt.Errorf("%w: element %d is %g", ErrInvalidZeroLength, i, l)
		}
	}
	return nil
}
