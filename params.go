package bloom

import (
	"errors"
	"math"
)

const (
	// ln2 is the natural logarithm of 2.
	ln2 = 0.6931471805599453
	// ln2Squared is ln(2)^2.
	ln2Squared = 0.4804530139182014
)

var (
	// ErrInvalidCardinality is returned for a zero expected cardinality.
	ErrInvalidCardinality = errors.New("bloom: expected cardinality must be positive")

	// ErrInvalidProbability is returned for a false positive rate outside (0, 1).
	ErrInvalidProbability = errors.New("bloom: false positive rate must be in (0, 1)")
)

// IdealParams calculates the optimal filter parameters for expectedItems at
// false positive rate fpRate:
//
//	bitCount  = ceil(-n * ln(p) / ln(2)^2)
//	hashCount = ceil(bitCount/n * ln(2))
//
// Both are rounded up, never down: undersizing raises the realized false
// positive rate above the target. Invalid inputs are an error, not clamped.
func IdealParams(expectedItems uint64, fpRate float64) (bitCount uint64, hashCount uint32, err error) {
	if expectedItems == 0 {
		return 0, 0, ErrInvalidCardinality
	}
	if math.IsNaN(fpRate) || fpRate <= 0 || fpRate >= 1 {
		return 0, 0, ErrInvalidProbability
	}

	n := float64(expectedItems)
	bits := math.Ceil(-n * math.Log(fpRate) / ln2Squared)
	k := math.Ceil(bits / n * ln2)
	return uint64(bits), uint32(k), nil
}

// BytesFor returns the byte length of a buffer holding bitCount bits,
// ceil(bitCount/8).
func BytesFor(bitCount uint64) int {
	return int((bitCount + 7) / 8)
}

// EstimateFalsePositiveRate estimates the false positive rate of a filter of
// bitCount bits with hashCount derivations after itemsAdded insertions.
// Formula: (1 - e^(-kn/m))^k
func EstimateFalsePositiveRate(bitCount uint64, hashCount uint32, itemsAdded uint64) float64 {
	m := float64(bitCount)
	n := float64(itemsAdded)
	k := float64(hashCount)

	if m == 0 || n == 0 {
		return 0
	}

	return math.Pow(1-math.Exp(-k*n/m), k)
}
