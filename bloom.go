package bloom

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/zeebo/xxh3"
)

// ErrNoHashes is returned when a seed list is supplied without any hash to
// cycle through.
var ErrNoHashes = errors.New("bloom: seed list requires at least one hash")

// Filter is a non-thread-safe bloom filter with a canonical serialized form.
//
// Elements are inserted by deriving one bit position per configured hash
// derivation and setting those bits; membership tests require all derived
// bits to be set. False positives are possible, false negatives are not.
//
// The filter holds its hashes in canonical (name-sorted) order, so two
// filters built from the same hash set in different orders behave and encode
// identically. See MarshalBinary for the encoded form.
type Filter struct {
	hashes []Hash   // canonical order, sorted by name
	seeds  []string // seed-cycling mode when non-empty
	k      uint32   // derivations per element in generic mode
	bits   *BitArray
}

// New creates a filter in fixed hash-count mode: each element is hashed once
// per supplied hash, unseeded, producing len(hashes) bit positions. The
// filter owns byteCount bytes of bit storage (values below 1 are treated
// as 1).
func New(byteCount int, hashes ...Hash) (*Filter, error) {
	sorted, err := canonicalHashes(hashes)
	if err != nil {
		return nil, err
	}
	return &Filter{hashes: sorted, bits: NewBitArray(byteCount)}, nil
}

// NewWithSeeds creates a filter in seed-cycling mode: one derivation per
// seed, pairing the seed at position i with hashes[i%len(hashes)]. This
// yields more independent-looking index streams than there are named hashes.
// An empty seed list falls back to fixed hash-count mode.
func NewWithSeeds(byteCount int, hashes []Hash, seeds []string) (*Filter, error) {
	if len(seeds) > 0 && len(hashes) == 0 {
		return nil, ErrNoHashes
	}
	f, err := New(byteCount, hashes...)
	if err != nil {
		return nil, err
	}
	f.seeds = append([]string(nil), seeds...)
	return f, nil
}

// NewGeneric creates a filter that derives hashCount bit positions per
// element from a single hash seeded by the derivation index, for callers
// that want "any k independent hashes" without naming them. The derivation
// is deterministic across processes, but prefer named hashes for anything
// persisted long-term: the generic scheme is not extensible and admits no
// custom hashing.
func NewGeneric(byteCount int, hashCount uint32) *Filter {
	return &Filter{k: hashCount, bits: NewBitArray(byteCount)}
}

// NewIdeal sizes a filter for expectedItems at false positive rate fpRate
// (see IdealParams) and configures it in seed-cycling mode against the
// supplied hashes, with one freshly generated random seed per derivation.
//
// Because the seeds are random, two calls with identical arguments do not
// produce byte-identical filters. Build from an explicit seed list via
// NewWithSeeds when canonical output matters.
func NewIdeal(expectedItems uint64, fpRate float64, hashes ...Hash) (*Filter, error) {
	if len(hashes) == 0 {
		return nil, ErrNoHashes
	}
	bitCount, hashCount, err := IdealParams(expectedItems, fpRate)
	if err != nil {
		return nil, err
	}
	seeds := make([]string, hashCount)
	for i := range seeds {
		seeds[i] = strconv.FormatUint(rand.Uint64N(expectedItems), 10)
	}
	return NewWithSeeds(BytesFor(bitCount), hashes, seeds)
}

// indices derives the ordered bit positions for data under the active mode.
// A non-empty seed list takes precedence over everything else; named hashes
// take precedence over the generic count. The same (configuration, data)
// pair always yields the same indices.
func (f *Filter) indices(data []byte) []uint64 {
	m := f.bits.BitCount()
	switch {
	case len(f.seeds) > 0:
		out := make([]uint64, len(f.seeds))
		for i, seed := range f.seeds {
			h := f.hashes[i%len(f.hashes)]
			out[i] = h.Sum64([]byte(seed), data) % m
		}
		return out
	case len(f.hashes) > 0:
		out := make([]uint64, len(f.hashes))
		for i, h := range f.hashes {
			out[i] = h.Sum64(nil, data) % m
		}
		return out
	case f.k > 0:
		out := make([]uint64, f.k)
		for i := range out {
			out[i] = xxh3.HashSeed(data, uint64(i)) % m
		}
		return out
	default:
		return nil
	}
}

// Add inserts data into the filter. Inserting the same bytes again leaves
// the bit state unchanged.
func (f *Filter) Add(data []byte) {
	for _, i := range f.indices(data) {
		f.bits.Set(i, true)
	}
}

// AddString inserts a string key.
func (f *Filter) AddString(s string) {
	f.Add([]byte(s))
}

// AddBinary inserts a value through its stable binary form. The marshaler
// must be deterministic: equal values produce equal bytes in every process,
// or cross-process membership agreement breaks.
func (f *Filter) AddBinary(v encoding.BinaryMarshaler) error {
	data, err := v.MarshalBinary()
	if err != nil {
		return fmt.Errorf("bloom: marshal element: %w", err)
	}
	f.Add(data)
	return nil
}

// Test checks whether data might be in the filter. True means possibly
// present (false positives happen at roughly the configured rate); false
// means definitely absent. A filter with no hashes, no seeds and a zero
// generic count derives no indices and matches nothing.
func (f *Filter) Test(data []byte) bool {
	idxs := f.indices(data)
	if len(idxs) == 0 {
		return false
	}
	for _, i := range idxs {
		if !f.bits.Get(i) {
			return false
		}
	}
	return true
}

// TestString checks whether a string key might be in the filter.
func (f *Filter) TestString(s string) bool {
	return f.Test([]byte(s))
}

// TestBinary checks a value through its stable binary form.
func (f *Filter) TestBinary(v encoding.BinaryMarshaler) (bool, error) {
	data, err := v.MarshalBinary()
	if err != nil {
		return false, fmt.Errorf("bloom: marshal element: %w", err)
	}
	return f.Test(data), nil
}

// TestAndAdd reports whether data was possibly present, then inserts it.
// The indices are derived once for both steps.
func (f *Filter) TestAndAdd(data []byte) bool {
	idxs := f.indices(data)
	if len(idxs) == 0 {
		return false
	}
	present := true
	for _, i := range idxs {
		if !f.bits.Get(i) {
			present = false
			f.bits.Set(i, true)
		}
	}
	return present
}

// TestAndAddString is TestAndAdd for string keys.
func (f *Filter) TestAndAddString(s string) bool {
	return f.TestAndAdd([]byte(s))
}

// BitCount returns the capacity of the filter in bits.
func (f *Filter) BitCount() uint64 {
	return f.bits.BitCount()
}

// HashCount returns the number of index derivations per element under the
// active mode.
func (f *Filter) HashCount() int {
	switch {
	case len(f.seeds) > 0:
		return len(f.seeds)
	case len(f.hashes) > 0:
		return len(f.hashes)
	default:
		return int(f.k)
	}
}

// Hashes returns the hash names in canonical order.
func (f *Filter) Hashes() []string {
	names := make([]string, len(f.hashes))
	for i, h := range f.hashes {
		names[i] = h.name
	}
	return names
}

// Seeds returns a copy of the seed list. It is empty unless the filter is in
// seed-cycling mode.
func (f *Filter) Seeds() []string {
	return append([]string(nil), f.seeds...)
}

// EstimatedFillRatio returns the proportion of bits that are set.
func (f *Filter) EstimatedFillRatio() float64 {
	return float64(f.bits.OnesCount()) / float64(f.bits.BitCount())
}

// EstimatedFalsePositiveRate estimates the probability that Test reports
// true for an element never added, as fillRatio^hashCount. Unlike an insert
// counter this survives encode/decode exactly.
func (f *Filter) EstimatedFalsePositiveRate() float64 {
	k := f.HashCount()
	if k == 0 {
		return 0
	}
	return math.Pow(f.EstimatedFillRatio(), float64(k))
}
