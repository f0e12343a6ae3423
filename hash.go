package bloom

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

var (
	// ErrDuplicateHash is returned when two hashes share a name, either at
	// construction or via Register.
	ErrDuplicateHash = errors.New("bloom: duplicate hash name")

	// ErrInvalidHash is returned by Register for a hash with an empty name
	// or a nil function.
	ErrInvalidHash = errors.New("bloom: hash must have a name and a function")
)

// A HashFunc computes a 64-bit digest of data mixed with an optional seed.
// It must be deterministic: identical (seed, data) pairs produce identical
// digests on any machine, in any process. Seed bytes are folded in before
// the element bytes so distinct seeds yield independent-looking streams.
type HashFunc func(seed, data []byte) uint64

// Hash is a named deterministic hash function. The name is the identifier in
// encoded filters and the canonical sort key, so it must be stable across
// releases.
type Hash struct {
	name string
	fn   HashFunc
}

// NewHash binds fn to name. Use Register to make it decodable.
func NewHash(name string, fn HashFunc) Hash {
	return Hash{name: name, fn: fn}
}

// Name returns the hash identifier.
func (h Hash) Name() string { return h.name }

// Sum64 applies the hash to data under seed. A nil or empty seed is the
// unseeded form.
func (h Hash) Sum64(seed, data []byte) uint64 { return h.fn(seed, data) }

// Built-in hashes. All are deterministic with fixed internal seeding; none
// depend on per-process randomization.
var (
	// XXH3 is the xxh3 64-bit hash. Seeding folds the seed bytes into the
	// numeric seed of the element hash.
	XXH3 = NewHash("xxh3", func(seed, data []byte) uint64 {
		if len(seed) == 0 {
			return xxh3.Hash(data)
		}
		return xxh3.HashSeed(data, xxh3.Hash(seed))
	})

	// XXHash64 is the xxhash (XXH64) hash over seed then data.
	XXHash64 = NewHash("xxhash64", func(seed, data []byte) uint64 {
		d := xxhash.New()
		_, _ = d.Write(seed)
		_, _ = d.Write(data)
		return d.Sum64()
	})

	// Murmur3 is the murmur3 64-bit hash over seed then data.
	Murmur3 = NewHash("murmur3", func(seed, data []byte) uint64 {
		d := murmur3.New64()
		_, _ = d.Write(seed)
		_, _ = d.Write(data)
		return d.Sum64()
	})

	// FNV64a is the FNV-1a 64-bit hash over seed then data.
	FNV64a = NewHash("fnv64a", func(seed, data []byte) uint64 {
		d := fnv.New64a()
		_, _ = d.Write(seed)
		_, _ = d.Write(data)
		return d.Sum64()
	})
)

// registry maps hash names to definitions so UnmarshalBinary can resolve the
// identifiers carried in an encoded filter.
var registry = map[string]Hash{}

func init() {
	for _, h := range []Hash{XXH3, XXHash64, Murmur3, FNV64a} {
		registry[h.name] = h
	}
}

// Register adds a custom hash to the decode registry. It must be called
// before decoding any filter that names the hash. Register is not safe for
// concurrent use with itself or with UnmarshalBinary.
func Register(h Hash) error {
	if h.name == "" || h.fn == nil {
		return ErrInvalidHash
	}
	if _, ok := registry[h.name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateHash, h.name)
	}
	registry[h.name] = h
	return nil
}

// LookupHash returns the registered hash for name.
func LookupHash(name string) (Hash, bool) {
	h, ok := registry[name]
	return h, ok
}

// canonicalHashes returns hashes sorted ascending by name. The sort makes
// filter construction order-independent: logically equal configurations
// always hold one canonical hash sequence. Duplicate names are rejected
// because two functions under one identifier could not round-trip.
func canonicalHashes(hashes []Hash) ([]Hash, error) {
	sorted := make([]Hash, len(hashes))
	copy(sorted, hashes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].name == sorted[i-1].name {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateHash, sorted[i].name)
		}
	}
	return sorted, nil
}
