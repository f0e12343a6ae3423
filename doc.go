// Package bloom provides a bloom filter with a canonical serialized form.
//
// A bloom filter is a space-efficient probabilistic data structure that tests
// whether an element is a member of a set. False positive matches are
// possible, but false negatives are not – if the filter says an element is
// not present, it definitely is not. Elements can be added but never removed.
//
// What sets this implementation apart is determinism: two filters built from
// the same logical contents always serialize to the same bytes, regardless
// of the order their hashes were supplied in or the process that built them.
//
// # Determinism
//
// Every hash is a named, explicitly seeded function ([XXH3], [XXHash64],
// [Murmur3], [FNV64a], or a custom hash added via [Register]). None depend
// on per-process seed randomization the way general-purpose runtime hashing
// does, so a key hashes to the same bit positions on every machine.
//
// Elements enter the filter as their byte representation. Callers are
// responsible for that representation being stable: [Filter.Add] takes raw
// bytes, [Filter.AddString] a string, and [Filter.AddBinary] any type with a
// deterministic encoding.BinaryMarshaler. All index arithmetic is unsigned
// 64-bit, reduced modulo the filter's bit count.
//
// Hash sets are canonicalized by sorting on the hash name at construction
// time, so construction order never leaks into behavior or encoding.
//
// # Index Derivation Modes
//
// Three modes decide how many bit positions an element maps to:
//
// Seed-cycling ([NewWithSeeds], [NewIdeal]): one derivation per seed string,
// pairing seed i with hash i modulo the number of hashes. This derives more
// independent-looking index streams than there are distinct hash functions.
// A non-empty seed list always takes precedence.
//
// Fixed hash-count ([New]): one unseeded derivation per named hash.
//
// Generic ([NewGeneric]): k derivations from a single hash seeded with the
// running derivation index, for callers that do not care which hash is used.
// Deterministic, but not extensible; prefer named hashes for persisted data.
//
// # Canonical Encoding
//
// [Filter.MarshalBinary] emits deterministic CBOR carrying the sorted hash
// identifiers, the seed list or generic count, and the raw bit buffer. Bits
// are addressed least-significant-first within each byte, and the encoder
// uses core deterministic CBOR options, so logically equal filters are
// byte-identical and any implementation honoring the layout can decode them.
// [UnmarshalBinary] validates the version, resolves hash names through the
// registry, and rejects malformed input rather than defaulting.
//
// # Choosing Parameters
//
// Use [NewIdeal] with the expected number of items and target false positive
// rate:
//
//	// Filter for 10,000 items with a 1% false positive rate
//	f, err := bloom.NewIdeal(10_000, 0.01, bloom.XXH3, bloom.Murmur3)
//
// [IdealParams] exposes the sizing math on its own:
//
//	bits  ≈ -n * ln(p) / (ln 2)²
//	k     ≈ bits/n * ln 2
//
// Both are rounded up so the realized rate stays at or below the target while
// the filter is within capacity. Note that [NewIdeal] generates random seeds;
// only filters built from the same explicit seed list encode identically.
//
// # Thread Safety
//
// [Filter] is NOT thread-safe. It is a plain value-like container: bit writes
// are not atomic and no internal synchronization exists. Callers sharing a
// filter across goroutines must supply their own locking, e.g. a
// sync.RWMutex around Add and Test.
package bloom
