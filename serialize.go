package bloom

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// envelopeVersion is the current serialization format version.
const envelopeVersion = 1

var (
	// ErrInvalidData is returned when the serialized data is malformed.
	ErrInvalidData = errors.New("bloom: invalid serialized data")

	// ErrUnsupportedVersion is returned when the serialization version is
	// not supported.
	ErrUnsupportedVersion = errors.New("bloom: unsupported serialization version")

	// ErrUnknownHash is returned when serialized data names a hash that is
	// not registered.
	ErrUnknownHash = errors.New("bloom: unknown hash in serialized data")
)

// envelope is the persisted form of a filter. The field names are part of
// the wire contract:
//
//   - hashes: hash identifiers in canonical (sorted) order
//   - hashCount: generic-mode derivation count; omitted when zero
//   - hashSeeds: seed-cycling seed list; omitted when empty
//   - data: the raw bit buffer, LSB0 within each byte
//
// At most one of hashCount and hashSeeds may be present. Fixed hash-count
// mode carries neither; the count is len(hashes).
type envelope struct {
	Version   uint8    `cbor:"v"`
	Hashes    []string `cbor:"hashes"`
	HashCount uint32   `cbor:"hashCount,omitempty"`
	HashSeeds []string `cbor:"hashSeeds,omitempty"`
	Data      []byte   `cbor:"data"`
}

// CBOR modes are built once. Core deterministic encoding plus the sorted
// hash list is what makes logically equal filters byte-identical.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = (cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}).DecMode(); err != nil {
		panic(err)
	}
}

// MarshalBinary serializes the filter as deterministic CBOR. Filters with
// the same hash set (regardless of construction order), the same mode
// configuration, and the same bit buffer always encode to identical bytes.
func (f *Filter) MarshalBinary() ([]byte, error) {
	env := envelope{
		Version: envelopeVersion,
		Hashes:  f.Hashes(),
		Data:    f.bits.Bytes(),
	}
	if len(f.seeds) > 0 {
		env.HashSeeds = f.seeds
	} else {
		env.HashCount = f.k
	}
	return encMode.Marshal(env)
}

// UnmarshalBinary deserializes a filter produced by MarshalBinary. Every
// hash the data names must be registered (see Register); nothing is
// defaulted on failure. Hash identifiers are accepted in any order and
// re-canonicalized.
func UnmarshalBinary(data []byte) (*Filter, error) {
	var env envelope
	if err := decMode.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	if env.Version != envelopeVersion {
		return nil, fmt.Errorf("%w: got version %d, expected %d", ErrUnsupportedVersion, env.Version, envelopeVersion)
	}
	if len(env.Data) == 0 {
		return nil, fmt.Errorf("%w: empty bit buffer", ErrInvalidData)
	}
	if env.HashCount > 0 && len(env.HashSeeds) > 0 {
		return nil, fmt.Errorf("%w: both hashCount and hashSeeds present", ErrInvalidData)
	}
	if len(env.HashSeeds) > 0 && len(env.Hashes) == 0 {
		return nil, fmt.Errorf("%w: hashSeeds without hashes", ErrInvalidData)
	}

	hashes := make([]Hash, len(env.Hashes))
	for i, name := range env.Hashes {
		h, ok := LookupHash(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownHash, name)
		}
		hashes[i] = h
	}
	sorted, err := canonicalHashes(hashes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	return &Filter{
		hashes: sorted,
		seeds:  env.HashSeeds,
		k:      env.HashCount,
		bits:   BitArrayFromBytes(env.Data),
	}, nil
}
