package bloom

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializeRoundtripFixedMode(t *testing.T) {
	original, err := New(1199, XXH3, Murmur3)
	require.NoError(t, err)

	items := []string{"hello", "world", "foo", "bar", "baz", "qux"}
	for _, item := range items {
		original.AddString(item)
	}
	for i := range 1000 {
		original.Add(fmt.Appendf(nil, "item-%d", i))
	}

	data, err := original.MarshalBinary()
	require.NoError(t, err)

	restored, err := UnmarshalBinary(data)
	require.NoError(t, err)

	require.Equal(t, original.BitCount(), restored.BitCount())
	require.Equal(t, original.HashCount(), restored.HashCount())
	require.Equal(t, original.Hashes(), restored.Hashes())
	require.Equal(t, original.bits.Bytes(), restored.bits.Bytes())

	// No false negatives after the round trip.
	for _, item := range items {
		require.True(t, restored.TestString(item), "false negative for %q after deserialization", item)
	}
	for i := range 1000 {
		require.True(t, restored.Test(fmt.Appendf(nil, "item-%d", i)))
	}

	// Re-encoding the restored filter reproduces the original bytes.
	again, err := restored.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestSerializeRoundtripSeedMode(t *testing.T) {
	original, err := NewWithSeeds(512, []Hash{XXH3, Murmur3, FNV64a},
		[]string{"17", "401", "9", "86", "5"})
	require.NoError(t, err)

	for i := range 200 {
		original.AddString(fmt.Sprintf("seeded-%d", i))
	}

	data, err := original.MarshalBinary()
	require.NoError(t, err)

	restored, err := UnmarshalBinary(data)
	require.NoError(t, err)

	require.Equal(t, original.Seeds(), restored.Seeds())
	require.Equal(t, original.HashCount(), restored.HashCount())
	for i := range 200 {
		require.True(t, restored.TestString(fmt.Sprintf("seeded-%d", i)))
	}

	again, err := restored.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestSerializeRoundtripGenericMode(t *testing.T) {
	original := NewGeneric(512, 6)
	for i := range 200 {
		original.AddString(fmt.Sprintf("generic-%d", i))
	}

	data, err := original.MarshalBinary()
	require.NoError(t, err)

	restored, err := UnmarshalBinary(data)
	require.NoError(t, err)

	require.Equal(t, 6, restored.HashCount())
	require.Empty(t, restored.Hashes())
	for i := range 200 {
		require.True(t, restored.TestString(fmt.Sprintf("generic-%d", i)))
	}
}

func TestSerializeCanonicalOrdering(t *testing.T) {
	// Same hash set supplied in different orders must encode byte-identically
	// once the same elements are inserted.
	a, err := New(256, XXH3, Murmur3, FNV64a, XXHash64)
	require.NoError(t, err)
	b, err := New(256, XXHash64, FNV64a, Murmur3, XXH3)
	require.NoError(t, err)

	for i := range 100 {
		key := fmt.Sprintf("key-%d", i)
		a.AddString(key)
		b.AddString(key)
	}

	encA, err := a.MarshalBinary()
	require.NoError(t, err)
	encB, err := b.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, encA, encB)
}

func TestSerializeIdealFiltersDiffer(t *testing.T) {
	// NewIdeal draws random seeds, so identical inputs do not yield identical
	// encodings; only explicit seed lists are canonical.
	a, err := NewIdeal(1000, 0.01, XXH3, Murmur3)
	require.NoError(t, err)
	b, err := NewIdeal(1000, 0.01, XXH3, Murmur3)
	require.NoError(t, err)

	encA, err := a.MarshalBinary()
	require.NoError(t, err)
	encB, err := b.MarshalBinary()
	require.NoError(t, err)
	require.NotEqual(t, encA, encB)
}

func TestDeserializeGarbage(t *testing.T) {
	_, err := UnmarshalBinary([]byte("definitely not cbor"))
	require.ErrorIs(t, err, ErrInvalidData)

	_, err = UnmarshalBinary(nil)
	require.ErrorIs(t, err, ErrInvalidData)
}

func TestDeserializeBadVersion(t *testing.T) {
	data, err := encMode.Marshal(envelope{
		Version: 2,
		Hashes:  []string{"xxh3"},
		Data:    make([]byte, 8),
	})
	require.NoError(t, err)

	_, err = UnmarshalBinary(data)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDeserializeEmptyBitBuffer(t *testing.T) {
	data, err := encMode.Marshal(envelope{
		Version: envelopeVersion,
		Hashes:  []string{"xxh3"},
	})
	require.NoError(t, err)

	_, err = UnmarshalBinary(data)
	require.ErrorIs(t, err, ErrInvalidData)
}

func TestDeserializeUnknownHash(t *testing.T) {
	data, err := encMode.Marshal(envelope{
		Version: envelopeVersion,
		Hashes:  []string{"xxh3", "sha3-floor-wax"},
		Data:    make([]byte, 8),
	})
	require.NoError(t, err)

	_, err = UnmarshalBinary(data)
	require.ErrorIs(t, err, ErrUnknownHash)
}

func TestDeserializeConflictingModes(t *testing.T) {
	data, err := encMode.Marshal(envelope{
		Version:   envelopeVersion,
		Hashes:    []string{"xxh3"},
		HashCount: 3,
		HashSeeds: []string{"1", "2"},
		Data:      make([]byte, 8),
	})
	require.NoError(t, err)

	_, err = UnmarshalBinary(data)
	require.ErrorIs(t, err, ErrInvalidData)
}

func TestDeserializeSeedsWithoutHashes(t *testing.T) {
	data, err := encMode.Marshal(envelope{
		Version:   envelopeVersion,
		HashSeeds: []string{"1", "2"},
		Data:      make([]byte, 8),
	})
	require.NoError(t, err)

	_, err = UnmarshalBinary(data)
	require.ErrorIs(t, err, ErrInvalidData)
}

func TestDeserializeRecanonicalizesHashOrder(t *testing.T) {
	// Decode accepts identifiers in any order but must store them sorted.
	data, err := encMode.Marshal(envelope{
		Version: envelopeVersion,
		Hashes:  []string{"xxh3", "fnv64a", "murmur3"},
		Data:    make([]byte, 8),
	})
	require.NoError(t, err)

	f, err := UnmarshalBinary(data)
	require.NoError(t, err)
	require.Equal(t, []string{"fnv64a", "murmur3", "xxh3"}, f.Hashes())
}

func TestDeserializeDuplicateHashNames(t *testing.T) {
	data, err := encMode.Marshal(envelope{
		Version: envelopeVersion,
		Hashes:  []string{"xxh3", "xxh3"},
		Data:    make([]byte, 8),
	})
	require.NoError(t, err)

	_, err = UnmarshalBinary(data)
	require.ErrorIs(t, err, ErrInvalidData)
}

func TestSerializeCrossProcessAgreement(t *testing.T) {
	// A filter decoded from another filter's encoding derives the same
	// indices: insertions on one side are visible on the other.
	writer, err := NewWithSeeds(1199, []Hash{XXH3, XXHash64}, []string{"3", "1", "4", "1", "5"})
	require.NoError(t, err)
	writer.AddString("shared-key")

	data, err := writer.MarshalBinary()
	require.NoError(t, err)
	reader, err := UnmarshalBinary(data)
	require.NoError(t, err)

	require.Equal(t, writer.indices([]byte("shared-key")), reader.indices([]byte("shared-key")))
	require.True(t, reader.TestString("shared-key"))
}
