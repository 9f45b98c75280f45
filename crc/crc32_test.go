package crc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksumEmpty(t *testing.T) {
	require.Equal(t, uint32(0), Checksum(nil))
}

func TestChecksumKnownVector(t *testing.T) {
	// CRC32(IEEE) of "123456789" is the standard check value 0xCBF43926.
	require.Equal(t, uint32(0xCBF43926), Checksum([]byte("123456789")))
}

func TestUpdateIncrementalMatchesOneShot(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	d := New()
	d.Update(data[:10])
	d.Update(data[10:])

	require.Equal(t, Checksum(data), d.Sum())
}

func TestReset(t *testing.T) {
	d := New()
	d.Update([]byte("abc"))
	require.NotEqual(t, uint32(0), d.Sum())
	d.Reset()
	require.Equal(t, uint32(0), d.Sum())
}
