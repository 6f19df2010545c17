package patcher

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSignature(t *testing.T) {
	sig, err := CompileSignature("get-raid", "8B 81 C4 53 1D 00")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x8B, 0x81, 0xC4, 0x53, 0x1D, 0x00}, sig.Bytes)
	assert.Equal(t, []bool{false, false, false, false, false, false}, sig.Mask)
	assert.Equal(t, 6, sig.Len())
}

func TestCompileSignatureWildcards(t *testing.T) {
	sig, err := CompileSignature("masked", "48 8B ?? ?? c6")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x48, 0x8B, 0x00, 0x00, 0xC6}, sig.Bytes)
	assert.Equal(t, []bool{false, false, true, true, false}, sig.Mask)
}

func TestCompileSignatureRejectsBadTokens(t *testing.T) {
	for _, text := range []string{"", "  ", "ZZ", "8B 8", "8B 123", "8B ?", "8b -1"} {
		_, err := CompileSignature("bad", text)
		assert.ErrorIs(t, err, ErrBadSignature, "pattern %q", text)
	}
}

func TestFindReturnsFirstMatch(t *testing.T) {
	sig := MustCompileSignature("t", "AA BB")
	image := []byte{0x00, 0xAA, 0xBB, 0x00, 0xAA, 0xBB}

	offset, ok := Find(image, sig)
	require.True(t, ok)
	assert.Equal(t, 1, offset)
	assert.True(t, sig.Matches(image, offset))
}

func TestFindWildcardMatchesAnyByte(t *testing.T) {
	sig := MustCompileSignature("t", "AA ?? CC")
	for _, middle := range []byte{0x00, 0x7F, 0xFF} {
		image := []byte{0xAA, middle, 0xCC}
		offset, ok := Find(image, sig)
		require.True(t, ok, "middle byte %#x", middle)
		assert.Equal(t, 0, offset)
	}
}

func TestFindNotFound(t *testing.T) {
	sig := MustCompileSignature("t", "FF FF FF FF FF FF")
	offset, ok := Find(make([]byte, 6), sig)
	assert.False(t, ok)
	assert.Equal(t, -1, offset)
}

func TestFindImageShorterThanSignature(t *testing.T) {
	sig := MustCompileSignature("t", "AA BB CC")
	_, ok := Find([]byte{0xAA, 0xBB}, sig)
	assert.False(t, ok)

	_, ok = Find(nil, sig)
	assert.False(t, ok)
}

func TestFindWindowNeverExceedsImage(t *testing.T) {
	// A match would need one byte past the end; the last full window starts
	// at len(image)-len(sig).
	sig := MustCompileSignature("t", "BB CC")
	image := []byte{0xAA, 0xBB}
	_, ok := Find(image, sig)
	assert.False(t, ok)

	offset, ok := Find([]byte{0xAA, 0xBB, 0xCC}, sig)
	require.True(t, ok)
	assert.Equal(t, 1, offset)
}

func TestApplyWritesExactWindow(t *testing.T) {
	image := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	pristine := bytes.Clone(image)

	require.NoError(t, Apply(image, 2, []byte{0xAA, 0xBB, 0xCC}))

	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, image[2:5])
	assert.Equal(t, pristine[:2], image[:2])
	assert.Equal(t, pristine[5:], image[5:])
}

func TestApplyAcceptsWriteUpToLastByte(t *testing.T) {
	image := make([]byte, 4)
	require.NoError(t, Apply(image, 2, []byte{0xAA, 0xBB}))
	assert.Equal(t, []byte{0x00, 0x00, 0xAA, 0xBB}, image)
}

func TestApplyRejectsOutOfBounds(t *testing.T) {
	image := make([]byte, 4)
	pristine := bytes.Clone(image)

	err := Apply(image, 3, []byte{0xAA, 0xBB})
	assert.ErrorIs(t, err, ErrOutOfBounds)
	err = Apply(image, -1, []byte{0xAA})
	assert.ErrorIs(t, err, ErrOutOfBounds)
	err = Apply(image, 5, nil)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	assert.Equal(t, pristine, image, "failed apply must not touch the image")
}

func TestErrorsUnwrapToSentinels(t *testing.T) {
	_, err := CompileSignature("bad", "nope")
	assert.ErrorIs(t, err, ErrBadSignature)
	assert.Equal(t, ErrBadSignature, errors.Cause(err))
}
