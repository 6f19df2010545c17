package patcher

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleImage lays the three patch site byte runs into a filler buffer at
// known offsets.
func sampleImage(t *testing.T) []byte {
	t.Helper()
	image := bytes.Repeat([]byte{0xCC}, 256)
	place := func(offset int, text string) {
		sig := MustCompileSignature("site", text)
		copy(image[offset:], sig.Bytes)
	}
	place(0x20, "8B 81 C4 53 1D 00")
	place(0x60, "66 0F 73 DA 08 66 41 0F 7E 50 04 F2 0F 11 4C")
	place(0xA0, "83 78 10 02 74 10")
	return image
}

func TestRaidRecipesEmbedLittleEndianIndex(t *testing.T) {
	recipes := RaidRecipes(3)
	require.Len(t, recipes, 3)
	assert.Equal(t, []byte{0xB8, 0x03, 0x00, 0x00, 0x00, 0x90}, recipes[0].Replacement)
	assert.Equal(t, []byte{0x41, 0xC7, 0x40, 0x04, 0x03, 0x00, 0x00, 0x00, 0x90, 0x90, 0x90}, recipes[1].Replacement)
	assert.Equal(t, []byte{0x39, 0xC0, 0x90, 0x90}, recipes[2].Replacement)

	recipes = RaidRecipes(256)
	assert.Equal(t, []byte{0x00, 0x01, 0x00, 0x00}, recipes[0].Replacement[1:5])
	assert.Equal(t, []byte{0x00, 0x01, 0x00, 0x00}, recipes[1].Replacement[4:8])
}

func TestPatchAllAppliesAllThreeSites(t *testing.T) {
	image := sampleImage(t)
	pristine := bytes.Clone(image)

	results, err := PatchAll(image, RaidRecipes(7))
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, Result{Name: "get-raid", Offset: 0x20}, results[0])
	assert.Equal(t, Result{Name: "set-raid", Offset: 0x60}, results[1])
	assert.Equal(t, Result{Name: "online-status", Offset: 0xA0}, results[2])

	// B8 <7 LE> 90 over the get-raid site.
	assert.Equal(t, []byte{0xB8, 0x07, 0x00, 0x00, 0x00, 0x90}, image[0x20:0x26])
	// Bytes outside the patched windows stay untouched.
	assert.Equal(t, pristine[:0x20], image[:0x20])
	assert.Equal(t, pristine[0x26:0x60], image[0x26:0x60])
}

func TestPatchedSitesNoLongerMatch(t *testing.T) {
	image := sampleImage(t)
	recipes := RaidRecipes(7)

	_, err := PatchAll(image, recipes)
	require.NoError(t, err)

	// The patch replaced the matched bytes, so a second pass must not find
	// the original signatures again.
	for _, r := range recipes {
		_, ok := Find(image, r.Signature)
		assert.False(t, ok, "signature %s still matches after patching", r.Name)
	}
	_, err = PatchAll(image, RaidRecipes(7))
	assert.ErrorIs(t, err, ErrPatternNotFound)
}

func TestPatchAllAbortsOnFirstMissingPattern(t *testing.T) {
	image := sampleImage(t)
	// Knock out the set-raid site; get-raid may apply but online-status
	// must never be attempted.
	image[0x60] = 0x00
	pristine := bytes.Clone(image)

	results, err := PatchAll(image, RaidRecipes(7))
	assert.Nil(t, results)
	require.ErrorIs(t, err, ErrPatternNotFound)
	assert.Contains(t, err.Error(), "set-raid")

	// The online-status site was left alone.
	assert.Equal(t, pristine[0xA0:0xA6], image[0xA0:0xA6])
}

func TestPatchAllOnEmptyImage(t *testing.T) {
	_, err := PatchAll(nil, RaidRecipes(1))
	assert.ErrorIs(t, err, ErrPatternNotFound)
}
