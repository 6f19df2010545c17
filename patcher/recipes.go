package patcher

import (
	"encoding/binary"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

// Recipe pairs a patch site signature with the bytes written over its match.
type Recipe struct {
	Name        string
	Signature   Signature
	Replacement []byte
}

// Result records where a recipe was applied.
type Result struct {
	Name   string
	Offset int
}

// Patch site signatures for RED-Win64-Shipping.exe.
var (
	getRaidSig = MustCompileSignature("get-raid", "8B 81 C4 53 1D 00")
	setRaidSig = MustCompileSignature("set-raid", "66 0F 73 DA 08 66 41 0F 7E 50 04 F2 0F 11 4C")
	onlineSig  = MustCompileSignature("online-status", "83 78 10 02 74 10")
)

// RaidRecipes builds the three patches selecting raid raidIndex.
//
// get-raid: mov eax,[rcx+1D53C4h] becomes mov eax,<index>; nop, so reads of
// the active raid always return the chosen one.
// set-raid: the SSE store of the server-provided index becomes
// mov dword [r8+4],<index>, nop-padded to the original length.
// online-status: cmp dword [rax+10h],2 / je +10h becomes cmp eax,eax; nop;
// nop, so the online availability gate always passes.
func RaidRecipes(raidIndex int) []Recipe {
	idx := encodeRaidIndex(raidIndex)

	get := append([]byte{0xB8}, idx...)
	get = append(get, 0x90)

	set := append([]byte{0x41, 0xC7, 0x40, 0x04}, idx...)
	set = append(set, 0x90, 0x90, 0x90)

	return []Recipe{
		{Name: "get-raid", Signature: getRaidSig, Replacement: get},
		{Name: "set-raid", Signature: setRaidSig, Replacement: set},
		{Name: "online-status", Signature: onlineSig, Replacement: []byte{0x39, 0xC0, 0x90, 0x90}},
	}
}

// encodeRaidIndex returns the 4-byte little-endian immediate embedded into
// the raid index templates.
func encodeRaidIndex(raidIndex int) []byte {
	idx := make([]byte, 4)
	binary.LittleEndian.PutUint32(idx, uint32(raidIndex))
	return idx
}

// PatchAll applies recipes in order against image, mutating it in place.
// The first signature that fails to match aborts the sequence; no further
// recipe is attempted and the returned error names the stale pattern.
// Results are complete only when err is nil.
func PatchAll(image []byte, recipes []Recipe) ([]Result, error) {
	results := make([]Result, 0, len(recipes))
	for _, r := range recipes {
		offset, ok := Find(image, r.Signature)
		if !ok {
			return nil, errors.Wrapf(ErrPatternNotFound, "%s (%s)", r.Name, r.Signature.Text)
		}
		if err := Apply(image, offset, r.Replacement); err != nil {
			return nil, errors.Wrap(err, r.Name)
		}
		log.WithField("pattern", r.Name).Debugf("patched %d bytes at 0x%X", len(r.Replacement), offset)
		results = append(results, Result{Name: r.Name, Offset: offset})
	}
	return results, nil
}
