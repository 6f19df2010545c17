// Package patcher locates byte signatures in an executable image and
// overwrites them in place.
package patcher

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Wildcard is the signature token that matches any byte.
const Wildcard = "??"

var (
	// ErrBadSignature means a signature definition could not be compiled.
	ErrBadSignature = errors.New("malformed signature")
	// ErrPatternNotFound means a signature matched nowhere in the image,
	// usually because a game update moved the bytes.
	ErrPatternNotFound = errors.New("pattern not found")
	// ErrOutOfBounds means a replacement would run past the image end.
	ErrOutOfBounds = errors.New("patch exceeds image bounds")
)

// Signature is a compiled byte pattern. Mask[i] set means position i is a
// wildcard and matches any byte.
type Signature struct {
	Name  string
	Text  string
	Bytes []byte
	Mask  []bool
}

// CompileSignature parses a space-separated pattern of two-digit hex tokens
// and "??" wildcards, e.g. "8B 81 ?? ?? 1D 00". Compilation happens once at
// startup; scanning never parses text.
func CompileSignature(name, text string) (Signature, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return Signature{}, errors.Wrapf(ErrBadSignature, "%s: empty pattern", name)
	}
	sig := Signature{
		Name:  name,
		Text:  text,
		Bytes: make([]byte, len(tokens)),
		Mask:  make([]bool, len(tokens)),
	}
	for i, tok := range tokens {
		if tok == Wildcard {
			sig.Mask[i] = true
			continue
		}
		if len(tok) != 2 {
			return Signature{}, errors.Wrapf(ErrBadSignature, "%s: token %q", name, tok)
		}
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return Signature{}, errors.Wrapf(ErrBadSignature, "%s: token %q", name, tok)
		}
		sig.Bytes[i] = byte(v)
	}
	return sig, nil
}

// MustCompileSignature is CompileSignature for the hardcoded patch site
// patterns, where a parse failure is a programming error.
func MustCompileSignature(name, text string) Signature {
	sig, err := CompileSignature(name, text)
	if err != nil {
		panic(err)
	}
	return sig
}

// Len returns the signature's window length in bytes.
func (s Signature) Len() int { return len(s.Bytes) }

// Matches reports whether the signature matches image at offset. Offsets
// whose window would run past the image end never match.
func (s Signature) Matches(image []byte, offset int) bool {
	if offset < 0 || offset+len(s.Bytes) > len(image) {
		return false
	}
	for j := range s.Bytes {
		if !s.Mask[j] && s.Bytes[j] != image[offset+j] {
			return false
		}
	}
	return true
}

// Find returns the lowest offset where sig matches image, scanning
// offset-ascending and stopping at the first hit.
func Find(image []byte, sig Signature) (int, bool) {
	for i := 0; i <= len(image)-len(sig.Bytes); i++ {
		found := true
		for j := range sig.Bytes {
			if !sig.Mask[j] && sig.Bytes[j] != image[i+j] {
				found = false
				break
			}
		}
		if found {
			return i, true
		}
	}
	return -1, false
}

// Apply overwrites len(replacement) bytes of image starting at offset. The
// scanner's bound check already guarantees in-range offsets for same-length
// replacements, but Apply refuses to write past the image end regardless.
func Apply(image []byte, offset int, replacement []byte) error {
	if offset < 0 || offset+len(replacement) > len(image) {
		return errors.Wrapf(ErrOutOfBounds, "offset 0x%X, %d bytes into a %d byte image",
			offset, len(replacement), len(image))
	}
	copy(image[offset:], replacement)
	return nil
}
