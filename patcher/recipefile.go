package patcher

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// recipeFile is the YAML document overriding the built-in patch
// definitions, for when a game update moves the signatures:
//
//	patches:
//	  - Name: get-raid
//	    Pattern: "8B 81 C4 53 1D 00"
//	    Replacement: "B8 00 00 00 00 90"
//	    RaidIndexOffset: 1
//
// RaidIndexOffset, when present, marks where the 4-byte little-endian raid
// index is written into the replacement.
type recipeFile struct {
	Patches []recipeDef `yaml:"patches"`
}

type recipeDef struct {
	Name            string `yaml:"Name"`
	Pattern         string `yaml:"Pattern"`
	Replacement     string `yaml:"Replacement"`
	RaidIndexOffset *int   `yaml:"RaidIndexOffset"`
}

// LoadRecipes reads patch definitions from r and resolves them for
// raidIndex. The definitions replace the built-in set wholesale.
func LoadRecipes(r io.Reader, raidIndex int) ([]Recipe, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var file recipeFile
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decoding recipe file")
	}
	if len(file.Patches) == 0 {
		return nil, errors.New("recipe file defines no patches")
	}

	idx := encodeRaidIndex(raidIndex)
	recipes := make([]Recipe, 0, len(file.Patches))
	for _, def := range file.Patches {
		if def.Name == "" {
			return nil, errors.New("recipe file: patch without a Name")
		}
		sig, err := CompileSignature(def.Name, def.Pattern)
		if err != nil {
			return nil, err
		}
		replacement, err := parseReplacement(def.Name, def.Replacement)
		if err != nil {
			return nil, err
		}
		if def.RaidIndexOffset != nil {
			at := *def.RaidIndexOffset
			if at < 0 || at+len(idx) > len(replacement) {
				return nil, errors.Errorf("%s: RaidIndexOffset %d does not fit a %d byte replacement",
					def.Name, at, len(replacement))
			}
			copy(replacement[at:], idx)
		}
		recipes = append(recipes, Recipe{Name: def.Name, Signature: sig, Replacement: replacement})
	}
	return recipes, nil
}

// parseReplacement parses replacement bytes in the same hex token form as
// signatures, but without wildcards: every output byte must be literal.
func parseReplacement(name, text string) ([]byte, error) {
	sig, err := CompileSignature(name, text)
	if err != nil {
		return nil, errors.WithMessage(err, "replacement")
	}
	for i, wild := range sig.Mask {
		if wild {
			return nil, errors.Errorf("%s: replacement byte %d is a wildcard", name, i)
		}
	}
	return sig.Bytes, nil
}
