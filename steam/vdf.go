package steam

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// object is one brace-delimited VDF block. Values are string or object.
// Steam's KeyValues text format is small enough that a full library is not
// worth carrying: quoted tokens, braces and // comments cover every file we
// read (libraryfolders.vdf, appmanifest_*.acf).
type object map[string]any

func parseVDF(r io.Reader) (object, error) {
	p := &vdfParser{r: bufio.NewReader(r)}
	return p.body(true)
}

type vdfParser struct {
	r *bufio.Reader
}

type vdfToken struct {
	kind rune // 's' for a quoted string, '{' or '}'
	text string
}

func (p *vdfParser) next() (vdfToken, error) {
	for {
		c, _, err := p.r.ReadRune()
		if err != nil {
			return vdfToken{}, err
		}
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			continue
		case c == '{' || c == '}':
			return vdfToken{kind: c}, nil
		case c == '"':
			return p.scanString()
		case c == '/':
			if _, err := p.r.ReadString('\n'); err != nil && err != io.EOF {
				return vdfToken{}, err
			}
		default:
			return vdfToken{}, errors.Errorf("vdf: unexpected character %q", c)
		}
	}
}

func (p *vdfParser) scanString() (vdfToken, error) {
	var sb strings.Builder
	for {
		c, _, err := p.r.ReadRune()
		if err != nil {
			return vdfToken{}, errors.New("vdf: unterminated string")
		}
		switch c {
		case '"':
			return vdfToken{kind: 's', text: sb.String()}, nil
		case '\\':
			esc, _, err := p.r.ReadRune()
			if err != nil {
				return vdfToken{}, errors.New("vdf: unterminated escape")
			}
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				sb.WriteRune(esc)
			}
		default:
			sb.WriteRune(c)
		}
	}
}

// body reads key/value pairs until '}', or until EOF when root.
func (p *vdfParser) body(root bool) (object, error) {
	obj := object{}
	for {
		tok, err := p.next()
		if err == io.EOF {
			if root {
				return obj, nil
			}
			return nil, errors.New("vdf: unexpected end of input")
		}
		if err != nil {
			return nil, err
		}
		if tok.kind == '}' {
			if root {
				return nil, errors.New("vdf: unbalanced braces")
			}
			return obj, nil
		}
		if tok.kind != 's' {
			return nil, errors.New("vdf: expected a key")
		}
		key := tok.text

		val, err := p.next()
		if err != nil {
			return nil, errors.Errorf("vdf: missing value for key %q", key)
		}
		switch val.kind {
		case 's':
			obj[key] = val.text
		case '{':
			child, err := p.body(false)
			if err != nil {
				return nil, err
			}
			obj[key] = child
		default:
			return nil, errors.Errorf("vdf: unexpected token after key %q", key)
		}
	}
}

// libraryFolders returns every library root named by libraryfolders.vdf.
// Both layouts are handled: modern files nest an object with a "path" key
// per numeric entry, old ones map the number straight to the path.
func libraryFolders(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	root, err := parseVDF(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	folders, ok := root["libraryfolders"].(object)
	if !ok {
		// pre-2021 clients titled the block "LibraryFolders"
		folders, ok = root["LibraryFolders"].(object)
		if !ok {
			return nil, errors.Errorf("%s: no libraryfolders block", path)
		}
	}

	// Entries are keyed by library number; modern files start at "0", old
	// ones at "1".
	var numbers []int
	for key := range folders {
		if n, err := strconv.Atoi(key); err == nil {
			numbers = append(numbers, n)
		}
	}
	sort.Ints(numbers)

	var paths []string
	for _, n := range numbers {
		switch v := folders[strconv.Itoa(n)].(type) {
		case string:
			paths = append(paths, filepath.Clean(v))
		case object:
			if p, ok := v["path"].(string); ok {
				paths = append(paths, filepath.Clean(p))
			}
		}
	}
	return paths, nil
}

// manifestInstallDir reads the installdir value out of an appmanifest file.
func manifestInstallDir(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	root, err := parseVDF(f)
	if err != nil {
		return "", errors.Wrapf(err, "parsing %s", path)
	}
	state, ok := root["AppState"].(object)
	if !ok {
		return "", errors.Errorf("%s: no AppState block", path)
	}
	dir, ok := state["installdir"].(string)
	if !ok || dir == "" {
		return "", errors.Errorf("%s: no installdir", path)
	}
	return dir, nil
}
