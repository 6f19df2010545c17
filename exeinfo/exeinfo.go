// Package exeinfo recognizes the target executable and maps patched file
// offsets back to PE sections for reporting.
package exeinfo

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	peparser "github.com/saferwall/pe"
	"github.com/thoas/go-funk"
)

// Known clean RED-Win64-Shipping.exe hashes. Game updates move this, so an
// unknown hash is reported rather than rejected; the signature scans are
// the real compatibility check.
var knownMd5Hashes = []string{
	"3b1f74b2c3d1f4f1a9e8c05d2c6fd1be",
}

// Info describes a loaded executable image.
type Info struct {
	MD5      string
	Known    bool
	sections []peparser.Section
}

// Inspect hashes the image and parses its PE headers. A file that does not
// parse as PE is not the game executable and is rejected.
func Inspect(image []byte) (*Info, error) {
	sum := md5.Sum(image)
	hash := hex.EncodeToString(sum[:])

	peFile, err := peparser.NewBytes(image, &peparser.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "opening PE image")
	}
	if err := peFile.Parse(); err != nil {
		return nil, errors.Wrap(err, "parsing PE image")
	}
	info := &Info{
		MD5:      hash,
		Known:    funk.IndexOf(knownMd5Hashes, hash) >= 0,
		sections: peFile.Sections,
	}
	if err := peFile.Close(); err != nil {
		return nil, errors.Wrap(err, "closing PE image")
	}
	return info, nil
}

// SectionOf names the PE section whose raw data contains the file offset,
// or "?" when the offset falls outside every section.
func (i *Info) SectionOf(offset int) string {
	found := funk.Find(i.sections, func(section peparser.Section) bool {
		start := int64(section.Header.PointerToRawData)
		end := start + int64(section.Header.SizeOfRawData)
		return int64(offset) >= start && int64(offset) < end
	})
	if found == nil {
		return "?"
	}
	section := found.(peparser.Section)
	return strings.TrimRight(string(section.Header.Name[:]), "\x00")
}
