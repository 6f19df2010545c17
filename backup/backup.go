// Package backup keeps the clean executable untouched: patched bytes go to
// a sibling copy, written atomically, and the tool can find and remove its
// own artifacts again.
package backup

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/SuperSwiftStalker/DBFZ-Raid-Enabler/raid"
)

// PatchedSuffix is appended to the clean executable's base name to form the
// default output path.
const PatchedSuffix = "-Raid"

// shortcutGlob matches the launch shortcuts this tool creates.
const shortcutGlob = "DBFZ Raid *.lnk"

// PatchedPath returns the default sibling output path for a clean
// executable, e.g. RED-Win64-Shipping.exe -> RED-Win64-Shipping-Raid.exe.
func PatchedPath(cleanExe string) string {
	ext := filepath.Ext(cleanExe)
	return strings.TrimSuffix(cleanExe, ext) + PatchedSuffix + ext
}

// WriteAtomic writes data to path through a temp file in the same
// directory followed by a rename, so a failed write never leaves a
// truncated or partially patched file behind.
func WriteAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "creating temp file in %s", dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "writing %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "closing %s", tmpName)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "setting mode on %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "renaming over %s", path)
	}
	return nil
}

// DetectRaid scans an image for the patched get-raid site, B8 <index LE>
// 90, and returns the embedded raid index when the image is already
// patched for a known raid.
func DetectRaid(image []byte) (int, bool) {
	for i := 0; i+6 <= len(image); i++ {
		if image[i] != 0xB8 || image[i+5] != 0x90 {
			continue
		}
		index := int(binary.LittleEndian.Uint32(image[i+1 : i+5]))
		if raid.Valid(index) {
			return index, true
		}
	}
	return 0, false
}

// CleanupResult reports what Cleanup removed.
type CleanupResult struct {
	PatchedRemoved   bool
	ShortcutsRemoved int
}

// Cleanup removes the patched executable and every shortcut this tool
// created next to it. The clean executable is never touched, so there is
// nothing to restore.
func Cleanup(patchedExe string) (CleanupResult, error) {
	var result CleanupResult

	switch err := os.Remove(patchedExe); {
	case err == nil:
		log.WithField("path", patchedExe).Info("patched executable removed")
		result.PatchedRemoved = true
	case os.IsNotExist(err):
		log.WithField("path", patchedExe).Debug("no patched executable to remove")
	default:
		return result, errors.Wrapf(err, "removing %s", patchedExe)
	}

	shortcuts, err := filepath.Glob(filepath.Join(filepath.Dir(patchedExe), shortcutGlob))
	if err != nil {
		return result, errors.Wrap(err, "listing shortcuts")
	}
	for _, lnk := range shortcuts {
		if err := os.Remove(lnk); err != nil {
			log.WithError(err).WithField("path", lnk).Warn("could not remove shortcut")
			continue
		}
		log.WithField("path", lnk).Info("shortcut removed")
		result.ShortcutsRemoved++
	}
	return result, nil
}
