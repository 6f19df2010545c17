//go:build windows

package shortcut

import (
	"os"
	"path/filepath"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"github.com/pkg/errors"
)

// Create writes a .lnk at path pointing at targetExe, through the
// WScript.Shell COM object. An existing shortcut at path is replaced.
func Create(path, targetExe, description string) error {
	if err := ole.CoInitialize(0); err == nil {
		defer ole.CoUninitialize()
	}

	unknown, err := oleutil.CreateObject("WScript.Shell")
	if err != nil {
		return errors.Wrap(err, "creating WScript.Shell")
	}
	defer unknown.Release()

	shell, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return errors.Wrap(err, "querying IDispatch")
	}
	defer shell.Release()

	// CreateShortcut only loads an existing .lnk; drop it first so stale
	// properties never linger.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing old shortcut %s", path)
	}

	lnkRaw, err := oleutil.CallMethod(shell, "CreateShortcut", path)
	if err != nil {
		return errors.Wrap(err, "CreateShortcut")
	}
	lnk := lnkRaw.ToIDispatch()
	defer lnk.Release()

	properties := []struct {
		name  string
		value string
	}{
		{"TargetPath", targetExe},
		{"WorkingDirectory", filepath.Dir(targetExe)},
		{"Description", description},
		{"IconLocation", targetExe},
	}
	for _, p := range properties {
		if _, err := oleutil.PutProperty(lnk, p.name, p.value); err != nil {
			return errors.Wrapf(err, "setting %s", p.name)
		}
	}
	if _, err := oleutil.CallMethod(lnk, "Save"); err != nil {
		return errors.Wrap(err, "saving shortcut")
	}
	return nil
}
