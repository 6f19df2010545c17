//go:build !windows

package shortcut

import "github.com/pkg/errors"

// Create needs the Windows shell; .lnk files mean nothing elsewhere.
func Create(path, targetExe, description string) error {
	return errors.New("shortcut creation requires Windows")
}
