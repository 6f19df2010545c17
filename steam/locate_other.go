//go:build !windows

package steam

import "github.com/pkg/errors"

// Locate needs the Windows registry; elsewhere the caller must pass the
// executable path explicitly.
func Locate() (Game, error) {
	return Game{}, errors.New("automatic game discovery requires Windows; pass the executable path as an argument")
}
