// Package steam locates the DRAGON BALL FighterZ installation through the
// local Steam client's registry entries, library list and app manifest.
package steam

import (
	"path/filepath"

	"github.com/pkg/errors"
)

// AppID is the game's Steam application id.
const AppID = "678950"

const gameFolderName = "DRAGON BALL FighterZ"

var exeRelPath = filepath.Join("RED", "Binaries", "Win64", "RED-Win64-Shipping.exe")

var (
	// ErrSteamNotFound means no Steam installation could be detected.
	ErrSteamNotFound = errors.New("Steam installation not found")
	// ErrGameNotFound means no library contains a playable install.
	ErrGameNotFound = errors.New("DRAGON BALL FighterZ installation not found")
)

// Game is a located install.
type Game struct {
	Root string // game root under steamapps/common
	Exe  string // the clean RED-Win64-Shipping.exe
}
