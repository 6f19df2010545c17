//go:build windows

package steam

import (
	"os"
	"path/filepath"

	"github.com/apex/log"
	"golang.org/x/sys/windows/registry"
)

var defaultSteamPaths = []string{
	`C:\Program Files (x86)\Steam`,
	`C:\Program Files\Steam`,
}

// Locate finds the game across every Steam library, preferring the app
// manifest over a folder name probe so renamed install dirs still resolve.
func Locate() (Game, error) {
	root, err := steamRoot()
	if err != nil {
		return Game{}, err
	}
	log.WithField("steam", root).Debug("Steam root located")

	libs := []string{root}
	more, err := libraryFolders(filepath.Join(root, "steamapps", "libraryfolders.vdf"))
	if err != nil {
		log.WithError(err).Warn("could not read libraryfolders.vdf, checking the main library only")
	}
	for _, lib := range more {
		if lib != root {
			libs = append(libs, lib)
		}
	}

	for _, lib := range libs {
		manifest := filepath.Join(lib, "steamapps", "appmanifest_"+AppID+".acf")
		installDir, err := manifestInstallDir(manifest)
		if err != nil {
			continue
		}
		if game, ok := probe(filepath.Join(lib, "steamapps", "common", installDir)); ok {
			log.WithField("root", game.Root).Debug("game found via app manifest")
			return game, nil
		}
		log.WithField("manifest", manifest).Warn("manifest present but executable missing, verify game files")
	}

	// No manifest matched; probe the stock folder name directly.
	for _, lib := range libs {
		if game, ok := probe(filepath.Join(lib, "steamapps", "common", gameFolderName)); ok {
			log.WithField("root", game.Root).Debug("game found via folder probe")
			return game, nil
		}
	}
	return Game{}, ErrGameNotFound
}

func probe(gameRoot string) (Game, bool) {
	exe := filepath.Join(gameRoot, exeRelPath)
	if fi, err := os.Stat(exe); err == nil && !fi.IsDir() {
		return Game{Root: gameRoot, Exe: exe}, true
	}
	return Game{}, false
}

// steamRoot reads the client path from HKCU, falling back to the stock
// install locations.
func steamRoot() (string, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, `Software\Valve\Steam`, registry.QUERY_VALUE)
	if err == nil {
		defer key.Close()
		if p, _, err := key.GetStringValue("SteamPath"); err == nil {
			p = filepath.Clean(p)
			if fi, err := os.Stat(p); err == nil && fi.IsDir() {
				return p, nil
			}
		}
	}
	for _, p := range defaultSteamPaths {
		if fi, err := os.Stat(p); err == nil && fi.IsDir() {
			return p, nil
		}
	}
	return "", ErrSteamNotFound
}
