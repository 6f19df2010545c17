// DBFZ Raid Enabler patches RED-Win64-Shipping.exe so a locally chosen
// raid battle is active without the online availability check.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/SuperSwiftStalker/DBFZ-Raid-Enabler/backup"
	"github.com/SuperSwiftStalker/DBFZ-Raid-Enabler/exeinfo"
	"github.com/SuperSwiftStalker/DBFZ-Raid-Enabler/logging"
	"github.com/SuperSwiftStalker/DBFZ-Raid-Enabler/patcher"
	"github.com/SuperSwiftStalker/DBFZ-Raid-Enabler/raid"
	"github.com/SuperSwiftStalker/DBFZ-Raid-Enabler/shortcut"
	"github.com/SuperSwiftStalker/DBFZ-Raid-Enabler/steam"
)

const gameProcessName = "RED-Win64-Shipping.exe"

type options struct {
	output     string
	recipePath string
	shortcut   bool
	cleanup    bool
	list       bool
	verbose    bool
}

func main() {
	var opts options
	flag.Usage = usage
	flag.StringVar(&opts.output, "o", "", "write the patched executable to this `path` (default: sibling -Raid copy)")
	flag.StringVar(&opts.recipePath, "recipes", "", "YAML `file` overriding the built-in patch definitions")
	flag.BoolVar(&opts.shortcut, "shortcut", false, "create a launch shortcut next to the game executable")
	flag.BoolVar(&opts.cleanup, "cleanup", false, "remove the patched copy and shortcuts, then exit")
	flag.BoolVar(&opts.list, "list", false, "print the raid table, then exit")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Parse()

	closeLog := logging.Setup(opts.verbose)

	err := run(opts, flag.Args())
	if err != nil {
		log.WithError(err).Error("failed")
	}
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] [executable path] <raid index>\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "With no path, the game is located through the local Steam client.")
	flag.PrintDefaults()
}

func run(opts options, args []string) error {
	if opts.list {
		for _, boss := range raid.All() {
			fmt.Printf("%2d  %s\n", boss.Index, boss.Name)
		}
		return nil
	}
	if opts.cleanup {
		exePath, err := targetExe(args, 0)
		if err != nil {
			return err
		}
		result, err := backup.Cleanup(backup.PatchedPath(exePath))
		if err != nil {
			return err
		}
		log.Infof("cleanup done: patched copy removed=%v, shortcuts removed=%d",
			result.PatchedRemoved, result.ShortcutsRemoved)
		return nil
	}

	if len(args) < 1 || len(args) > 2 {
		usage()
		return errors.New("expected [executable path] <raid index>")
	}
	raidIndex, err := strconv.Atoi(args[len(args)-1])
	if err != nil {
		return errors.Wrapf(err, "raid index %q is not a number", args[len(args)-1])
	}
	if !raid.Valid(raidIndex) {
		return errors.Errorf("raid index %d is out of range (1-%d)", raidIndex, raid.Count)
	}
	exePath, err := targetExe(args, 1)
	if err != nil {
		return err
	}
	return patch(exePath, raidIndex, opts)
}

// targetExe resolves the executable path from the arguments, falling back
// to Steam discovery. extra is how many trailing non-path arguments the
// command form carries.
func targetExe(args []string, extra int) (string, error) {
	if len(args) > extra {
		return args[0], nil
	}
	game, err := steam.Locate()
	if err != nil {
		return "", err
	}
	log.WithField("root", game.Root).Info("game located")
	return game.Exe, nil
}

func patch(exePath string, raidIndex int, opts options) error {
	if err := ensureGameNotRunning(); err != nil {
		return err
	}

	image, err := os.ReadFile(exePath)
	if err != nil {
		return errors.Wrapf(err, "reading %s", exePath)
	}
	log.WithField("bytes", len(image)).Debugf("loaded %s", exePath)

	info, err := exeinfo.Inspect(image)
	if err != nil {
		return errors.Wrapf(err, "%s does not look like the game executable", exePath)
	}
	if !info.Known {
		log.WithField("md5", info.MD5).Warn("executable hash not recognized, a game update may have landed")
	}
	if current, ok := backup.DetectRaid(image); ok {
		log.Warnf("input looks already patched for raid %d (%s), expect the scans to fail unless this is the clean executable",
			current, raid.Name(current))
	}

	recipes := patcher.RaidRecipes(raidIndex)
	if opts.recipePath != "" {
		f, err := os.Open(opts.recipePath)
		if err != nil {
			return errors.Wrapf(err, "opening %s", opts.recipePath)
		}
		recipes, err = patcher.LoadRecipes(f, raidIndex)
		f.Close()
		if err != nil {
			return err
		}
		log.Infof("using %d patch definitions from %s", len(recipes), opts.recipePath)
	}

	results, err := patcher.PatchAll(image, recipes)
	if err != nil {
		return err
	}

	outPath := opts.output
	if outPath == "" {
		outPath = backup.PatchedPath(exePath)
	}
	if err := backup.WriteAtomic(outPath, image, 0644); err != nil {
		return err
	}

	log.Infof("enabled raid %d: %s", raidIndex, raid.Name(raidIndex))
	for _, r := range results {
		log.WithFields(log.Fields{
			"pattern": r.Name,
			"section": info.SectionOf(r.Offset),
		}).Infof("patched at 0x%X", r.Offset)
	}
	log.Infof("patched executable written to %s", outPath)

	if opts.shortcut {
		name := shortcut.FileName(raidIndex, raid.Name(raidIndex))
		lnk := filepath.Join(filepath.Dir(exePath), name)
		description := fmt.Sprintf("DBFZ Raid %d: %s", raidIndex, raid.Name(raidIndex))
		if err := shortcut.Create(lnk, outPath, description); err != nil {
			log.WithError(err).Warn("could not create shortcut")
		} else {
			log.Infof("shortcut created: %s", name)
		}
	}
	return nil
}

// ensureGameNotRunning refuses to patch while the game holds its
// executable open. Enumeration failures only log; patching proceeds.
func ensureGameNotRunning() error {
	procs, err := process.Processes()
	if err != nil {
		log.WithError(err).Debug("could not enumerate processes")
		return nil
	}
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		if strings.EqualFold(name, gameProcessName) {
			return errors.Errorf("%s is running (pid %d), close the game first", gameProcessName, p.Pid)
		}
	}
	return nil
}
