// Package shortcut creates the per-raid launch shortcuts next to the game.
package shortcut

import (
	"fmt"
	"strings"
)

// invalidNameChars are rejected by NTFS in file names; raid names like
// "Float Like a Crane, Sting Like a... Turtle?" need them stripped.
const invalidNameChars = `\/:*?"<>|`

// FileName builds the .lnk file name for a raid, e.g.
// "DBFZ Raid 07 - Leading the Pack.lnk". Keep it matching the cleanup glob
// in the backup package.
func FileName(raidIndex int, raidName string) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidNameChars, r) {
			return -1
		}
		return r
	}, raidName)
	clean = strings.TrimSpace(clean)
	return fmt.Sprintf("DBFZ Raid %02d - %s.lnk", raidIndex, clean)
}
