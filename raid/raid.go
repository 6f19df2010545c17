// Package raid carries the raid battle index table shipped with the game.
package raid

import (
	"fmt"
	"sort"
)

// Count is the highest raid index the game shipped with.
const Count = 38

var bosses = map[int]string{
	1:  "The Emperor Strikes Back",
	2:  "The Cell Games Main Event",
	3:  "The Might of a Majin",
	4:  "Living Legend of Universe 6",
	5:  "Universe 7's God of Destruction",
	6:  "Ominous Android",
	7:  "Leading the Pack",
	8:  "Heated, Furious, Ultimate Battle",
	9:  "Father of Goku",
	10: "Future Freedom Fighters",
	11: "Foes from a Fearsome Future",
	12: "Pushing Past the Limits",
	13: "Savage Saiyan Showdown",
	14: "Android Assault",
	15: "Cooler's Revenge",
	16: "Beyond the Gods",
	17: "Videl's Training",
	18: "Goku Gauntlet",
	19: "From the Depths of Hell",
	20: "The Ultimate Fusion",
	21: "Power Incarnate",
	22: "Defiant in the Face of Despair",
	23: "A God in Mortal Form",
	24: "Fusion is Child's Play!",
	25: "Defenders of the Future",
	26: "Warm-Hearted Warrior",
	27: "The Best of Universe 7",
	28: "A Once Fearsome Foe",
	29: "Float Like a Crane, Sting Like a... Turtle?",
	30: "Earth's Mightiest",
	31: "The Power of a God",
	32: "First in Female Fusion",
	33: "God Among Gods",
	34: "The Greatest Kamehameha",
	35: "Facing the Fusions",
	36: "Trouble with a Tuffle",
	37: "Elegant Androids",
	38: "Ultimate Zenkai Battle",
}

// Valid reports whether index names a known raid.
func Valid(index int) bool {
	_, ok := bosses[index]
	return ok
}

// Name returns the raid boss name for index.
func Name(index int) string {
	if name, ok := bosses[index]; ok {
		return name
	}
	return fmt.Sprintf("Unknown Raid %d", index)
}

// Boss is one raid entry, for listings.
type Boss struct {
	Index int
	Name  string
}

// All returns every raid ordered by index.
func All() []Boss {
	all := make([]Boss, 0, len(bosses))
	for index, name := range bosses {
		all = append(all, Boss{Index: index, Name: name})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Index < all[j].Index })
	return all
}
