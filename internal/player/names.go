package player

import "math/rand/v2"

var (
	visitorFirstNames = []string{
		"Ash", "Bram", "Cedar", "Dune", "Ember", "Fen", "Gale", "Hollis",
		"Ivy", "Juniper", "Kestrel", "Lark", "Moss", "Nettle", "Onyx", "Pike",
		"Quill", "Rook", "Sable", "Thistle", "Umber", "Vale", "Wren", "Yarrow",
	}
	visitorLastNames = []string{
		"Wanderer", "Stranger", "Traveller", "Drifter", "Pilgrim", "Rover",
	}
)

// visitorName picks a name for a connection that has not logged in.
func visitorName() (first, last string) {
	return visitorFirstNames[rand.IntN(len(visitorFirstNames))],
		visitorLastNames[rand.IntN(len(visitorLastNames))]
}
