package tile

import "fmt"

type (
	// Language selects the letter distribution a game is played with.
	Language string

	// distribution is one letter's count and point value in a language.
	distribution struct {
		letter Letter
		count  int
		points int
	}
)

const (
	// English is the 100-tile English distribution.
	English Language = "EN"
	// French is the 102-tile French distribution.
	French Language = "FR"

	// JokersPerSet is how many blank tiles each distribution contains.
	JokersPerSet = 2
)

// ParseLanguage converts a config value into a Language.
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case English:
		return English, nil
	case French:
		return French, nil
	}
	return "", fmt.Errorf("unknown language: %q (want EN or FR)", s)
}

var distributions = map[Language][]distribution{
	English: {
		{"A", 9, 1}, {"B", 2, 3}, {"C", 2, 3}, {"D", 4, 2}, {"E", 12, 1},
		{"F", 2, 4}, {"G", 3, 2}, {"H", 2, 4}, {"I", 9, 1}, {"J", 1, 8},
		{"K", 1, 5}, {"L", 4, 1}, {"M", 2, 3}, {"N", 6, 1}, {"O", 8, 1},
		{"P", 2, 3}, {"Q", 1, 10}, {"R", 6, 1}, {"S", 4, 1}, {"T", 6, 1},
		{"U", 4, 1}, {"V", 2, 4}, {"W", 2, 4}, {"X", 1, 8}, {"Y", 2, 4},
		{"Z", 1, 10},
	},
	French: {
		{"A", 9, 1}, {"B", 2, 3}, {"C", 2, 3}, {"D", 3, 2}, {"E", 15, 1},
		{"F", 2, 4}, {"G", 2, 2}, {"H", 2, 4}, {"I", 8, 1}, {"J", 1, 8},
		{"K", 1, 10}, {"L", 5, 1}, {"M", 3, 2}, {"N", 6, 1}, {"O", 6, 1},
		{"P", 2, 3}, {"Q", 1, 8}, {"R", 6, 1}, {"S", 6, 1}, {"T", 6, 1},
		{"U", 6, 1}, {"V", 2, 4}, {"W", 1, 10}, {"X", 1, 10}, {"Y", 1, 10},
		{"Z", 1, 10},
	},
}

// NewSet builds the full tile set for a language, jokers last, with ids
// assigned sequentially from 1.
func NewSet(lang Language) ([]Tile, error) {
	dist, ok := distributions[lang]
	if !ok {
		return nil, fmt.Errorf("unknown language: %q", lang)
	}
	var tiles []Tile
	id := ID(1)
	for _, d := range dist {
		for i := 0; i < d.count; i++ {
			tiles = append(tiles, Tile{ID: id, Letter: d.letter, Points: d.points})
			id++
		}
	}
	for i := 0; i < JokersPerSet; i++ {
		tiles = append(tiles, Tile{ID: id, Joker: true})
		id++
	}
	return tiles, nil
}

// PointsFor looks up the face value of a letter in a language.  Jokers are
// worth zero regardless of the letter chosen for them.
func PointsFor(lang Language, l Letter) int {
	for _, d := range distributions[lang] {
		if d.letter == l {
			return d.points
		}
	}
	return 0
}
