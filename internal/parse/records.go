// Package parse turns the free-form text typed into each location field into
// ordered records. Every parser is line oriented: lines are trimmed, blank
// lines are skipped and rows that do not have the expected shape are dropped
// without a diagnostic.
package parse

// EncounterRow is one catchable creature inside an encounter section.
type EncounterRow struct {
	Rate     string
	Name     string
	MinLevel string
	MaxLevel string
}

// EncounterSection groups rows under the label typed on its header line,
// e.g. "Land" or "OldRod".
type EncounterSection struct {
	Label string
	Rows  []EncounterRow
}

// RosterMon is one creature of a trainer's roster. Level and Item are empty
// when the roster entry omitted them.
type RosterMon struct {
	Species string
	Level   string
	Item    string
}

// TrainerEntry is one trainer line: class, name and at least one creature.
type TrainerEntry struct {
	Class  string
	Name   string
	Roster []RosterMon
}

// StoryPoke is a creature declared with a "Pokemon = species, level" line.
// Attrs holds the indented key = value lines that follow it, keyed by the
// lowercased key.
type StoryPoke struct {
	Species string
	Level   string
	Attrs   map[string]string
}

// Attr returns the attribute value and whether it was set to a non-empty
// value.
func (p StoryPoke) Attr(key string) (string, bool) {
	v, ok := p.Attrs[key]
	return v, ok && v != ""
}

// StoryBlock is one bracket-header delimited story battle.
type StoryBlock struct {
	// Header holds the trimmed comma separated parts of the bracket content.
	// The first part is not used by the renderer.
	Header []string
	Pokes  []StoryPoke
}

// TrainerName returns the second header part, if present.
func (b StoryBlock) TrainerName() (string, bool) {
	return b.header(1)
}

// PokemonCount returns the third header part, if present.
func (b StoryBlock) PokemonCount() (string, bool) {
	return b.header(2)
}

func (b StoryBlock) header(i int) (string, bool) {
	if i >= len(b.Header) {
		return "", false
	}
	return b.Header[i], true
}

// DefaultDescription is used when an item or achievement line has no
// description after the first pipe.
const DefaultDescription = "No description provided."

// Entry is a title with a description; items and achievements share it.
type Entry struct {
	Title       string
	Description string
}

// Direction is a neighbouring location in one compass direction.
type Direction struct {
	Key    string
	Target string
}

// Place is a location name plus its non-blank neighbours, always ordered
// north, south, east, west.
type Place struct {
	Name       string
	Directions []Direction
}
