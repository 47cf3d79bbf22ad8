// Package render serializes parsed location records into wiki markup. Every
// renderer returns one page fragment; an empty string means the fragment is
// left out of the page.
//
// The fallback literals each renderer uses are collected in [Defaults].
package render

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Context carries the raw field values of one render pass. It is built fresh
// for every pass and passed by value.
type Context struct {
	LocationName string
	North        string
	South        string
	East         string
	West         string
	Description  string
	Encounters   string
	LandType     string
	Trainers     string
	Story        string
	Items        string
	Gimmighoul   string
	Quest        string
	Achievements string
}

// Location returns the trimmed location name, or the default used in
// sentences when it is blank.
func (c Context) Location() string {
	if name := strings.TrimSpace(c.LocationName); name != "" {
		return name
	}
	return Defaults.LocationName
}

// Placeholder marks a value the wiki editor still has to fill in by hand.
const Placeholder = "FIX"

// EncounterDefaults are the fallbacks of the encounter renderer.
type EncounterDefaults struct {
	LandType        string
	NullCategory    string
	ForcedSecondary string
	// ForcedSecondaryNames lists upper-cased creature names that get
	// ForcedSecondary when the lookup gives them no secondary type.
	ForcedSecondaryNames []string
	// RodTypes maps rod section labels to their location type.
	RodTypes map[string]string
}

// TrainerDefaults are the fallbacks of the trainer renderer.
type TrainerDefaults struct {
	Item   string
	Reward string
	Battle string
	Header string
}

// StoryDefaults are the fallbacks of the story renderer.
type StoryDefaults struct {
	TrainerName  string
	PokemonCount string
	Theme        string
	Location     string
	Type         string
	Gender       string
	Ability      string
	Nature       string
	Level        string
	IVs          string
	MoveType     string
	MoveCategory string
	MaxMoves     int
}

// SectionDefaults are the messages of the single-field sections and of the
// list renderers when their field is blank.
type SectionDefaults struct {
	Gimmighoul   string
	Quest        string
	Achievements string
}

// Table groups the fallbacks of every renderer.
type Table struct {
	LocationName string
	Encounter    EncounterDefaults
	Trainer      TrainerDefaults
	Story        StoryDefaults
	Section      SectionDefaults
	MapSuffix    string
}

// Defaults is the central fallback table.
var Defaults = Table{
	LocationName: "null",
	Encounter: EncounterDefaults{
		LandType:             "Grass",
		NullCategory:         "Null",
		ForcedSecondary:      "Fairy",
		ForcedSecondaryNames: []string{"SKITTY", "DELCATTY"},
		RodTypes: map[string]string{
			"OldRod":   "Fish Old",
			"GoodRod":  "Fish Good",
			"SuperRod": "Fish Super",
		},
	},
	Trainer: TrainerDefaults{
		Item:   "None",
		Reward: "0",
		Battle: "B",
		Header: "Road",
	},
	Story: StoryDefaults{
		TrainerName:  Placeholder,
		PokemonCount: Placeholder,
		Theme:        Placeholder,
		Location:     Placeholder,
		Type:         Placeholder,
		Gender:       Placeholder,
		Ability:      Placeholder,
		Nature:       Placeholder,
		Level:        Placeholder,
		IVs:          "FIX,FI\u200bX,FI\u200bX,FI\u200bX,FI\u200bX,FI\u200bX",
		MoveType:     Placeholder,
		MoveCategory: Placeholder,
		MaxMoves:     4,
	},
	Section: SectionDefaults{
		Gimmighoul:   "Gimmighoul cannot be found on this area.",
		Quest:        "There are no quests available on this area.",
		Achievements: "There are no achievements related to this area.",
	},
	MapSuffix: "_Map.png",
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// fileName turns a title into a wiki file name: whitespace runs become one
// underscore and suffix is appended.
func fileName(title, suffix string) string {
	return whitespaceRun.ReplaceAllString(title, "_") + suffix
}

// DisplayName upper-cases the first rune and lower-cases the rest.
func DisplayName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return name
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(name[size:])
}

// or returns v unless it is empty.
func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
