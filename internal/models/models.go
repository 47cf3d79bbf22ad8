package models

import (
	"errors"
	"fmt"
	"slices"
)

// Field ids. They are also the keys of the YAML snapshot, so renaming one
// orphans the values saved under it.
const (
	FieldLocationName = "loc-name"
	FieldNorth        = "loc-north"
	FieldSouth        = "loc-south"
	FieldEast         = "loc-east"
	FieldWest         = "loc-west"
	FieldDescription  = "desc-text"
	FieldEncounters   = "enc-text"
	FieldLandType     = "land-type"
	FieldTrainers     = "trn-text"
	FieldStory        = "story-text"
	FieldItems        = "item-text"
	FieldGimmighoul   = "gimm-text"
	FieldQuest        = "quest-text"
	FieldAchievements = "ach-text"
)

// ErrUnknownField is returned when a field id is not one of the ids above.
var ErrUnknownField = errors.New("unknown field")

// LandTypes are the encounter location types offered for the land section.
var LandTypes = []string{"Grass", "Cave", "Sand", "Surf"}

// Field describes one editable field.
type Field struct {
	ID        string `yaml:"id"`
	Label     string `yaml:"label"`
	Multiline bool   `yaml:"multiline"`
	// Choices, when set, restricts the field to one of these values.
	Choices []string `yaml:"choices,omitempty"`
	Help    string   `yaml:"help,omitempty"`
}

// Topic is a group of fields edited together.
type Topic struct {
	ID     string  `yaml:"id"`
	Title  string  `yaml:"title"`
	Fields []Field `yaml:"fields"`
}

// Topics lists every editable field, grouped and ordered as the page is.
var Topics = []Topic{
	{ID: "localization", Title: "Localization", Fields: []Field{
		{ID: FieldLocationName, Label: "Name"},
		{ID: FieldNorth, Label: "North"},
		{ID: FieldSouth, Label: "South"},
		{ID: FieldEast, Label: "East"},
		{ID: FieldWest, Label: "West"},
	}},
	{ID: "description", Title: "Description", Fields: []Field{
		{ID: FieldDescription, Label: "Description", Multiline: true},
	}},
	{ID: "encounters", Title: "Encounters", Fields: []Field{
		{ID: FieldLandType, Label: "Land type", Choices: LandTypes},
		{ID: FieldEncounters, Label: "Encounters", Multiline: true,
			Help: "Section label on its own line (Land, OldRod, GoodRod, SuperRod, ...), then rate, name, min, max"},
	}},
	{ID: "trainers", Title: "Trainers", Fields: []Field{
		{ID: FieldTrainers, Label: "Trainers", Multiline: true,
			Help: "Class | Name | species:level[:item] | ..."},
	}},
	{ID: "story", Title: "Story", Fields: []Field{
		{ID: FieldStory, Label: "Story battles", Multiline: true,
			Help: "[id, trainer, count] then Pokemon = species, level and indented key = value lines"},
	}},
	{ID: "items", Title: "Items", Fields: []Field{
		{ID: FieldItems, Label: "Items", Multiline: true, Help: "Item | description"},
	}},
	{ID: "gimmighoul", Title: "Gimmighoul", Fields: []Field{
		{ID: FieldGimmighoul, Label: "Gimmighoul", Multiline: true},
	}},
	{ID: "quests", Title: "Quests", Fields: []Field{
		{ID: FieldQuest, Label: "Quest", Multiline: true},
	}},
	{ID: "achievements", Title: "Achievements", Fields: []Field{
		{ID: FieldAchievements, Label: "Achievements", Multiline: true, Help: "Title | description"},
	}},
}

// FieldIDs returns every field id in page order.
func FieldIDs() []string {
	var ids []string
	for _, t := range Topics {
		for _, f := range t.Fields {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// ValidateField returns ErrUnknownField for ids not listed in Topics.
func ValidateField(id string) error {
	if !slices.Contains(FieldIDs(), id) {
		return fmt.Errorf("%w %q", ErrUnknownField, id)
	}
	return nil
}

// Fields is a snapshot of raw field values keyed by field id. Missing keys
// read as the empty string.
type Fields map[string]string

// Get returns the raw value of id.
func (f Fields) Get(id string) string {
	return f[id]
}
