package parse

import (
	"regexp"
	"strings"
)

var (
	sectionHeader = regexp.MustCompile(`^[A-Za-z]`)
	storyHeader   = regexp.MustCompile(`^\[.*\]$`)
	storyPokemon  = regexp.MustCompile(`(?i)^\s*Pokemon\s*=`)
	storyAttr     = regexp.MustCompile(`^\s+\S`)
)

// lines splits text on newlines and returns the trimmed, non-blank lines.
func lines(text string) []string {
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// splitTrim splits s on sep and trims every part.
func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// Encounters parses an encounter table. A line starting with a letter opens a
// section named by the line; any other line must be "rate, name, min, max".
// Rows before the first section and rows with a different field count are
// dropped. Repeating a section label empties it but keeps its position.
func Encounters(text string) []EncounterSection {
	var sections []EncounterSection
	index := map[string]int{}
	current := -1

	for _, line := range lines(text) {
		if sectionHeader.MatchString(line) {
			if i, ok := index[line]; ok {
				sections[i].Rows = nil
				current = i
				continue
			}
			index[line] = len(sections)
			current = len(sections)
			sections = append(sections, EncounterSection{Label: line})
			continue
		}
		if current < 0 {
			continue
		}
		parts := splitTrim(line, ",")
		if len(parts) != 4 {
			continue
		}
		sections[current].Rows = append(sections[current].Rows, EncounterRow{
			Rate:     parts[0],
			Name:     parts[1],
			MinLevel: parts[2],
			MaxLevel: parts[3],
		})
	}
	return sections
}

// Trainers parses "Class | Name | species:level:item | ..." lines. Empty
// pipe segments are ignored and lines with fewer than three segments are
// dropped.
func Trainers(text string) []TrainerEntry {
	var trainers []TrainerEntry
	for _, line := range lines(text) {
		var segs []string
		for _, s := range splitTrim(line, "|") {
			if s != "" {
				segs = append(segs, s)
			}
		}
		if len(segs) < 3 {
			continue
		}

		t := TrainerEntry{Class: segs[0], Name: segs[1]}
		for _, spec := range segs[2:] {
			f := splitTrim(spec, ":")
			mon := RosterMon{Species: f[0]}
			if len(f) > 1 {
				mon.Level = f[1]
			}
			if len(f) > 2 {
				mon.Item = f[2]
			}
			t.Roster = append(t.Roster, mon)
		}
		trainers = append(trainers, t)
	}
	return trainers
}

// Story parses story battle blocks. Each block starts at a "[...]" line and
// runs until the next one. Inside a block a "Pokemon = species, level" line
// opens a creature and the indented "key = value" lines below it become its
// attributes.
func Story(text string) []StoryBlock {
	var blocks []StoryBlock
	var block *StoryBlock
	var poke *StoryPoke

	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(raw)

		if storyHeader.MatchString(trimmed) {
			blocks = append(blocks, StoryBlock{
				Header: splitTrim(trimmed[1:len(trimmed)-1], ","),
			})
			block = &blocks[len(blocks)-1]
			poke = nil
			continue
		}
		if block == nil {
			continue
		}

		switch {
		case storyPokemon.MatchString(raw):
			value := strings.SplitN(raw, "=", 3)[1]
			f := splitTrim(value, ",")
			p := StoryPoke{Species: f[0], Attrs: map[string]string{}}
			if len(f) > 1 {
				p.Level = f[1]
			}
			block.Pokes = append(block.Pokes, p)
			poke = &block.Pokes[len(block.Pokes)-1]

		case poke != nil && storyAttr.MatchString(raw):
			key, value, ok := strings.Cut(trimmed, "=")
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			value = strings.TrimPrefix(value, `"`)
			value = strings.TrimSuffix(value, `"`)
			poke.Attrs[strings.ToLower(strings.TrimSpace(key))] = value
		}
	}
	return blocks
}

// Entries parses "title | description" lines used by the item and
// achievement fields. Only the first pipe separates the title; later pipes
// stay in the description.
func Entries(text string) []Entry {
	var entries []Entry
	for _, line := range lines(text) {
		title, desc, _ := strings.Cut(line, "|")
		e := Entry{
			Title:       strings.TrimSpace(title),
			Description: strings.TrimSpace(desc),
		}
		if e.Description == "" {
			e.Description = DefaultDescription
		}
		entries = append(entries, e)
	}
	return entries
}

// DirectionKeys is the fixed order directions are listed in.
var DirectionKeys = []string{"north", "south", "east", "west"}

// Locality trims the location name and its neighbours, keeping only the
// directions that have a target.
func Locality(name, north, south, east, west string) Place {
	loc := Place{Name: strings.TrimSpace(name)}
	for i, target := range []string{north, south, east, west} {
		if target = strings.TrimSpace(target); target != "" {
			loc.Directions = append(loc.Directions, Direction{Key: DirectionKeys[i], Target: target})
		}
	}
	return loc
}
