package render

import (
	"fmt"
	"strings"

	"github.com/tatianab/wikigen/internal/parse"
)

// Locality builds the Town infobox and Location templates. Nothing is
// rendered without a location name.
func Locality(rc Context) string {
	loc := parse.Locality(rc.LocationName, rc.North, rc.South, rc.East, rc.West)
	if loc.Name == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("{{Town infobox|name=")
	b.WriteString(loc.Name)
	places := make([]string, len(loc.Directions))
	for i, d := range loc.Directions {
		fmt.Fprintf(&b, "|%s=%s", d.Key, d.Target)
		places[i] = "[[" + d.Target + "]]"
	}
	b.WriteString("}}")

	fmt.Fprintf(&b, "\n{{Location|image=%s|location=%s}}", fileName(loc.Name, Defaults.MapSuffix), Between(places))
	return b.String()
}

// Between phrases the neighbouring places: "Between A", "Between A and B",
// "Between A, B and C". With no places the list form still applies and both
// sides of the "and" are empty.
func Between(places []string) string {
	if len(places) == 0 {
		return "Between  and "
	}
	return "Between " + JoinPlaces(places)
}

// JoinPlaces joins items as an English list with "and" before the last one.
func JoinPlaces(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

// Description passes the free-text description through on its own line.
func Description(rc Context) string {
	return "\n" + strings.TrimSpace(rc.Description)
}

// Items builds the "Items" section as an Itemlist per line.
func Items(rc Context) string {
	loc := rc.Location()
	raw := strings.TrimSpace(rc.Items)
	if raw == "" {
		return fmt.Sprintf("\n\n==Items==\nThere are no items available at %s.", loc)
	}

	entries := parse.Entries(raw)
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("{{Itemlist|%s|%s}}", e.Title, e.Description)
	}
	return fmt.Sprintf("\n\n==Items==\n%s contains the following items:\n{{Itlisth}}\n", loc) +
		strings.Join(lines, "\n") + "\n{{Itlistfoot}}"
}

// Achievements builds the "Achievements" section, one subsection with a
// thumbnail per line.
func Achievements(rc Context) string {
	raw := strings.TrimSpace(rc.Achievements)
	if raw == "" {
		return "\n\n==Achievements==\n" + Defaults.Section.Achievements
	}

	entries := parse.Entries(raw)
	blocks := make([]string, len(entries))
	for i, e := range entries {
		blocks[i] = fmt.Sprintf("===%s===\n[[File:%s|thumb]]\n%s", e.Title, fileName(e.Title, ".png"), e.Description)
	}
	return "\n\n==Achievements==\n" + strings.Join(blocks, "\n\n")
}

// Gimmighoul wraps the flavor mechanic note in its template.
func Gimmighoul(rc Context) string {
	text := or(strings.TrimSpace(rc.Gimmighoul), Defaults.Section.Gimmighoul)
	return fmt.Sprintf("\n\n==Gimmighoul==\n{{Gimmighoul|%s}}", text)
}

// Quest passes the quest note through under its own heading.
func Quest(rc Context) string {
	text := or(strings.TrimSpace(rc.Quest), Defaults.Section.Quest)
	return "\n\n==Quest==\n" + text
}
