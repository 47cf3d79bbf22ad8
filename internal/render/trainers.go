package render

import (
	"fmt"
	"strings"

	"github.com/tatianab/wikigen/internal/parse"
)

// Trainers builds the "Trainer Battles" section. A blank field yields a
// "no trainer battles" message; a field with no valid trainer line yields
// nothing.
func Trainers(rc Context) string {
	loc := rc.Location()
	raw := strings.TrimSpace(rc.Trainers)
	if raw == "" {
		return fmt.Sprintf("\n\n==Trainer Battles==\nThere are no trainer battles on %s.", loc)
	}

	trainers := parse.Trainers(raw)
	if len(trainers) == 0 {
		return ""
	}

	entries := make([]string, len(trainers))
	for i, t := range trainers {
		entries[i] = TrainerEntry(t)
	}

	header := Defaults.Trainer.Header
	return fmt.Sprintf("\n\n==Trainer Battles==\nThe following trainers are found on %s:\n{{Trainerheader|%s}}\n", loc, header) +
		strings.Join(entries, "\n") +
		fmt.Sprintf("\n{{Trainerfooter|%s}}", header)
}

// TrainerEntry renders one trainer as a Trainerentry template.
func TrainerEntry(t parse.TrainerEntry) string {
	d := Defaults.Trainer
	mons := make([]string, len(t.Roster))
	for i, m := range t.Roster {
		mons[i] = strings.Join([]string{m.Species, m.Species, d.Battle, m.Level, or(m.Item, d.Item)}, "|")
	}
	return fmt.Sprintf("{{Trainerentry|%s|%s|%s|%s|%d|%s}}",
		fileName(t.Class, ".png"), t.Class, t.Name, d.Reward, len(t.Roster), strings.Join(mons, "|"))
}
