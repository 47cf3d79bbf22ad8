package render

import (
	"fmt"
	"strings"

	"github.com/tatianab/wikigen/internal/parse"
)

// Story builds the "Story Battles" section, one party per bracket block.
// Nothing is rendered when the field is blank or holds no block.
func Story(rc Context) string {
	if strings.TrimSpace(rc.Story) == "" {
		return ""
	}
	blocks := parse.Story(rc.Story)
	if len(blocks) == 0 {
		return ""
	}

	d := Defaults.Story
	out := []string{"\n\n==Story Battles=="}
	for _, b := range blocks {
		name, ok := b.TrainerName()
		if !ok {
			name = d.TrainerName
		}
		count, ok := b.PokemonCount()
		if !ok {
			count = d.PokemonCount
		}

		out = append(out,
			fmt.Sprintf("===Pokemon Trainer %s===\n[[%s]] is battled in a single battle format.", name, name),
			fmt.Sprintf("{{Party/Single|theme=%s|sprite=%s-002.png|size=100px|class=Pokemon Trainer|name=%s|location=%s|pokemon=%s}}",
				d.Theme, name, name, d.Location, count),
		)
		for _, p := range b.Pokes {
			out = append(out, PartyPokemon(p))
		}
		out = append(out, "{{Party/Footer}}")
	}
	return strings.Join(out, "\n")
}

// field is one key=value pair of a template call; order matters.
type field struct {
	key, value string
}

// PartyPokemon renders one story creature as a Pokémon template.
func PartyPokemon(p parse.StoryPoke) string {
	d := Defaults.Story
	attr := func(key, fallback string) string {
		v, _ := p.Attr(key)
		return or(v, fallback)
	}

	fields := []field{
		{"type1", d.Type},
		{"sprite", p.Species + ".png"},
		{"spritegender", attr("gender", d.Gender)},
		{"pokemon", p.Species},
		{"ability", attr("ability", d.Ability)},
		{"nature", attr("nature", d.Nature)},
		{"gender", attr("gender", d.Gender)},
		{"level", or(p.Level, d.Level)},
		{"StatIVs", attr("iv", d.IVs)},
	}
	for _, opt := range []struct{ attr, key string }{
		{"item", "item"},
		{"shiny", "shiny"},
		{"name", "nickname"},
	} {
		if v, ok := p.Attr(opt.attr); ok {
			fields = append(fields, field{opt.key, v})
		}
	}

	for i, move := range moves(p) {
		n := i + 1
		fields = append(fields,
			field{fmt.Sprintf("move%d", n), move},
			field{fmt.Sprintf("move%dtype", n), d.MoveType},
			field{fmt.Sprintf("move%dcat", n), d.MoveCategory},
		)
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.key + "=" + f.value
	}
	return "{{Pokémon|" + strings.Join(parts, "|") + "}}"
}

// moves returns at most MaxMoves trimmed entries of the "moves" attribute.
func moves(p parse.StoryPoke) []string {
	raw, ok := p.Attr("moves")
	if !ok {
		return nil
	}
	list := strings.Split(raw, ",")
	if len(list) > Defaults.Story.MaxMoves {
		list = list[:Defaults.Story.MaxMoves]
	}
	for i, m := range list {
		list[i] = strings.TrimSpace(m)
	}
	return list
}
