package render

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tatianab/wikigen/internal/lookup"
	"github.com/tatianab/wikigen/internal/parse"
)

// Option is a functional option for [NewEncounterRenderer].
type Option func(*EncounterRenderer)

// WithConcurrency bounds how many lookups run at once. 1 dispatches them
// sequentially; values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(r *EncounterRenderer) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// EncounterRenderer renders the encounter table. It needs a lookup client to
// fill in each creature's types.
type EncounterRenderer struct {
	client      lookup.Client
	concurrency int
}

// NewEncounterRenderer creates a renderer that resolves types with client.
// Lookups run up to 8 at a time unless [WithConcurrency] says otherwise.
func NewEncounterRenderer(client lookup.Client, opts ...Option) *EncounterRenderer {
	r := &EncounterRenderer{client: client, concurrency: 8}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render builds the "Pokémon Encounters" section from rc.Encounters.
func (r *EncounterRenderer) Render(ctx context.Context, rc Context) string {
	loc := rc.Location()
	if rc.Encounters == "" {
		return fmt.Sprintf("\n==Pokémon Encounters==\nNo Pokémon can be found on %s.", loc)
	}

	sections := parse.Encounters(rc.Encounters)
	results := r.lookupAll(ctx, sections)

	landType := or(strings.TrimSpace(rc.LandType), Defaults.Encounter.LandType)
	out := []string{"{{Encounters/Header}}", "{{Catch/div}}"}
	rodStarted := false
	n := 0
	for _, sec := range sections {
		rodType, isRod := Defaults.Encounter.RodTypes[sec.Label]
		if isRod && !rodStarted {
			out = append(out, "{{Catch/div|Fishing|fishing}}")
			rodStarted = true
		}
		locType := landType
		if isRod {
			locType = rodType
		}
		for _, row := range sec.Rows {
			primary, secondary := results[n].Categories()
			n++
			out = append(out, CatchEntry(row, locType, primary, secondary))
		}
	}
	out = append(out, fmt.Sprintf("{{Catch/footer|%s}}", loc))

	intro := fmt.Sprintf("\n==Pokémon Encounters==\nThe following Pokémon can be found on %s:\n===Land===", loc)
	return intro + "\n" + strings.Join(out, "\n")
}

// lookupAll resolves every row of every section. Results are indexed in row
// order regardless of which lookup finishes first.
func (r *EncounterRenderer) lookupAll(ctx context.Context, sections []parse.EncounterSection) []lookup.Result {
	var names []string
	for _, sec := range sections {
		for _, row := range sec.Rows {
			names = append(names, row.Name)
		}
	}

	results := make([]lookup.Result, len(names))
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, name := range names {
		g.Go(func() error {
			results[i] = r.client.Lookup(ctx, name)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// CatchEntry renders one encounter row as a Catch/entry template.
func CatchEntry(row parse.EncounterRow, locType, primary, secondary string) string {
	null := Defaults.Encounter.NullCategory
	if slices.Contains(Defaults.Encounter.ForcedSecondaryNames, strings.ToUpper(row.Name)) &&
		(secondary == "" || secondary == null) {
		secondary = Defaults.Encounter.ForcedSecondary
	}

	types := "|type1=" + primary
	if secondary != "" && secondary != null {
		types += "|type2=" + secondary
	}
	disp := DisplayName(row.Name)
	return fmt.Sprintf("{{Catch/entry|%s|%s|%s|%s-%s|all=%s%%%s}}",
		disp, disp, locType, row.MinLevel, row.MaxLevel, row.Rate, types)
}
