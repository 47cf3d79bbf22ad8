package render

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/wikigen/internal/lookup"
	"github.com/tatianab/wikigen/internal/parse"
)

// fakeTypes answers lookups from a table; unknown names fail.
func fakeTypes(table map[string]lookup.Types) lookup.Client {
	return lookup.Func(func(_ context.Context, name string) lookup.Result {
		t, ok := table[name]
		if !ok {
			return lookup.Result{Err: fmt.Errorf("no entry for %q: %w", name, lookup.ErrNotFound)}
		}
		return lookup.Result{Types: t}
	})
}

func TestEncountersExample(t *testing.T) {
	r := NewEncounterRenderer(fakeTypes(map[string]lookup.Types{
		"Pidgey": {Primary: "Normal", Secondary: "Flying"},
	}))
	out := r.Render(context.Background(), Context{
		LocationName: "Route 1",
		Encounters:   "Land\n45,Pidgey,2,4",
		LandType:     "Grass",
	})

	want := "\n==Pokémon Encounters==\nThe following Pokémon can be found on Route 1:\n===Land===\n" +
		"{{Encounters/Header}}\n" +
		"{{Catch/div}}\n" +
		"{{Catch/entry|Pidgey|Pidgey|Grass|2-4|all=45%|type1=Normal|type2=Flying}}\n" +
		"{{Catch/footer|Route 1}}"
	assert.Equal(t, want, out)
}

func TestEncountersEmpty(t *testing.T) {
	r := NewEncounterRenderer(lookup.Offline)
	out := r.Render(context.Background(), Context{LocationName: "Route 1"})
	assert.Equal(t, "\n==Pokémon Encounters==\nNo Pokémon can be found on Route 1.", out)

	out = r.Render(context.Background(), Context{})
	assert.Equal(t, "\n==Pokémon Encounters==\nNo Pokémon can be found on null.", out)
}

func TestEncountersSectionsAndRods(t *testing.T) {
	r := NewEncounterRenderer(fakeTypes(map[string]lookup.Types{
		"Magikarp": {Primary: "Water"},
		"Zubat":    {Primary: "Poison", Secondary: "Flying"},
	}))
	text := `Cave
10,ZUBAT,5,7
OldRod
70,Magikarp,5,5
GoodRod
60,Magikarp,10,15
Surf
5,Unknown,20,25`
	out := r.Render(context.Background(), Context{LocationName: "Mt. Moon", Encounters: text})
	lines := strings.Split(out, "\n")

	// ZUBAT is looked up by its raw name, which the fake does not know.
	assert.Contains(t, out, "{{Catch/entry|Zubat|Zubat|Grass|5-7|all=10%|type1=Null}}")
	assert.Contains(t, out, "{{Catch/entry|Magikarp|Magikarp|Fish Old|5-5|all=70%|type1=Water}}")
	assert.Contains(t, out, "{{Catch/entry|Magikarp|Magikarp|Fish Good|10-15|all=60%|type1=Water}}")
	assert.Contains(t, out, "{{Catch/entry|Unknown|Unknown|Grass|20-25|all=5%|type1=Null}}")

	dividers := 0
	for i, l := range lines {
		if l == "{{Catch/div|Fishing|fishing}}" {
			dividers++
			assert.Contains(t, lines[i+1], "Fish Old", "divider precedes the first rod section")
		}
	}
	assert.Equal(t, 1, dividers)
	assert.Equal(t, "{{Catch/footer|Mt. Moon}}", lines[len(lines)-1])
}

func TestEncountersOneEntryPerRowInOrder(t *testing.T) {
	// Later rows answer first; output must still follow input order.
	var mu sync.Mutex
	var calls []string
	slow := lookup.Func(func(_ context.Context, name string) lookup.Result {
		mu.Lock()
		calls = append(calls, name)
		mu.Unlock()
		if name == "A" {
			time.Sleep(20 * time.Millisecond)
		}
		return lookup.Result{Types: lookup.Types{Primary: "Normal"}}
	})

	text := "Land\n1,A,1,1\n2,B,1,1\nbad line\n3,C,1,1\nSurf\n4,D,1,1"
	for _, n := range []int{1, 4} {
		calls = nil
		out := NewEncounterRenderer(slow, WithConcurrency(n)).Render(context.Background(), Context{Encounters: text})

		var names []string
		for _, l := range strings.Split(out, "\n") {
			if strings.HasPrefix(l, "{{Catch/entry|") {
				names = append(names, strings.Split(l, "|")[1])
			}
		}
		assert.Equal(t, []string{"A", "B", "C", "D"}, names, "concurrency %d", n)
		assert.Len(t, calls, 4, "one lookup per row")
	}
}

func TestCatchEntry(t *testing.T) {
	row := parse.EncounterRow{Rate: "20", Name: "sKiTTy", MinLevel: "3", MaxLevel: "5"}

	tests := []struct {
		name               string
		primary, secondary string
		want               string
	}{
		{"forced fairy", "Normal", "", "{{Catch/entry|Skitty|Skitty|Grass|3-5|all=20%|type1=Normal|type2=Fairy}}"},
		{"forced over null", "Null", "Null", "{{Catch/entry|Skitty|Skitty|Grass|3-5|all=20%|type1=Null|type2=Fairy}}"},
		{"real secondary kept", "Normal", "Psychic", "{{Catch/entry|Skitty|Skitty|Grass|3-5|all=20%|type1=Normal|type2=Psychic}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CatchEntry(row, "Grass", tt.primary, tt.secondary))
		})
	}

	delcatty := parse.EncounterRow{Rate: "1", Name: "DELCATTY", MinLevel: "30", MaxLevel: "30"}
	assert.Equal(t, "{{Catch/entry|Delcatty|Delcatty|Cave|30-30|all=1%|type1=Normal|type2=Fairy}}",
		CatchEntry(delcatty, "Cave", "Normal", ""))

	other := parse.EncounterRow{Rate: "1", Name: "eevee", MinLevel: "1", MaxLevel: "2"}
	assert.Equal(t, "{{Catch/entry|Eevee|Eevee|Grass|1-2|all=1%|type1=Normal}}",
		CatchEntry(other, "Grass", "Normal", "Null"))
}

func TestLookupFailureRendersNullWithoutSecondary(t *testing.T) {
	out := NewEncounterRenderer(lookup.Offline).Render(context.Background(), Context{
		Encounters: "Land\n45,Pidgey,2,4",
		LandType:   "Cave",
	})
	assert.Contains(t, out, "|type1=Null}}")
	assert.NotContains(t, out, "type2=")
	assert.Contains(t, out, "|Cave|")
}

func TestTrainers(t *testing.T) {
	out := Trainers(Context{
		LocationName: "Route 2",
		Trainers:     "Bug  Catcher | Rick | Weedle:6 | Caterpie:6:Oran Berry\nbroken | line\n",
	})
	want := "\n\n==Trainer Battles==\nThe following trainers are found on Route 2:\n{{Trainerheader|Road}}\n" +
		"{{Trainerentry|Bug_Catcher.png|Bug  Catcher|Rick|0|2|Weedle|Weedle|B|6|None|Caterpie|Caterpie|B|6|Oran Berry}}" +
		"\n{{Trainerfooter|Road}}"
	assert.Equal(t, want, out)
}

func TestTrainersEmptyAndInvalid(t *testing.T) {
	assert.Equal(t, "\n\n==Trainer Battles==\nThere are no trainer battles on Route 2.",
		Trainers(Context{LocationName: "Route 2", Trainers: "  \n "}))
	assert.Empty(t, Trainers(Context{Trainers: "only | two"}))
}

func TestTrainerRosterCount(t *testing.T) {
	for k := 1; k <= 6; k++ {
		mons := make([]string, k)
		for i := range mons {
			mons[i] = fmt.Sprintf("Mon%d:%d", i, i+1)
		}
		entry := TrainerEntry(parse.Trainers("Ace Trainer|Kim|" + strings.Join(mons, "|"))[0])
		fields := strings.Split(strings.TrimSuffix(strings.TrimPrefix(entry, "{{"), "}}"), "|")
		assert.Equal(t, fmt.Sprint(k), fields[5], "count field for %d mons", k)
	}
}

func TestStory(t *testing.T) {
	text := `[Battle, Blue, 2]
Pokemon = Pidgeotto, 18
    Gender = M
    Ability = "Keen Eye"
    Moves = Gust, Quick Attack, Sand Attack, Tackle, Whirlwind
    Item = Oran Berry
    Name = Birdy
Pokemon = Abra
    IV = 31,31,31,31,31,31
    Shiny = yes
[Other]`
	out := Story(Context{Story: text})
	want := strings.Join([]string{
		"\n\n==Story Battles==",
		"===Pokemon Trainer Blue===\n[[Blue]] is battled in a single battle format.",
		"{{Party/Single|theme=FIX|sprite=Blue-002.png|size=100px|class=Pokemon Trainer|name=Blue|location=FIX|pokemon=2}}",
		"{{Pokémon|type1=FIX|sprite=Pidgeotto.png|spritegender=M|pokemon=Pidgeotto|ability=Keen Eye|nature=FIX|gender=M|level=18|StatIVs=" +
			Defaults.Story.IVs +
			"|item=Oran Berry|nickname=Birdy" +
			"|move1=Gust|move1type=FIX|move1cat=FIX" +
			"|move2=Quick Attack|move2type=FIX|move2cat=FIX" +
			"|move3=Sand Attack|move3type=FIX|move3cat=FIX" +
			"|move4=Tackle|move4type=FIX|move4cat=FIX}}",
		"{{Pokémon|type1=FIX|sprite=Abra.png|spritegender=FIX|pokemon=Abra|ability=FIX|nature=FIX|gender=FIX|level=FIX|StatIVs=31,31,31,31,31,31|shiny=yes}}",
		"{{Party/Footer}}",
		"===Pokemon Trainer FIX===\n[[FIX]] is battled in a single battle format.",
		"{{Party/Single|theme=FIX|sprite=FIX-002.png|size=100px|class=Pokemon Trainer|name=FIX|location=FIX|pokemon=FIX}}",
		"{{Party/Footer}}",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestStoryEntryPerPokemonLine(t *testing.T) {
	text := "[a, A, 3]\nPokemon = X, 1\nPokemon = Y, 2\nPokemon = Z, 3\n[b, B, 1]\nPokemon = W, 4"
	out := Story(Context{Story: text})
	assert.Equal(t, 2, strings.Count(out, "{{Party/Single|"))
	assert.Equal(t, 4, strings.Count(out, "{{Pokémon|"))
	assert.Equal(t, 2, strings.Count(out, "{{Party/Footer}}"))
}

func TestStoryEmpty(t *testing.T) {
	assert.Empty(t, Story(Context{}))
	assert.Empty(t, Story(Context{Story: "  \n"}))
	assert.Empty(t, Story(Context{Story: "Pokemon = Pidgey, 3"}))
}

func TestStoryIVPlaceholder(t *testing.T) {
	require.Equal(t, 6, len(strings.Split(Defaults.Story.IVs, ",")))
	assert.Equal(t, 5, strings.Count(Defaults.Story.IVs, "\u200b"))
}

func TestLocality(t *testing.T) {
	tests := []struct {
		name string
		rc   Context
		want string
	}{
		{
			name: "no name",
			rc:   Context{North: "Somewhere"},
			want: "",
		},
		{
			name: "one direction",
			rc:   Context{LocationName: "Route 1", North: "Viridian City"},
			want: "{{Town infobox|name=Route 1|north=Viridian City}}\n{{Location|image=Route_1_Map.png|location=Between [[Viridian City]]}}",
		},
		{
			name: "two directions",
			rc:   Context{LocationName: "Route 1", North: "Viridian City", South: "Pallet Town"},
			want: "{{Town infobox|name=Route 1|north=Viridian City|south=Pallet Town}}\n{{Location|image=Route_1_Map.png|location=Between [[Viridian City]] and [[Pallet Town]]}}",
		},
		{
			name: "three directions keep fixed order",
			rc:   Context{LocationName: "Cross  Road", West: "C", East: "B", North: "A"},
			want: "{{Town infobox|name=Cross  Road|north=A|east=B|west=C}}\n{{Location|image=Cross_Road_Map.png|location=Between [[A]], [[B]] and [[C]]}}",
		},
		{
			name: "no directions",
			rc:   Context{LocationName: "Island"},
			want: "{{Town infobox|name=Island}}\n{{Location|image=Island_Map.png|location=Between  and }}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Locality(tt.rc))
		})
	}
}

func TestJoinPlaces(t *testing.T) {
	assert.Equal(t, "X", JoinPlaces([]string{"X"}))
	assert.Equal(t, "X and Y", JoinPlaces([]string{"X", "Y"}))
	assert.Equal(t, "X, Y and Z", JoinPlaces([]string{"X", "Y", "Z"}))
	assert.Equal(t, "W, X, Y and Z", JoinPlaces([]string{"W", "X", "Y", "Z"}))
	assert.Equal(t, "Between X, Y and Z", Between([]string{"X", "Y", "Z"}))
	assert.Equal(t, "Between  and ", Between(nil))
}

func TestItems(t *testing.T) {
	out := Items(Context{LocationName: "Route 1", Items: "Potion | Heals 20 HP\nAntidote"})
	want := "\n\n==Items==\nRoute 1 contains the following items:\n{{Itlisth}}\n" +
		"{{Itemlist|Potion|Heals 20 HP}}\n{{Itemlist|Antidote|No description provided.}}\n{{Itlistfoot}}"
	assert.Equal(t, want, out)

	assert.Equal(t, "\n\n==Items==\nThere are no items available at Route 1.", Items(Context{LocationName: "Route 1"}))
}

func TestAchievements(t *testing.T) {
	out := Achievements(Context{Achievements: "Bird Keeper | Catch every Pidgey | twice\nExplorer"})
	want := "\n\n==Achievements==\n" +
		"===Bird Keeper===\n[[File:Bird_Keeper.png|thumb]]\nCatch every Pidgey | twice\n\n" +
		"===Explorer===\n[[File:Explorer.png|thumb]]\nNo description provided."
	assert.Equal(t, want, out)

	assert.Equal(t, "\n\n==Achievements==\nThere are no achievements related to this area.", Achievements(Context{}))
}

func TestSingleFieldSections(t *testing.T) {
	assert.Equal(t, "\nA quiet road.", Description(Context{Description: "  A quiet road. "}))
	assert.Equal(t, "\n", Description(Context{}))

	assert.Equal(t, "\n\n==Gimmighoul==\n{{Gimmighoul|Gimmighoul cannot be found on this area.}}", Gimmighoul(Context{}))
	assert.Equal(t, "\n\n==Gimmighoul==\n{{Gimmighoul|3 coins near the bridge}}", Gimmighoul(Context{Gimmighoul: "3 coins near the bridge"}))

	assert.Equal(t, "\n\n==Quest==\nThere are no quests available on this area.", Quest(Context{}))
	assert.Equal(t, "\n\n==Quest==\nFind the lost hat.", Quest(Context{Quest: "Find the lost hat.\n"}))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Pidgey", DisplayName("PIDGEY"))
	assert.Equal(t, "Mr. mime", DisplayName("mr. Mime"))
	assert.Equal(t, "", DisplayName(""))
}
