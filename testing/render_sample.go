package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tatianab/wikigen/internal/config"
	"github.com/tatianab/wikigen/internal/engine"
	"github.com/tatianab/wikigen/internal/logger"
	"github.com/tatianab/wikigen/internal/lookup"
	"github.com/tatianab/wikigen/internal/models"
	"github.com/tatianab/wikigen/internal/render"
)

var sample = models.Fields{
	models.FieldLocationName: "Route 1",
	models.FieldNorth:        "Viridian City",
	models.FieldSouth:        "Pallet Town",
	models.FieldDescription:  "A grassy path linking Pallet Town to Viridian City.",
	models.FieldLandType:     "Grass",
	models.FieldEncounters: `Land
45,Pidgey,2,4
35,Rattata,2,3
20,Skitty,3,5
OldRod
100,Magikarp,5,5`,
	models.FieldTrainers: `Youngster | Joey | Rattata:5 | Pidgey:4:Oran Berry`,
	models.FieldStory: `[route1_rival, Blue, 2]
Pokemon = Eevee, 5
    Gender = M
    Ability = Run Away
    Moves = Tackle, Tail Whip
Pokemon = Pidgey, 4`,
	models.FieldItems:        "Potion | Restores 20 HP\nPoke Ball",
	models.FieldQuest:        "Deliver Oak's parcel.",
	models.FieldAchievements: "First Steps | Leave Pallet Town",
}

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.Logging.Level = "DEBUG"
	if err := logger.Initialize(cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	client := cfg.NewLookupClient(lookup.WithTimeout(10 * time.Second))

	// 1. Look up every encounter row on its own
	fmt.Println("--- Step 1: Type lookups ---")
	rc := engine.ContextFrom(sample)
	for _, name := range []string{"Pidgey", "Rattata", "Skitty", "Magikarp", "Missingno"} {
		res := client.Lookup(ctx, name)
		primary, secondary := res.Categories()
		fmt.Printf("%-10s %-8s %-8s err=%v\n", name, primary, secondary, res.Err)
	}
	fmt.Println()

	// 2. Render each section
	fmt.Println("--- Step 2: Sections ---")
	sections := []struct {
		name string
		text string
	}{
		{"locality", render.Locality(rc)},
		{"encounters", render.NewEncounterRenderer(client).Render(ctx, rc)},
		{"trainers", render.Trainers(rc)},
		{"story", render.Story(rc)},
		{"items", render.Items(rc)},
	}
	for _, s := range sections {
		fmt.Printf("[%s]%s\n\n", s.name, s.text)
	}

	// 3. Full page through the pipeline
	fmt.Println("--- Step 3: Full page ---")
	var page string
	sink := engine.SinkFunc(func(text string) error {
		page = text
		return nil
	})
	p := engine.NewPipeline(engine.New(client, engine.WithConcurrency(cfg.Lookup.Concurrency)), models.NewMemoryStore(sample), sink)
	pass, err := p.Run(ctx)
	if err != nil {
		log.Fatalf("Render failed: %v", err)
	}
	fmt.Printf("pass %d committed=%v\n%s\n", pass.ID, pass.Committed, page)
}
