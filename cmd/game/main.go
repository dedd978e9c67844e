package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/tilearena/internal/game"
	"github.com/Garsondee/tilearena/internal/mapstore"
	"github.com/Garsondee/tilearena/internal/screen"
)

func main() {
	var storeKind string
	var mapsAt string
	var verbose bool

	flag.StringVar(&storeKind, "store", mapstore.KindImages, "map store kind (images, json, bolt, postgres); ARENA_STORE overrides")
	flag.StringVar(&mapsAt, "maps", "maps", "map store location; ARENA_MAPS or DATABASE_URL override")
	flag.BoolVar(&verbose, "v", false, "log per-tick movement")
	flag.Parse()

	store, err := mapstore.OpenFromEnv(storeKind, mapsAt)
	if err != nil {
		log.Fatalf("open map store: %v", err)
	}
	defer store.Close()

	world, err := game.LoadWorld(store, game.StartCoord)
	if err != nil {
		log.Fatalf("load maps: %v", err)
	}
	for _, e := range world.Skipped() {
		log.Printf("skipped map record: %v", e)
	}
	log.Printf("loaded %d maps, starting at %v", len(world.Coords()), game.StartCoord)

	sim := game.NewSim(world, game.WithSimLog(game.NewSimLog(verbose)))
	g := screen.New(sim)

	w, h := g.WindowSize()
	ebiten.SetWindowTitle("Tile Arena")
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(game.TickRate)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
