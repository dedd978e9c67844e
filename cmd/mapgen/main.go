// Command mapgen creates and edits arena maps in any map store.
//
//	mapgen new     -x 6 -y 9 [-cols 20 -rows 15]
//	mapgen stone   -x 6 -y 9 -col 3 -row 4
//	mapgen grass   -x 6 -y 9 -col 3 -row 4
//	mapgen monster -x 6 -y 9 -col 3 -row 4
//	mapgen rm      -x 6 -y 9
//	mapgen copy    -to-store bolt -to maps.db
//	mapgen ls
//
// Every subcommand accepts -store and -maps to pick the store it works on.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Garsondee/tilearena/internal/game"
	"github.com/Garsondee/tilearena/internal/mapstore"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("mapgen %s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: mapgen <new|stone|grass|monster|rm|copy|ls> [flags]")
}

type cellFlags struct {
	storeKind string
	mapsAt    string
	x, y      int
	col, row  int
	cols      int
	rows      int
	toKind    string
	to        string
}

func run(cmd string, args []string) error {
	var f cellFlags
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.StringVar(&f.storeKind, "store", mapstore.KindImages, "map store kind")
	fs.StringVar(&f.mapsAt, "maps", "maps", "map store location")
	fs.IntVar(&f.x, "x", game.StartCoord.X, "map x coordinate")
	fs.IntVar(&f.y, "y", game.StartCoord.Y, "map y coordinate")
	fs.IntVar(&f.col, "col", 0, "tile column")
	fs.IntVar(&f.row, "row", 0, "tile row")
	fs.IntVar(&f.cols, "cols", game.ScreenWidth/game.TileSize, "columns for a new map")
	fs.IntVar(&f.rows, "rows", game.ScreenHeight/game.TileSize, "rows for a new map")
	fs.StringVar(&f.toKind, "to-store", mapstore.KindBolt, "copy: destination store kind")
	fs.StringVar(&f.to, "to", "", "copy: destination store location")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := mapstore.Open(f.storeKind, f.mapsAt)
	if err != nil {
		return err
	}
	defer store.Close()

	c := game.Coord{X: f.x, Y: f.y}
	switch cmd {
	case "new":
		g, err := framedGrid(f.cols, f.rows)
		if err != nil {
			return err
		}
		return store.SaveTiles(game.MapKey(c, game.SuffixMap), g)
	case "stone":
		return setTile(store, c, f.col, f.row, game.Stone)
	case "grass":
		return setTile(store, c, f.col, f.row, game.Grass)
	case "monster":
		return toggleMonster(store, c, f.col, f.row)
	case "rm":
		return remove(store, c)
	case "copy":
		return copyStore(store, f.toKind, f.to)
	case "ls":
		return list(store)
	default:
		usage()
		return fmt.Errorf("unknown subcommand %q", cmd)
	}
}

func setTile(store mapstore.Store, c game.Coord, col, row int, t game.Tile) error {
	key := game.MapKey(c, game.SuffixMap)
	rec, ok, err := findRecord(store, key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w (run mapgen new first)", key, mapstore.ErrNotFound)
	}
	g, err := withTile(rec.Tiles, col, row, t)
	if err != nil {
		return err
	}
	return store.SaveTiles(key, g)
}

func toggleMonster(store mapstore.Store, c game.Coord, col, row int) error {
	tiles, ok, err := findRecord(store, game.MapKey(c, game.SuffixMap))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%v: %w", c, mapstore.ErrNotFound)
	}
	key := game.MapKey(c, game.SuffixMonster)
	rec, _, err := findRecord(store, key)
	if err != nil {
		return err
	}
	o, err := toggleMarker(rec.Overlay, tiles.Tiles.Cols, tiles.Tiles.Rows, col, row, game.MarkerMonster)
	if err != nil {
		return err
	}
	return store.SaveOverlay(key, o)
}

// remove deletes the tile and monster layers at c. It fails only when
// neither layer existed.
func remove(store mapstore.Store, c game.Coord) error {
	found := false
	for _, suffix := range []string{game.SuffixMap, game.SuffixMonster} {
		err := store.Delete(game.MapKey(c, suffix))
		switch {
		case err == nil:
			found = true
		case !errors.Is(err, mapstore.ErrNotFound):
			return err
		}
	}
	if !found {
		return fmt.Errorf("%v: %w", c, mapstore.ErrNotFound)
	}
	return nil
}

func copyStore(src mapstore.Store, kind, location string) error {
	if location == "" {
		return errors.New("-to is required")
	}
	dst, err := mapstore.Open(kind, location)
	if err != nil {
		return err
	}
	defer dst.Close()
	n, skipped, err := mapstore.Copy(dst, src)
	for _, e := range skipped {
		log.Printf("skipped: %v", e)
	}
	if err != nil {
		return err
	}
	log.Printf("copied %d records to %s:%s", n, kind, location)
	return nil
}

func list(store mapstore.Store) error {
	recs, err := store.Records()
	if err != nil {
		return err
	}
	for _, r := range recs {
		switch {
		case r.Err != nil:
			fmt.Printf("%-16s error: %v\n", r.Key, r.Err)
		case r.Tiles != nil:
			fmt.Printf("%-16s tiles %dx%d\n", r.Key, r.Tiles.Cols, r.Tiles.Rows)
		case r.Overlay != nil:
			fmt.Printf("%-16s overlay %dx%d monsters=%d items=%d\n", r.Key, r.Overlay.Cols, r.Overlay.Rows,
				len(r.Overlay.Cells(game.MarkerMonster)), len(r.Overlay.Cells(game.MarkerItem)))
		}
	}
	return nil
}
