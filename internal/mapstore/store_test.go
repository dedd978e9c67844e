package mapstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Garsondee/tilearena/internal/game"
)

func fixture(t *testing.T) (*game.TileGrid, *game.OverlayGrid) {
	t.Helper()
	return game.MustASCIIMap(
		"#####",
		"#M.I#",
		"#.Y.#",
		"#####",
	)
}

// checkStore saves a tile and an overlay layer and loads them back into a
// world, which is how the game consumes every backend.
func checkStore(t *testing.T, s Store) {
	t.Helper()
	g, o := fixture(t)
	if err := s.SaveTiles("6-9-map", g); err != nil {
		t.Fatalf("SaveTiles: %v", err)
	}
	if err := s.SaveOverlay("6-9-monster", o); err != nil {
		t.Fatalf("SaveOverlay: %v", err)
	}
	w, err := game.LoadWorld(s, game.Coord{X: 6, Y: 9})
	if err != nil {
		t.Fatalf("LoadWorld: %v", err)
	}
	if len(w.Skipped()) != 0 {
		t.Fatalf("unexpected skipped records: %v", w.Skipped())
	}
	got, err := w.CurrentTileGrid()
	if err != nil {
		t.Fatalf("CurrentTileGrid: %v", err)
	}
	if got.Cols != 5 || got.Rows != 4 {
		t.Fatalf("grid size = %dx%d, want 5x4", got.Cols, got.Rows)
	}
	if tile, _ := got.At(0, 0); tile != game.Stone {
		t.Fatalf("tile (0,0) = %v, want Stone", tile)
	}
	if tile, _ := got.At(2, 1); tile != game.Grass {
		t.Fatalf("tile (2,1) = %v, want Grass", tile)
	}
	if m := w.CurrentMarkers(game.MarkerMonster); len(m) != 1 || m[0] != (game.Cell{Col: 1, Row: 1}) {
		t.Fatalf("monster markers = %v", m)
	}
	if m := w.CurrentMarkers(game.MarkerItem); len(m) != 1 || m[0] != (game.Cell{Col: 3, Row: 1}) {
		t.Fatalf("item markers = %v", m)
	}
	if m := w.CurrentMarkers(game.MarkerNeutral); len(m) != 1 || m[0] != (game.Cell{Col: 2, Row: 2}) {
		t.Fatalf("neutral markers = %v", m)
	}
}

func TestImageDir_SaveAndLoad(t *testing.T) {
	s, err := NewImageDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewImageDir: %v", err)
	}
	checkStore(t, s)
}

func TestJSONDir_SaveAndLoad(t *testing.T) {
	s, err := NewJSONDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewJSONDir: %v", err)
	}
	checkStore(t, s)
}

func TestBolt_SaveAndLoad(t *testing.T) {
	s, err := OpenBolt(filepath.Join(t.TempDir(), "maps.db"))
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}
	defer s.Close()
	checkStore(t, s)
}

// checkDelete removes one layer of a map and leaves the other in place.
func checkDelete(t *testing.T, s Store) {
	t.Helper()
	g, o := fixture(t)
	if err := s.SaveTiles("1-1-map", g); err != nil {
		t.Fatalf("SaveTiles: %v", err)
	}
	if err := s.SaveOverlay("1-1-monster", o); err != nil {
		t.Fatalf("SaveOverlay: %v", err)
	}
	if err := s.Delete("1-1-monster"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete("1-1-monster"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete("1-1"); err == nil {
		t.Fatal("expected error deleting a key without a kind")
	}
	recs, err := s.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	var keys []string
	for _, r := range recs {
		keys = append(keys, r.Key)
	}
	if !contains(keys, "1-1-map") || contains(keys, "1-1-monster") {
		t.Fatalf("keys after delete = %v", keys)
	}
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func TestImageDir_Delete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewImageDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	checkDelete(t, s)

	// A hand-authored BMP goes the same way as a saved PNG.
	if err := os.WriteFile(filepath.Join(dir, "2-2-map.bmp"), []byte("BM"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("2-2-map"); err != nil {
		t.Fatalf("Delete bmp: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "2-2-map.bmp")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("bmp still present: %v", err)
	}
}

func TestJSONDir_Delete(t *testing.T) {
	s, err := NewJSONDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	checkDelete(t, s)
}

func TestBolt_Delete(t *testing.T) {
	s, err := OpenBolt(filepath.Join(t.TempDir(), "maps.db"))
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}
	defer s.Close()
	checkDelete(t, s)
}

func TestPostgres_SaveAndLoad(t *testing.T) {
	url := os.Getenv("ARENA_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("ARENA_TEST_DATABASE_URL not set")
	}
	s, err := NewPostgres(url)
	if err != nil {
		t.Fatalf("NewPostgres: %v", err)
	}
	defer s.Close()
	checkStore(t, s)
	checkDelete(t, s)
}

func TestImageDir_Classification(t *testing.T) {
	g, o := fixture(t)
	img := TilesImage(g)
	if c := img.NRGBAAt(0, 0); c != ColorStone {
		t.Fatalf("stone pixel = %v", c)
	}
	if c := img.NRGBAAt(1, 1); c != ColorGrass {
		t.Fatalf("grass pixel = %v", c)
	}
	// Unknown colours read as Grass.
	img.SetNRGBA(2, 2, ColorMonster)
	back, err := TilesFromImage(img)
	if err != nil {
		t.Fatalf("TilesFromImage: %v", err)
	}
	if tile, _ := back.At(2, 2); tile != game.Grass {
		t.Fatalf("red tile pixel = %v, want Grass", tile)
	}

	oimg := OverlayImage(o)
	oimg.SetNRGBA(0, 0, ColorGrass)
	marks, err := OverlayFromImage(oimg)
	if err != nil {
		t.Fatalf("OverlayFromImage: %v", err)
	}
	if m := marks.At(0, 0); m != game.MarkerNone {
		t.Fatalf("green overlay pixel = %v, want none", m)
	}
	if m := marks.At(1, 1); m != game.MarkerMonster {
		t.Fatalf("red overlay pixel = %v, want monster", m)
	}
}

func TestImageDir_BadFilesAreSkippable(t *testing.T) {
	dir := t.TempDir()
	s, err := NewImageDir(dir)
	if err != nil {
		t.Fatalf("NewImageDir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "2-2-map.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}
	g, _ := fixture(t)
	if err := s.write("a-b-map", TilesImage(g)); err == nil {
		t.Fatal("expected bad key to be rejected on save")
	}
	recs, err := s.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	var de *game.DataError
	if !errors.As(recs[0].Err, &de) || de.Key != "2-2-map" {
		t.Fatalf("record error = %v, want DataError for 2-2-map", recs[0].Err)
	}
}

func TestJSONDir_BadDocument(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONDir(dir)
	if err != nil {
		t.Fatalf("NewJSONDir: %v", err)
	}
	bad := `{"tiles": [["g","x"]]}`
	if err := os.WriteFile(filepath.Join(dir, "0-0-map.json"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "0-1-map.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := game.LoadWorld(s, game.Coord{})
	if err != nil {
		t.Fatalf("LoadWorld: %v", err)
	}
	if len(w.Skipped()) != 2 {
		t.Fatalf("expected 2 skipped, got %v", w.Skipped())
	}
	if len(w.Coords()) != 0 {
		t.Fatalf("expected no maps, got %v", w.Coords())
	}
}

func TestMulti_UnionAndCopy(t *testing.T) {
	g, o := fixture(t)
	a, err := NewJSONDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewImageDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := a.SaveTiles("0-0-map", g); err != nil {
		t.Fatal(err)
	}
	if err := b.SaveTiles("1-0-map", g); err != nil {
		t.Fatal(err)
	}
	if err := b.SaveOverlay("1-0-monster", o); err != nil {
		t.Fatal(err)
	}

	dst, err := OpenBolt(filepath.Join(t.TempDir(), "copy.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer dst.Close()
	n, skipped, err := Copy(dst, Multi{a, b})
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if n != 3 || len(skipped) != 0 {
		t.Fatalf("Copy wrote %d (skipped %v), want 3", n, skipped)
	}
	w, err := game.LoadWorld(dst, game.Coord{})
	if err != nil {
		t.Fatal(err)
	}
	if got := w.Coords(); len(got) != 2 {
		t.Fatalf("coords = %v, want two maps", got)
	}
}

func TestOpen_UnknownKind(t *testing.T) {
	if _, err := Open("floppy", t.TempDir()); err == nil {
		t.Fatal("expected error for unknown store kind")
	}
}

func TestOpenFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ARENA_STORE", KindJSON)
	t.Setenv("ARENA_MAPS", dir)
	s, err := OpenFromEnv(KindImages, "unused")
	if err != nil {
		t.Fatalf("OpenFromEnv: %v", err)
	}
	if _, ok := s.(*JSONDir); !ok {
		t.Fatalf("store = %T, want *JSONDir", s)
	}
}
