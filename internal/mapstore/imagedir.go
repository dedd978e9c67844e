package mapstore

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Garsondee/tilearena/internal/game"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Authoring colours. One pixel is one tile or one overlay cell.
var (
	ColorStone   = color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	ColorGrass   = color.NRGBA{R: 0, G: 255, B: 0, A: 255}
	ColorMonster = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	ColorItem    = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
	ColorNeutral = color.NRGBA{R: 255, G: 255, B: 0, A: 255}
	colorEmpty   = color.NRGBA{A: 255}
)

// imageExts are the extensions ImageDir reads. It always writes PNG.
var imageExts = map[string]bool{".png": true, ".bmp": true, ".tiff": true, ".tif": true}

// ImageDir stores each map layer as a small image named "X-Y-kind.png".
type ImageDir struct {
	dir   string
	mutex sync.RWMutex
}

// NewImageDir uses dir, creating it if needed.
func NewImageDir(dir string) (*ImageDir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create map dir: %w", err)
	}
	return &ImageDir{dir: dir}, nil
}

// Records decodes every image in the directory, sorted by file name.
func (d *ImageDir) Records() ([]game.MapRecord, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	recs := make([]game.MapRecord, 0, len(names))
	for _, name := range names {
		key := strings.TrimSuffix(name, filepath.Ext(name))
		recs = append(recs, d.decode(key, filepath.Join(d.dir, name)))
	}
	return recs, nil
}

func (d *ImageDir) decode(key, path string) game.MapRecord {
	kind, err := kindOf(key)
	if err != nil {
		return game.MapRecord{Key: key, Err: err}
	}
	img, err := readImage(path)
	if err != nil {
		return game.MapRecord{Key: key, Err: decodeFailed(key, err)}
	}
	if kind == game.RecordTiles {
		g, err := TilesFromImage(img)
		if err != nil {
			return game.MapRecord{Key: key, Err: decodeFailed(key, err)}
		}
		return game.MapRecord{Key: key, Tiles: g}
	}
	o, err := OverlayFromImage(img)
	if err != nil {
		return game.MapRecord{Key: key, Err: decodeFailed(key, err)}
	}
	return game.MapRecord{Key: key, Overlay: o}
}

func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// SaveTiles writes g as key.png.
func (d *ImageDir) SaveTiles(key string, g *game.TileGrid) error {
	return d.write(key, TilesImage(g))
}

// SaveOverlay writes o as key.png.
func (d *ImageDir) SaveOverlay(key string, o *game.OverlayGrid) error {
	return d.write(key, OverlayImage(o))
}

func (d *ImageDir) write(key string, img image.Image) error {
	if _, err := kindOf(key); err != nil {
		return err
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()

	tmp, err := os.CreateTemp(d.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(d.dir, key+".png"))
}

// Delete removes every image stored under key, whatever its extension.
func (d *ImageDir) Delete(key string) error {
	if _, err := kindOf(key); err != nil {
		return err
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()

	removed := false
	for ext := range imageExts {
		err := os.Remove(filepath.Join(d.dir, key+ext))
		switch {
		case err == nil:
			removed = true
		case !errors.Is(err, fs.ErrNotExist):
			return err
		}
	}
	if !removed {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return nil
}

// Close is a no-op for image directories.
func (d *ImageDir) Close() error {
	return nil
}

func rgbAt(img image.Image, x, y int) (uint8, uint8, uint8) {
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return c.R, c.G, c.B
}

func sameRGB(r, g, b uint8, c color.NRGBA) bool {
	return r == c.R && g == c.G && b == c.B
}

// TilesFromImage classifies pixels: grey is Stone, anything else Grass.
func TilesFromImage(img image.Image) (*game.TileGrid, error) {
	bounds := img.Bounds()
	rows := make([][]game.Tile, bounds.Dy())
	for y := range rows {
		rows[y] = make([]game.Tile, bounds.Dx())
		for x := range rows[y] {
			r, g, b := rgbAt(img, bounds.Min.X+x, bounds.Min.Y+y)
			if sameRGB(r, g, b, ColorStone) {
				rows[y][x] = game.Stone
			}
		}
	}
	return game.NewTileGrid(rows)
}

// OverlayFromImage classifies pixels: red is a monster, blue an item, yellow
// a neutral mark, anything else empty.
func OverlayFromImage(img image.Image) (*game.OverlayGrid, error) {
	bounds := img.Bounds()
	rows := make([][]game.Marker, bounds.Dy())
	for y := range rows {
		rows[y] = make([]game.Marker, bounds.Dx())
		for x := range rows[y] {
			r, g, b := rgbAt(img, bounds.Min.X+x, bounds.Min.Y+y)
			switch {
			case sameRGB(r, g, b, ColorMonster):
				rows[y][x] = game.MarkerMonster
			case sameRGB(r, g, b, ColorItem):
				rows[y][x] = game.MarkerItem
			case sameRGB(r, g, b, ColorNeutral):
				rows[y][x] = game.MarkerNeutral
			}
		}
	}
	return game.NewOverlayGrid(rows)
}

// TilesImage paints g one pixel per tile.
func TilesImage(g *game.TileGrid) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Cols, g.Rows))
	for r, row := range g.Rows2D() {
		for c, t := range row {
			if t == game.Stone {
				img.SetNRGBA(c, r, ColorStone)
			} else {
				img.SetNRGBA(c, r, ColorGrass)
			}
		}
	}
	return img
}

// OverlayImage paints o one pixel per cell. Empty cells are black.
func OverlayImage(o *game.OverlayGrid) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, o.Cols, o.Rows))
	for r, row := range o.Rows2D() {
		for c, m := range row {
			px := colorEmpty
			switch m {
			case game.MarkerMonster:
				px = ColorMonster
			case game.MarkerItem:
				px = ColorItem
			case game.MarkerNeutral:
				px = ColorNeutral
			}
			img.SetNRGBA(c, r, px)
		}
	}
	return img
}
