package game

// Blocked reports whether box touches a blocking tile of g. Each of the four
// corners is sampled; a corner outside the grid counts as blocked.
func Blocked(box Rect, g *TileGrid) bool {
	for _, c := range box.Corners() {
		if PointBlocked(c[0], c[1], g) {
			return true
		}
	}
	return false
}

// PointBlocked reports whether the tile under pixel (x,y) blocks.
func PointBlocked(x, y int, g *TileGrid) bool {
	return g.BlockedAt(pixelToTile(x), pixelToTile(y))
}

// pixelToTile floors p/TileSize so negative pixels land on negative tiles
// rather than on tile 0.
func pixelToTile(p int) int {
	if p < 0 {
		return (p - TileSize + 1) / TileSize
	}
	return p / TileSize
}
