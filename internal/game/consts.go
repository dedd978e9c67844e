package game

import "time"

// Pixel and timing constants. Speeds are pixels per tick.
const (
	TileSize     = 32
	ScreenWidth  = 640
	ScreenHeight = 480

	PlayerSpeed  = TileSize / 10
	BulletSpeed  = 5
	MonsterSpeed = TileSize / 20

	PlayerSize   = 24
	MonsterSize  = 24
	BulletWidth  = 10
	BulletHeight = 4

	// EdgeMargin is how close a player box may get to a map edge before the
	// world moves to the neighbouring map.
	EdgeMargin = 30
	// EdgeReentry is the inset from the opposite edge where players land.
	EdgeReentry = 32

	TickRate = 60
)

// GameOverDelay is the real-time pause between the last death and the restart.
const GameOverDelay = 2 * time.Second

// StartCoord is the map every round begins on.
var StartCoord = Coord{X: 6, Y: 9}
