package world

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrRaggedMap is returned for a map whose rows differ in length.
	ErrRaggedMap = errors.New("world: map rows have unequal length")
	// ErrNoSnapshot is returned when a nil snapshot is applied.
	ErrNoSnapshot = errors.New("world: no snapshot")
)

// Point is a tile-grid coordinate.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ObjectKind tags everything the client knows how to draw.
type ObjectKind string

const (
	KindWall      ObjectKind = "WALL"
	KindWalkable  ObjectKind = "WALKABLE"
	KindBreakable ObjectKind = "BREAKABLE"
	KindPlayer    ObjectKind = "PLAYER"
	KindBomb      ObjectKind = "BOMB"
	KindPowerUp   ObjectKind = "POWER_UP"
	KindBombUp    ObjectKind = "BOMB_UP"
	KindSpeedUp   ObjectKind = "SPEED_UP"
)

// Object is the drawable shape shared by tiles, bombs and collectibles.
// Width and Height are the native pixel size; zero means "fill the tile".
type Object struct {
	Kind        ObjectKind `json:"type"`
	Coordinates Point      `json:"coordinates"`
	Width       int        `json:"width,omitempty"`
	Height      int        `json:"height,omitempty"`
}

// Tile is one grid cell of the arena.
type Tile struct {
	Object
	Bombs  []Object `json:"bombs,omitempty"`
	OnFire bool     `json:"isOnFire"`
}

// Collectible is a pickup lying on the map. Only the power-up kinds are
// valid.
type Collectible = Object

// GameMap is the arena grid. A nil entry is a void cell.
type GameMap struct {
	Tiles      [][]*Tile `json:"tiles"`
	TileWidth  int       `json:"tileWidth"`
	TileHeight int       `json:"tileHeight"`
}

// Rows returns the number of grid rows.
func (m *GameMap) Rows() int {
	if m == nil {
		return 0
	}
	return len(m.Tiles)
}

// Cols returns the row length, or 0 for an empty map.
func (m *GameMap) Cols() int {
	if m == nil || len(m.Tiles) == 0 {
		return 0
	}
	return len(m.Tiles[0])
}

// At returns the tile at row, col or nil when the cell is out of bounds or
// void.
func (m *GameMap) At(row, col int) *Tile {
	if m == nil || row < 0 || row >= len(m.Tiles) {
		return nil
	}
	r := m.Tiles[row]
	if col < 0 || col >= len(r) {
		return nil
	}
	return r[col]
}

// Validate checks that every row has the same length and the tile size is
// usable.
func (m *GameMap) Validate() error {
	if m == nil {
		return nil
	}
	if len(m.Tiles) > 0 && (m.TileWidth <= 0 || m.TileHeight <= 0) {
		return fmt.Errorf("world: bad tile size %dx%d", m.TileWidth, m.TileHeight)
	}
	for i, r := range m.Tiles {
		if len(r) != len(m.Tiles[0]) {
			return fmt.Errorf("%w: row %d has %d tiles, want %d", ErrRaggedMap, i, len(r), len(m.Tiles[0]))
		}
	}
	return nil
}

// Footprint returns the pixel rectangle covered by the tile at p.
func (m *GameMap) Footprint(p Point) image.Rectangle {
	x := p.Col * m.TileWidth
	y := p.Row * m.TileHeight
	return image.Rect(x, y, x+m.TileWidth, y+m.TileHeight)
}

// PixelSize returns the size of the whole map in pixels.
func (m *GameMap) PixelSize() image.Point {
	if m == nil {
		return image.Point{}
	}
	return image.Pt(m.Cols()*m.TileWidth, m.Rows()*m.TileHeight)
}

// sameShape reports whether o has the same grid and tile dimensions as m.
func (m *GameMap) sameShape(o *GameMap) bool {
	if m == nil || o == nil {
		return false
	}
	if m.TileWidth != o.TileWidth || m.TileHeight != o.TileHeight || len(m.Tiles) != len(o.Tiles) {
		return false
	}
	for i := range m.Tiles {
		if len(m.Tiles[i]) != len(o.Tiles[i]) {
			return false
		}
		for j := range m.Tiles[i] {
			a, b := m.Tiles[i][j], o.Tiles[i][j]
			if (a == nil) != (b == nil) {
				return false
			}
			if a != nil && a.Kind != b.Kind {
				return false
			}
		}
	}
	return true
}

// ActionVector holds the five independent intents of a player.
type ActionVector struct {
	MoveUp    bool `json:"move_up"`
	MoveDown  bool `json:"move_down"`
	MoveLeft  bool `json:"move_left"`
	MoveRight bool `json:"move_right"`
	PlantBomb bool `json:"plant_bomb"`
}

// Moving reports whether any movement flag is set.
func (a ActionVector) Moving() bool {
	return a.MoveUp || a.MoveDown || a.MoveLeft || a.MoveRight
}

// SameMovement compares only the four movement flags.
func (a ActionVector) SameMovement(o ActionVector) bool {
	return a.MoveUp == o.MoveUp && a.MoveDown == o.MoveDown &&
		a.MoveLeft == o.MoveLeft && a.MoveRight == o.MoveRight
}

func (a ActionVector) String() string {
	b := []byte("-----")
	if a.MoveUp {
		b[0] = 'U'
	}
	if a.MoveDown {
		b[1] = 'D'
	}
	if a.MoveLeft {
		b[2] = 'L'
	}
	if a.MoveRight {
		b[3] = 'R'
	}
	if a.PlantBomb {
		b[4] = 'B'
	}
	return string(b)
}

// RemotePlayer is the server's view of a player.
type RemotePlayer struct {
	ID          string       `json:"playerId"`
	IsAlive     bool         `json:"isAlive"`
	Coordinates Point        `json:"coordinates"`
	Actions     ActionVector `json:"actions"`
}

// Snapshot is one authoritative game state payload.
type Snapshot struct {
	GameID       string                  `json:"gameId,omitempty"`
	GameMap      *GameMap                `json:"gameMap"`
	Players      map[string]RemotePlayer `json:"players"`
	Collectibles []Collectible           `json:"collectibles,omitempty"`
	IsOver       bool                    `json:"isOver"`
	Winner       *string                 `json:"winner"`
	Time         int64                   `json:"time"`
	HasStarted   bool                    `json:"hasStarted,omitempty"`
	Paused       bool                    `json:"paused,omitempty"`
}

// Validate checks the snapshot's structural invariants.
func (s *Snapshot) Validate() error {
	if s == nil {
		return ErrNoSnapshot
	}
	return s.GameMap.Validate()
}

// WinnerID returns the winner id and whether one is set.
func (s *Snapshot) WinnerID() (string, bool) {
	if s == nil || s.Winner == nil || *s.Winner == "" {
		return "", false
	}
	return *s.Winner, true
}
