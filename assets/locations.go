package assets

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Sprite names a logical image used by the renderer.
type Sprite uint8

const (
	SpriteWall Sprite = iota
	SpriteWalkable
	SpriteBreakable
	SpriteBomb
	SpriteExplosion
	SpritePowerUp
	SpriteBombUp
	SpriteSpeedUp
	SpritePlayer

	numSprites
)

var spriteNames = [numSprites]string{
	SpriteWall:      "wall",
	SpriteWalkable:  "walkable",
	SpriteBreakable: "breakable",
	SpriteBomb:      "bomb",
	SpriteExplosion: "explosion",
	SpritePowerUp:   "power-up",
	SpriteBombUp:    "bomb-up",
	SpriteSpeedUp:   "speed-up",
	SpritePlayer:    "player",
}

// Sprites lists every sprite identifier.
func Sprites() []Sprite {
	out := make([]Sprite, numSprites)
	for i := range out {
		out[i] = Sprite(i)
	}
	return out
}

func (s Sprite) String() string {
	if s < numSprites {
		return spriteNames[s]
	}
	return fmt.Sprintf("sprite(%d)", uint8(s))
}

func (s Sprite) MarshalText() ([]byte, error) {
	if s >= numSprites {
		return nil, fmt.Errorf("assets: unknown sprite %d", uint8(s))
	}
	return []byte(spriteNames[s]), nil
}

func (s *Sprite) UnmarshalText(b []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(b)))
	for i, n := range spriteNames {
		if n == name {
			*s = Sprite(i)
			return nil
		}
	}
	return fmt.Errorf("assets: unknown sprite %q", b)
}

// Locations maps sprites to asset URLs or paths.
type Locations map[Sprite]string

// DefaultLocations returns the stock asset paths under dir.
func DefaultLocations(dir string) Locations {
	l := make(Locations, numSprites)
	for _, s := range Sprites() {
		name := spriteNames[s] + ".png"
		if strings.Contains(dir, "://") {
			// path.Join would collapse the scheme's slashes.
			l[s] = strings.TrimRight(dir, "/") + "/" + name
			continue
		}
		l[s] = path.Join(dir, name)
	}
	return l
}

// URL returns the location for s, or "" when unset.
func (l Locations) URL(s Sprite) string { return l[s] }

// Merge returns a copy of l with every non-empty entry of o applied on top.
func (l Locations) Merge(o Locations) Locations {
	out := make(Locations, len(l)+len(o))
	for k, v := range l {
		out[k] = v
	}
	for k, v := range o {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// URLs returns the distinct locations ordered by sprite.
func (l Locations) URLs() []string {
	seen := make(map[string]bool, len(l))
	keys := make([]Sprite, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	var out []string
	for _, k := range keys {
		if u := l[k]; u != "" && !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}

// Validate reports sprites without a location.
func (l Locations) Validate() error {
	var missing []string
	for _, s := range Sprites() {
		if l[s] == "" {
			missing = append(missing, s.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("assets: no location for %s", strings.Join(missing, ", "))
	}
	return nil
}
