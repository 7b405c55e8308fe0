package world

// Direction is the way a player sprite faces.
type Direction uint8

const (
	Up Direction = iota
	Right
	Down
	Left
)

// DefaultFacing is used for players that have never moved.
const DefaultFacing = Left

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return "unknown"
}

// SheetRow returns the spritesheet row holding the walk cycle for d.
func (d Direction) SheetRow() int {
	switch d {
	case Right:
		return 0
	case Up:
		return 1
	case Down:
		return 2
	default:
		return 3
	}
}

// facingFor resolves simultaneous movement flags with the priority
// Up > Right > Down > Left. ok is false when no movement flag is set.
func facingFor(a ActionVector) (d Direction, ok bool) {
	switch {
	case a.MoveUp:
		return Up, true
	case a.MoveRight:
		return Right, true
	case a.MoveDown:
		return Down, true
	case a.MoveLeft:
		return Left, true
	}
	return 0, false
}

// Animation is the client-side presentation state of one player.
type Animation struct {
	Facing  Direction
	Frame   int
	Actions ActionVector
}

// NewAnimation seeds an animation from a player's current intent.
func NewAnimation(a ActionVector) Animation {
	an := Animation{Facing: DefaultFacing, Actions: a}
	if d, ok := facingFor(a); ok {
		an.Facing = d
	}
	return an
}

// Apply routes a new intent through the state machine.
func (an *Animation) Apply(next ActionVector) {
	if !next.SameMovement(an.Actions) {
		an.Frame = 0
	}
	if d, ok := facingFor(next); ok {
		an.Facing = d
	} else {
		// Idle keeps the last facing.
		an.Frame = 0
	}
	an.Actions = next
}

// Moving reports whether the current intent includes movement.
func (an *Animation) Moving() bool {
	return an.Actions.Moving()
}

// Step advances the walk cycle by one rendered frame while moving.
func (an *Animation) Step() {
	if an.Actions.Moving() {
		an.Frame++
	}
}

// Cell returns the spritesheet column and row for the current state.
func (an *Animation) Cell(frameCount int) (col, row int) {
	if frameCount > 0 {
		col = an.Frame % frameCount
	}
	return col, an.Facing.SheetRow()
}
