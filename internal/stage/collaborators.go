package stage

// Block is one cell-sized part of a piece.
type Block struct {
	ID  OccupantID
	Pos Vec2
}

// Piece is a falling piece handed over by the Spawner.
// Origin is where the placement effect fires when the piece freezes.
type Piece struct {
	Origin Vec2
	Blocks []Block
}

// Banner identifies an announcement shown by the Announcer.
type Banner int

const (
	BannerRoundStart Banner = iota
	BannerGameOver
	BannerStageClear
	BannerDismiss
)

// String returns a human-readable name for the banner.
func (b Banner) String() string {
	switch b {
	case BannerRoundStart:
		return "RoundStart"
	case BannerGameOver:
		return "GameOver"
	case BannerStageClear:
		return "StageClear"
	case BannerDismiss:
		return "Dismiss"
	default:
		return "Unknown"
	}
}

// Spawner creates falling pieces.
type Spawner interface {
	// NextPiece creates the next falling piece. freezeTime controls its fall pace.
	NextPiece(freezeTime float64) Piece

	// Park turns a piece that could not be placed into an inert placeholder
	// moved off the field.
	Park(p Piece)
}

// Renderer owns the visuals of settled cells and effects.
type Renderer interface {
	Destroy(id OccupantID)
	Relocate(id OccupantID, dy float64)
	PlaceEffectAt(pos Vec2)

	// SpawnCell creates a settled cell visual for a generated obstacle.
	SpawnCell(pos Vec2, variant int) OccupantID

	// SpawnStockLine adds one decorative full-width line at height y.
	SpawnStockLine(y float64, variant int)
	ClearLineStock()
}

// Announcer shows round banners. It may become available only after the
// session has started, so callers poll Ready before Show.
type Announcer interface {
	Ready() bool
	Show(b Banner)
}

// Display receives the numeric values shown on the HUD.
// Formatting is up to the implementation.
type Display interface {
	ShowScore(score int)

	// ShowRemaining receives the remaining line count; zero or below means
	// the counter should be shown blank.
	ShowRemaining(lines int)
}

// Session leaves the play session for the title screen.
type Session interface {
	EndToTitle()
}

// Collaborators groups everything the Controller talks to.
type Collaborators struct {
	Spawner   Spawner
	Renderer  Renderer
	Announcer Announcer
	Display   Display
	Session   Session
}
