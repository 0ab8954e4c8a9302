package stage

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// Phase is the observable state of the round state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRestarting
	PhaseFalling
	PhaseStageClear
	PhaseGameOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseRestarting:
		return "Restarting"
	case PhaseFalling:
		return "Falling"
	case PhaseStageClear:
		return "StageClear"
	case PhaseGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// Sequence names, exposed so tests and the presentation layer can tell
// which phase sequences are still pending.
const (
	SeqRestart    = "restart"
	SeqStageClear = "stage-clear"
	SeqBanner     = "banner"
	SeqTitle      = "title"
)

// Settings holds the tuning values of a session.
type Settings struct {
	FloorWidth int
	Mapper     Mapper

	// FloorY and SpawnY are the world heights of the floor and of the spawn
	// point; the stage-clear line stock fills the space between them.
	FloorY float64
	SpawnY float64

	BaseLines         int
	InitialFreezeTime float64
	FreezeDecrement   float64

	FillRange     int
	FillThreshold int
	PaletteSize   int

	TitleDelay        time.Duration
	LineStockInterval time.Duration
	AnnouncerPoll     time.Duration
	AnnouncerMaxPolls int
}

// DefaultSettings returns the classic stage tuning: twelve columns,
// unit cells, 40% obstacle fill and a 0.1s speed-up per round.
func DefaultSettings() Settings {
	cell := Size{W: 1, H: 1}
	return Settings{
		FloorWidth:        12,
		Mapper:            Mapper{Anchor: ComputeAnchor(0, 0, cell), Cell: cell},
		FloorY:            0,
		SpawnY:            20,
		BaseLines:         0,
		InitialFreezeTime: 1,
		FreezeDecrement:   0.1,
		FillRange:         10,
		FillThreshold:     5,
		PaletteSize:       7,
		TitleDelay:        3 * time.Second,
		LineStockInterval: 50 * time.Millisecond,
		AnnouncerPoll:     100 * time.Millisecond,
		AnnouncerMaxPolls: 50,
	}
}

// ObstaclePresent reports whether an obstacle cell is placed for a roll
// drawn from [0, FillRange). The compare is strict: with the defaults rolls
// 6 to 9 place a cell and 0 to 5 leave it empty.
func (s Settings) ObstaclePresent(roll int) bool {
	return roll > s.FillThreshold
}

// Controller sequences a play session: freezing pieces into the grid,
// clearing rows, bookkeeping, spawning, game over and stage restarts.
// It is single-threaded; all delayed work runs from Advance.
type Controller struct {
	settings Settings
	collab   Collaborators
	rng      *rand.Rand
	logger   *log.Logger
	seq      *Sequencer
	grid     *Grid

	phase        Phase
	current      Piece
	fillCount    int
	obstacleRows int
	remaining    int
	freezeTime   float64
	lastScore    int
	totalScore   int
	clearedLines int
	gameOver     bool
}

// NewController creates a controller with an empty grid. Every collaborator
// must be set. A nil rng seeds from the clock; a nil logger discards output.
func NewController(settings Settings, collab Collaborators, rng *rand.Rand, logger *log.Logger) *Controller {
	if collab.Spawner == nil || collab.Renderer == nil || collab.Announcer == nil ||
		collab.Display == nil || collab.Session == nil {
		panic("stage: controller needs every collaborator")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		settings:   settings,
		collab:     collab,
		rng:        rng,
		logger:     logger,
		seq:        NewSequencer(),
		grid:       NewGrid(settings.FloorWidth),
		remaining:  settings.BaseLines,
		freezeTime: settings.InitialFreezeTime,
	}
}

// Start begins the session with the first round.
func (c *Controller) Start() {
	c.logger.Debug("anchor point", "x", c.settings.Mapper.Anchor.X, "y", c.settings.Mapper.Anchor.Y)
	c.seq.Start(c.restartSequence())
}

// Advance feeds elapsed time to pending banner, stage-clear and restart sequences.
func (c *Controller) Advance(dt time.Duration) {
	c.seq.Tick(dt)
}

// Abort cancels every pending sequence, e.g. when the session is torn down.
func (c *Controller) Abort() {
	c.seq.Abort()
}

// FreezeBlock settles a piece into the grid, clears completed rows and
// decides what happens next. Calls after game over are ignored.
//
// A block outside the grid is rejected before anything is written.
func (c *Controller) FreezeBlock(p Piece) error {
	if c.gameOver {
		return nil
	}

	cells := c.settings.Mapper.IndicesOf(p.Blocks)
	for i, cell := range cells {
		var err error
		switch {
		case cell.Col < 0 || cell.Col >= c.grid.Width():
			err = ErrColumnOutOfRange
		case cell.Row < 0:
			err = ErrRowNotReserved
		}
		if err != nil {
			err = fmt.Errorf("stage: freeze block %d at %v: %w", p.Blocks[i].ID, cell, err)
			c.logger.Error("rejected freeze", "error", err)
			return err
		}
	}

	touched := make([]int, 0, len(cells))
	for i, cell := range cells {
		c.grid.Reserve(cell.Row)
		if err := c.grid.Set(cell.Col, cell.Row, p.Blocks[i].ID); err != nil {
			return fmt.Errorf("stage: freeze: %w", err)
		}
		touched = append(touched, cell.Row)
	}

	filled := DetectFilled(touched, c.grid)
	ClearRows(c.grid, filled, c.settings.Mapper.Cell.H, c.collab.Renderer)

	linesLeft := true
	if n := len(filled); n > 0 {
		c.lastScore = n * n
		c.totalScore += c.lastScore
		c.clearedLines += n
		c.collab.Display.ShowScore(c.lastScore)

		c.remaining -= n
		c.collab.Display.ShowRemaining(c.remaining)
		linesLeft = c.remaining > 0

		c.logger.Info("rows cleared", "rows", filled, "score", c.lastScore, "remaining", c.remaining)
	}

	if linesLeft {
		c.spawnNext()
	} else {
		c.stageClear()
	}

	c.collab.Renderer.PlaceEffectAt(p.Origin)
	return nil
}

// spawnNext requests the next piece and ends the session when it cannot be placed.
func (c *Controller) spawnNext() {
	piece := c.collab.Spawner.NextPiece(c.freezeTime)
	c.current = piece

	if !c.Collides(piece.Blocks) {
		c.phase = PhaseFalling
		return
	}

	c.gameOver = true
	c.phase = PhaseGameOver
	c.collab.Spawner.Park(piece)
	c.logger.Info("game over", "round", c.fillCount, "score", c.totalScore)

	// Nothing queued before game over may touch the grid afterwards.
	c.seq.Abort()
	c.seq.Start(c.bannerSequence(BannerGameOver))
	c.seq.Start(NewSequence(SeqTitle).
		Wait(c.settings.TitleDelay).
		Do(c.collab.Session.EndToTitle))
}

func (c *Controller) stageClear() {
	c.phase = PhaseStageClear
	c.logger.Info("stage clear", "round", c.fillCount)
	c.seq.Start(c.bannerSequence(BannerStageClear))
	c.seq.Start(c.stageClearSequence())
}

// Collides tests blocks against the walls, the floor row and the grid.
func (c *Controller) Collides(blocks []Block) bool {
	return Collides(c.settings.Mapper.IndicesOf(blocks), c.grid, c.settings.FloorWidth)
}

// LineStockRows returns how many decorative lines fit between the spawn
// point and the top of the settled rows.
func (c *Controller) LineStockRows() int {
	height := c.settings.SpawnY - c.settings.FloorY
	return int(height/c.settings.Mapper.Cell.H) - c.grid.Height()
}

func (c *Controller) stageClearSequence() *Sequence {
	seq := NewSequence(SeqStageClear)
	rows := c.LineStockRows()
	for row := 0; row < rows; row++ {
		y := c.settings.SpawnY - c.settings.Mapper.Cell.H*float64(row)
		variant := row % c.settings.PaletteSize
		seq.Do(func() {
			c.collab.Renderer.SpawnStockLine(y, variant)
		}).Wait(c.settings.LineStockInterval)
	}
	return seq.Then(c.restartSequence())
}

// restartSequence builds the next round: it wipes the grid, generates
// obstacles, resets the line target, speeds up and spawns the first piece.
func (c *Controller) restartSequence() *Sequence {
	seq := NewSequence(SeqRestart)
	seq.Do(func() {
		c.phase = PhaseRestarting
		c.fillCount++
		c.obstacleRows++

		c.collab.Renderer.ClearLineStock()
		c.grid.ClearAll(c.collab.Renderer.Destroy)
	})
	c.appendBanner(seq, BannerDismiss)
	seq.Do(func() {
		c.generateObstacles()

		c.remaining = c.settings.BaseLines + c.fillCount
		c.collab.Display.ShowRemaining(c.remaining)

		c.freezeTime -= c.settings.FreezeDecrement
		c.current = c.collab.Spawner.NextPiece(c.freezeTime)
		c.phase = PhaseFalling

		c.logger.Info("round started",
			"round", c.fillCount,
			"obstacle_rows", c.obstacleRows,
			"remaining", c.remaining,
			"freeze_time", c.freezeTime,
		)
	})
	c.appendBanner(seq, BannerRoundStart)
	return seq
}

// generateObstacles fills obstacleRows rows above the floor row with random
// cells. Each cell is present with probability (range-1-threshold)/range.
func (c *Controller) generateObstacles() {
	s := c.settings
	mapper := s.Mapper

	for row := 0; row < c.obstacleRows; row++ {
		for col := 0; col < s.FloorWidth; col++ {
			if !s.ObstaclePresent(c.rng.Intn(s.FillRange)) {
				continue
			}
			variant := c.rng.Intn(s.PaletteSize)

			pos := mapper.PositionOf(CellIndex{Col: col, Row: row + 1})
			id := c.collab.Renderer.SpawnCell(pos, variant)

			cell := mapper.IndexOf(pos)
			c.grid.Reserve(cell.Row)
			if err := c.grid.Set(cell.Col, cell.Row, id); err != nil {
				// PositionOf and IndexOf are inverse for in-range cells.
				panic(err)
			}
		}
	}
}

func (c *Controller) bannerSequence(b Banner) *Sequence {
	seq := NewSequence(SeqBanner)
	c.appendBanner(seq, b)
	return seq
}

// appendBanner waits for the announcer to become available, then shows b.
func (c *Controller) appendBanner(seq *Sequence, b Banner) {
	skipped := false
	seq.WaitUntil(c.collab.Announcer.Ready, c.settings.AnnouncerPoll, c.settings.AnnouncerMaxPolls, func() {
		c.logger.Warn("announcer unavailable, banner skipped", "banner", b)
		skipped = true
	}).Do(func() {
		if !skipped {
			c.collab.Announcer.Show(b)
		}
	})
}

// Phase returns the current state machine phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// GameOver reports whether the session has ended. It is never cleared.
func (c *Controller) GameOver() bool {
	return c.gameOver
}

// Remaining returns the number of lines left to clear this round.
func (c *Controller) Remaining() int {
	return c.remaining
}

// Score returns the score of the most recent clear.
func (c *Controller) Score() int {
	return c.lastScore
}

// TotalScore returns the sum of every clear's score this session.
func (c *Controller) TotalScore() int {
	return c.totalScore
}

// ClearedLines returns the number of rows cleared this session.
func (c *Controller) ClearedLines() int {
	return c.clearedLines
}

// Round returns the 1-based round number (0 before Start).
func (c *Controller) Round() int {
	return c.fillCount
}

// ObstacleRows returns the obstacle row count of the current round.
func (c *Controller) ObstacleRows() int {
	return c.obstacleRows
}

// FreezeTime returns the fall pace handed to the spawner.
func (c *Controller) FreezeTime() float64 {
	return c.freezeTime
}

// Current returns the most recently spawned piece.
func (c *Controller) Current() Piece {
	return c.current
}

// Grid exposes the settled grid for rendering and tests.
func (c *Controller) Grid() *Grid {
	return c.grid
}

// Mapper returns the coordinate mapper of the session.
func (c *Controller) Mapper() Mapper {
	return c.settings.Mapper
}

// Settings returns the session settings.
func (c *Controller) Settings() Settings {
	return c.settings
}

// Pending reports whether any delayed sequence is still running.
func (c *Controller) Pending() bool {
	return c.seq.Pending() > 0
}
