package stage

type spawnedCell struct {
	id      OccupantID
	pos     Vec2
	variant int
}

type fakeRenderer struct {
	nextID       OccupantID
	destroyed    []OccupantID
	relocated    map[OccupantID]float64
	effects      []Vec2
	spawned      []spawnedCell
	stockLines   []float64
	stockCleared int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{nextID: 1000, relocated: make(map[OccupantID]float64)}
}

func (r *fakeRenderer) Destroy(id OccupantID) { r.destroyed = append(r.destroyed, id) }

func (r *fakeRenderer) Relocate(id OccupantID, dy float64) { r.relocated[id] += dy }

func (r *fakeRenderer) PlaceEffectAt(pos Vec2) { r.effects = append(r.effects, pos) }

func (r *fakeRenderer) SpawnCell(pos Vec2, variant int) OccupantID {
	r.nextID++
	r.spawned = append(r.spawned, spawnedCell{id: r.nextID, pos: pos, variant: variant})
	return r.nextID
}

func (r *fakeRenderer) SpawnStockLine(y float64, _ int) { r.stockLines = append(r.stockLines, y) }

func (r *fakeRenderer) ClearLineStock() {
	r.stockCleared++
	r.stockLines = nil
}

// fakeSpawner hands out queued pieces, falling back to a single block high
// above the field.
type fakeSpawner struct {
	mapper   Mapper
	queue    []Piece
	requests []float64
	parked   []Piece
	nextID   OccupantID
}

func (s *fakeSpawner) NextPiece(freezeTime float64) Piece {
	s.requests = append(s.requests, freezeTime)
	if len(s.queue) > 0 {
		p := s.queue[0]
		s.queue = s.queue[1:]
		return p
	}
	s.nextID++
	return pieceAt(s.mapper, s.nextID, CellIndex{Col: 0, Row: 15})
}

func (s *fakeSpawner) Park(p Piece) { s.parked = append(s.parked, p) }

type fakeAnnouncer struct {
	ready bool
	shown []Banner
}

func (a *fakeAnnouncer) Ready() bool   { return a.ready }
func (a *fakeAnnouncer) Show(b Banner) { a.shown = append(a.shown, b) }

type fakeDisplay struct {
	scores    []int
	remaining []int
}

func (d *fakeDisplay) ShowScore(score int)     { d.scores = append(d.scores, score) }
func (d *fakeDisplay) ShowRemaining(lines int) { d.remaining = append(d.remaining, lines) }

type fakeSession struct {
	ended int
}

func (s *fakeSession) EndToTitle() { s.ended++ }

type harness struct {
	renderer  *fakeRenderer
	spawner   *fakeSpawner
	announcer *fakeAnnouncer
	display   *fakeDisplay
	session   *fakeSession
}

func newHarness(m Mapper) *harness {
	return &harness{
		renderer:  newFakeRenderer(),
		spawner:   &fakeSpawner{mapper: m, nextID: 5000},
		announcer: &fakeAnnouncer{ready: true},
		display:   &fakeDisplay{},
		session:   &fakeSession{},
	}
}

func (h *harness) collaborators() Collaborators {
	return Collaborators{
		Spawner:   h.spawner,
		Renderer:  h.renderer,
		Announcer: h.announcer,
		Display:   h.display,
		Session:   h.session,
	}
}

// pieceAt builds a piece whose blocks sit on the given cells, with IDs
// counting up from first.
func pieceAt(m Mapper, first OccupantID, cells ...CellIndex) Piece {
	p := Piece{}
	for i, c := range cells {
		p.Blocks = append(p.Blocks, Block{ID: first + OccupantID(i), Pos: m.PositionOf(c)})
	}
	if len(p.Blocks) > 0 {
		p.Origin = p.Blocks[0].Pos
	}
	return p
}

func row(r int, cols ...int) []CellIndex {
	cells := make([]CellIndex, len(cols))
	for i, c := range cols {
		cells[i] = CellIndex{Col: c, Row: r}
	}
	return cells
}
