package stage

import (
	"slices"
	"time"
)

type stepKind int

const (
	stepDo stepKind = iota
	stepWait
	stepWaitUntil
)

type step struct {
	kind     stepKind
	fn       func()
	d        time.Duration
	cond     func() bool
	maxPolls int
}

// Sequence is an ordered list of phases advanced by simulated time.
// Do steps run as soon as they are reached; Wait and WaitUntil suspend the
// sequence until enough time has been fed through Tick.
type Sequence struct {
	name   string
	steps  []step
	pos    int
	waited time.Duration
	polls  int
}

// NewSequence creates an empty sequence. The name is only used for logging.
func NewSequence(name string) *Sequence {
	return &Sequence{name: name}
}

// Name returns the sequence name.
func (s *Sequence) Name() string {
	return s.name
}

// Do appends an immediate action.
func (s *Sequence) Do(fn func()) *Sequence {
	s.steps = append(s.steps, step{kind: stepDo, fn: fn})
	return s
}

// Wait appends a fixed delay.
func (s *Sequence) Wait(d time.Duration) *Sequence {
	s.steps = append(s.steps, step{kind: stepWait, d: d})
	return s
}

// WaitUntil appends a bounded poll: cond is checked on arrival and then every
// poll interval. After maxPolls failed retries giveUp runs (if set) and the
// sequence moves on.
func (s *Sequence) WaitUntil(cond func() bool, poll time.Duration, maxPolls int, giveUp func()) *Sequence {
	s.steps = append(s.steps, step{kind: stepWaitUntil, cond: cond, d: poll, maxPolls: maxPolls, fn: giveUp})
	return s
}

// Then appends all steps of other.
func (s *Sequence) Then(other *Sequence) *Sequence {
	s.steps = append(s.steps, other.steps...)
	return s
}

// Done reports whether every step has run.
func (s *Sequence) Done() bool {
	return s.pos >= len(s.steps)
}

// advance feeds dt into the sequence and runs steps until the next
// suspension point. alive is checked after every action so an abort raised
// from inside a step stops the sequence immediately.
func (s *Sequence) advance(dt time.Duration, alive func() bool) {
	budget := dt
	for !s.Done() {
		st := s.steps[s.pos]
		switch st.kind {
		case stepDo:
			s.next()
			if st.fn != nil {
				st.fn()
			}
			if !alive() {
				return
			}

		case stepWait:
			s.waited += budget
			budget = 0
			if s.waited < st.d {
				return
			}
			budget = s.waited - st.d
			s.next()

		case stepWaitUntil:
			if st.cond() {
				s.next()
				continue
			}
			if s.polls >= st.maxPolls || st.d <= 0 {
				s.next()
				if st.fn != nil {
					st.fn()
				}
				if !alive() {
					return
				}
				continue
			}
			s.waited += budget
			budget = 0
			if s.waited < st.d {
				return
			}
			budget = s.waited - st.d
			s.waited = 0
			s.polls++
		}
	}
}

func (s *Sequence) next() {
	s.pos++
	s.waited = 0
	s.polls = 0
}

// Sequencer runs any number of sequences side by side on one simulated clock.
// It replaces engine coroutines: nothing runs on its own goroutine and every
// suspension point is a Wait or WaitUntil step.
type Sequencer struct {
	pending []*Sequence
	gen     uint64
}

// NewSequencer creates an idle sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Start registers seq and runs it up to its first suspension point.
func (q *Sequencer) Start(seq *Sequence) {
	q.pending = append(q.pending, seq)
	q.run(seq, 0)
	q.prune()
}

// Tick advances every pending sequence by dt, in start order.
func (q *Sequencer) Tick(dt time.Duration) {
	for _, seq := range slices.Clone(q.pending) {
		if !q.run(seq, dt) {
			return
		}
	}
	q.prune()
}

// Abort drops every pending sequence. A sequence that is running when Abort
// is called stops at its next step.
func (q *Sequencer) Abort() {
	q.pending = nil
	q.gen++
}

// Pending returns the number of unfinished sequences.
func (q *Sequencer) Pending() int {
	return len(q.pending)
}

// Running reports whether a sequence with the given name is pending.
func (q *Sequencer) Running(name string) bool {
	for _, seq := range q.pending {
		if seq.name == name {
			return true
		}
	}
	return false
}

// run advances one sequence and reports whether the sequencer survived it
// without an abort.
func (q *Sequencer) run(seq *Sequence, dt time.Duration) bool {
	gen := q.gen
	alive := func() bool { return q.gen == gen }
	seq.advance(dt, alive)
	return alive()
}

func (q *Sequencer) prune() {
	q.pending = slices.DeleteFunc(q.pending, (*Sequence).Done)
}
