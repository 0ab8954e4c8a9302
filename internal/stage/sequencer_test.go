package stage

import (
	"slices"
	"testing"
	"time"
)

func TestSequencerRunsImmediateStepsOnStart(t *testing.T) {
	q := NewSequencer()
	var trace []string

	q.Start(NewSequence("a").
		Do(func() { trace = append(trace, "one") }).
		Do(func() { trace = append(trace, "two") }))

	if !slices.Equal(trace, []string{"one", "two"}) {
		t.Errorf("trace = %v", trace)
	}
	if q.Pending() != 0 {
		t.Errorf("Pending() = %d, expected 0", q.Pending())
	}
}

func TestSequencerWaitCarriesLeftoverTime(t *testing.T) {
	q := NewSequencer()
	var trace []string

	q.Start(NewSequence("a").
		Wait(100 * time.Millisecond).
		Do(func() { trace = append(trace, "first") }).
		Wait(100 * time.Millisecond).
		Do(func() { trace = append(trace, "second") }))

	q.Tick(99 * time.Millisecond)
	if len(trace) != 0 {
		t.Fatalf("trace = %v before the first wait ended", trace)
	}

	q.Tick(51 * time.Millisecond)
	if !slices.Equal(trace, []string{"first"}) {
		t.Errorf("trace = %v, expected [first]", trace)
	}
	if !q.Running("a") {
		t.Error("sequence should still be running")
	}

	q.Tick(50 * time.Millisecond)
	if !slices.Equal(trace, []string{"first", "second"}) {
		t.Errorf("trace = %v, expected [first second]", trace)
	}
	if q.Running("a") {
		t.Error("sequence should have finished")
	}
}

func TestSequencerWaitUntilPolls(t *testing.T) {
	q := NewSequencer()
	ready := false
	gaveUp := false
	done := false

	q.Start(NewSequence("poll").
		WaitUntil(func() bool { return ready }, 100*time.Millisecond, 5, func() { gaveUp = true }).
		Do(func() { done = true }))

	q.Tick(250 * time.Millisecond)
	if done {
		t.Fatal("step after WaitUntil ran before the condition held")
	}

	ready = true
	q.Tick(0)
	if !done || gaveUp {
		t.Errorf("done = %v, gaveUp = %v; expected true, false", done, gaveUp)
	}
}

func TestSequencerWaitUntilGivesUp(t *testing.T) {
	q := NewSequencer()
	gaveUp := false
	done := false

	q.Start(NewSequence("poll").
		WaitUntil(func() bool { return false }, 100*time.Millisecond, 3, func() { gaveUp = true }).
		Do(func() { done = true }))

	q.Tick(200 * time.Millisecond)
	if gaveUp {
		t.Fatal("gave up before the last poll")
	}

	q.Tick(100 * time.Millisecond)
	if !gaveUp || !done {
		t.Errorf("gaveUp = %v, done = %v; expected both", gaveUp, done)
	}
	if q.Pending() != 0 {
		t.Errorf("Pending() = %d, expected 0", q.Pending())
	}
}

func TestSequencerAbortFromInsideStep(t *testing.T) {
	q := NewSequencer()
	after := false
	other := false

	q.Start(NewSequence("other").Wait(time.Second).Do(func() { other = true }))
	q.Start(NewSequence("aborting").
		Wait(10 * time.Millisecond).
		Do(q.Abort).
		Do(func() { after = true }))

	q.Tick(time.Second)

	if after {
		t.Error("step after Abort should not run")
	}
	if !other {
		t.Error("sequences ahead of the abort in the same tick should still run")
	}
	if q.Pending() != 0 {
		t.Errorf("Pending() = %d, expected 0", q.Pending())
	}
}

func TestSequencerThenAppendsSteps(t *testing.T) {
	q := NewSequencer()
	var trace []string

	tail := NewSequence("tail").Do(func() { trace = append(trace, "tail") })
	q.Start(NewSequence("head").
		Do(func() { trace = append(trace, "head") }).
		Wait(time.Millisecond).
		Then(tail))

	q.Tick(time.Millisecond)
	if !slices.Equal(trace, []string{"head", "tail"}) {
		t.Errorf("trace = %v, expected [head tail]", trace)
	}
}

func TestSequencerStartDuringTick(t *testing.T) {
	q := NewSequencer()
	nested := false

	q.Start(NewSequence("outer").
		Wait(time.Millisecond).
		Do(func() {
			q.Start(NewSequence("inner").Wait(time.Second).Do(func() { nested = true }))
		}))

	q.Tick(time.Millisecond)
	if !q.Running("inner") || q.Running("outer") {
		t.Errorf("Running(inner) = %v, Running(outer) = %v", q.Running("inner"), q.Running("outer"))
	}

	q.Tick(time.Second)
	if !nested {
		t.Error("sequence started during a tick should run on later ticks")
	}
}
