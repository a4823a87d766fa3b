package engine

import (
	"time"

	"go.uber.org/zap"
)

type stepKind int

const (
	stepDeal stepKind = iota
	stepDraw
	stepSettle
	stepAuto
)

// step is one staged unit of a deal, draw or auto-complete sequence
type step struct {
	kind      stepKind
	column    int
	faceUp    bool
	countMove bool
}

// scheduler holds the pending step queue and the timer advancing it.
// A timer only acts if gen still matches when it fires.
type scheduler struct {
	pending []step
	timer   *time.Timer
	gen     uint64
}

func (e *GameEngine) enqueue(s step) {
	e.pending = append(e.pending, s)
}

func (e *GameEngine) delayFor(s step) time.Duration {
	switch s.kind {
	case stepDeal, stepDraw:
		return e.timing.DealInterval
	case stepAuto:
		return e.timing.AutoCompleteInterval
	}
	return 0
}

// runLocked advances the queue as far as the timing allows. With immediate
// set the head step is applied without waiting. In manual mode nothing runs.
func (e *GameEngine) runLocked(immediate bool) {
	for len(e.pending) > 0 {
		if e.timing.Manual {
			return
		}
		if immediate {
			immediate = false
			e.stepLocked()
			continue
		}
		if delay := e.delayFor(e.pending[0]); delay > 0 {
			e.armLocked(delay)
			return
		}
		e.stepLocked()
	}
}

func (e *GameEngine) armLocked(delay time.Duration) {
	if e.timer != nil {
		return
	}
	gen := e.gen
	e.timer = time.AfterFunc(delay, func() { e.fire(gen) })
}

func (e *GameEngine) fire(gen uint64) {
	e.mu.Lock()
	if e.closed || gen != e.gen {
		e.mu.Unlock()
		return
	}
	e.timer = nil
	ok := e.stepLocked()
	e.runLocked(false)
	e.unlockAndNotify(ok)
}

// stopTimerLocked disarms the timer; a callback already waiting on mu sees a
// stale generation and does nothing.
func (e *GameEngine) stopTimerLocked() {
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// cancelLocked drops every pending step
func (e *GameEngine) cancelLocked() {
	e.stopTimerLocked()
	e.pending = nil
}

// stepLocked applies the head of the queue
func (e *GameEngine) stepLocked() bool {
	if len(e.pending) == 0 {
		return false
	}
	s := e.pending[0]
	e.pending = e.pending[1:]

	switch s.kind {
	case stepDeal, stepDraw:
		if len(e.state.Stock) == 0 {
			return true
		}
		card := e.state.Stock[0]
		e.state.Stock = e.state.Stock[1:]
		card.FaceUp = s.faceUp
		e.state.Columns[s.column] = append(e.state.Columns[s.column], card)
		if s.countMove {
			e.state.Moves++
		}

	case stepSettle:
		e.phase = PhaseReady
		e.persistLocked()
		e.checkAutoCompleteLocked()

	case stepAuto:
		e.autoStepLocked()
	}
	return true
}

func (e *GameEngine) autoStepLocked() {
	column, foundation, ok := e.state.nextAutoMove()
	if !ok {
		e.phase = PhaseReady
		e.persistLocked()
		e.logger.Debug("auto-complete stopped", zap.Int("foundation_cards", e.state.FoundationCount()))
		return
	}

	col := e.state.Columns[column]
	card := col[len(col)-1]
	e.state.Columns[column] = col[:len(col)-1]
	e.state.revealTop(column)
	e.state.Foundations[foundation] = append(e.state.Foundations[foundation], card)
	e.state.Moves++

	if e.state.IsWon() {
		e.phase = PhaseReady
		e.persistLocked()
		e.logger.Info("game won", zap.Int("moves", e.state.Moves))
		return
	}
	e.persistLocked()
	e.enqueue(step{kind: stepAuto})
}

// checkAutoCompleteLocked queues the auto-complete loop once no player
// decision remains. The caller runs the queue.
func (e *GameEngine) checkAutoCompleteLocked() {
	if e.phase != PhaseReady || e.state == nil || len(e.pending) > 0 {
		return
	}
	if !e.state.readyForAutoComplete() {
		return
	}
	e.phase = PhaseAutoCompleting
	e.enqueue(step{kind: stepAuto})
	e.logger.Debug("auto-complete started", zap.Int("foundation_cards", e.state.FoundationCount()))
}
