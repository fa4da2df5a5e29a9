package battle

import "log"

// Log is the narrative log stack interface; FighterVolatile's move-engine
// bridge and BattleContext both use this shape.
type Log interface {
	Append(line string)
}

// QueuedEvent is a deferred closure pushed onto the battle's event queue.
// Per spec.md §5, queued closures must take no required parameters;
// RequiresArgs lets the queue warn-and-drop a closure that was built with
// one anyway, without ever invoking it.
type QueuedEvent struct {
	Run          func()
	RequiresArgs bool
	Description  string
}

// BattleContext holds the two sides and the turn/log/event-queue state the
// battle engine advances one step() at a time.
type BattleContext struct {
	Turn                int
	ActiveSide          int
	ActiveFighterIndex  int
	Sides               [2][]*FighterVolatile

	eventQueue []QueuedEvent
	logStack   []string
	LogHistory []string
}

func NewBattleContext(sideA, sideB []*FighterVolatile) *BattleContext {
	return &BattleContext{Sides: [2][]*FighterVolatile{sideA, sideB}}
}

// Append pushes a line onto the pending log stack.
func (bc *BattleContext) Append(line string) {
	bc.logStack = append(bc.logStack, line)
}

// GetNextLogs drains the pending log stack into history and returns the
// drained lines, in insertion order.
func (bc *BattleContext) GetNextLogs() []string {
	drained := bc.logStack
	bc.logStack = nil
	bc.LogHistory = append(bc.LogHistory, drained...)
	return drained
}

// QueueEvent enqueues a deferred closure, FIFO.
func (bc *BattleContext) QueueEvent(ev QueuedEvent) {
	bc.eventQueue = append(bc.eventQueue, ev)
}

// DrainEvents runs every queued closure in FIFO order, dropping (with a
// warning) any that requires arguments rather than ever invoking it.
func (bc *BattleContext) DrainEvents() {
	for _, ev := range bc.eventQueue {
		if ev.RequiresArgs {
			log.Printf("battle: dropped queued event %q: requires arguments", ev.Description)
			continue
		}
		ev.Run()
	}
	bc.eventQueue = nil
}

// AliveFighters returns the living fighters of side i.
func (bc *BattleContext) AliveFighters(side int) []*FighterVolatile {
	var alive []*FighterVolatile
	for _, f := range bc.Sides[side] {
		if f.Alive() {
			alive = append(alive, f)
		}
	}
	return alive
}

// SidesAlive reports how many of the two sides still have a living fighter.
func (bc *BattleContext) SidesAlive() int {
	n := 0
	for side := range bc.Sides {
		if len(bc.AliveFighters(side)) > 0 {
			n++
		}
	}
	return n
}

// TickAllBuffs ticks buffs on every fighter in both sides - called at the
// full-turn boundary (when active_fighter_index wraps past every side's
// length).
func (bc *BattleContext) TickAllBuffs() {
	for side := range bc.Sides {
		for _, f := range bc.Sides[side] {
			f.TickBuffs(bc)
		}
	}
}
