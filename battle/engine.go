package battle

import (
	"fmt"
	"math/rand"

	"skirmish/moves"
)

// SelectionMode chooses how BattleEngine.Step picks a move and target when
// the caller does not supply one outright.
type SelectionMode int

const (
	// ModeAuto is uniform-random move and target selection - the only
	// decision-making spec.md's non-goals permit the core itself.
	ModeAuto SelectionMode = iota
	// ModeLocal1V1 requires the caller to supply a Selection every step.
	ModeLocal1V1
	// ModeScripted consumes a fixed sequence of selections, falling back
	// to ModeAuto once exhausted - additive tooling for deterministic
	// tests and demos, not a change to the two modes spec.md names.
	ModeScripted
)

// Selection is a caller- or script-supplied (move, target) pair for one
// step. Target nil means "use default target selection".
type Selection struct {
	MoveID string
	Target *FighterVolatile
}

// ScriptedStep names a move id and an opposing-side index (or -1 for
// default target selection) to run next in ModeScripted.
type ScriptedStep struct {
	MoveID      string
	TargetIndex int
}

// BattleEngine drives a BattleContext one step() at a time.
type BattleEngine struct {
	Moves *moves.MoveEngine
	Mode  SelectionMode
	Script []ScriptedStep

	scriptPos int
}

func NewBattleEngine(me *moves.MoveEngine, mode SelectionMode, script []ScriptedStep) *BattleEngine {
	return &BattleEngine{Moves: me, Mode: mode, Script: script}
}

// Start binds the battle, pushing the opening log line.
func (be *BattleEngine) Start(ctx *BattleContext) {
	ctx.Append("Battle started")
}

// IsBattleOver holds iff at most one side has any living fighter, or
// turn >= max_turns.
func IsBattleOver(ctx *BattleContext, b *Battle) bool {
	return ctx.SidesAlive() <= 1 || ctx.Turn >= b.effectiveMaxTurns()
}

// locateActive returns the fighter at (ActiveSide, ActiveFighterIndex),
// the two coordinates advance maintains as normative turn-order state.
func locateActive(ctx *BattleContext) (side, idx int, fv *FighterVolatile, ok bool) {
	side, idx = ctx.ActiveSide, ctx.ActiveFighterIndex
	if side < 0 || side >= len(ctx.Sides) || idx < 0 || idx >= len(ctx.Sides[side]) {
		return 0, 0, nil, false
	}
	return side, idx, ctx.Sides[side][idx], true
}

// advance implements the column-first turn order: try the next side at the
// same fighter index first, and only increment the index (starting a new
// turn and ticking every buff once every side has been exhausted at every
// index) when no further side has a fighter there.
func advance(ctx *BattleContext) {
	numSides := len(ctx.Sides)

	for sideIdx := ctx.ActiveSide + 1; sideIdx < numSides; sideIdx++ {
		if ctx.ActiveFighterIndex < len(ctx.Sides[sideIdx]) {
			ctx.ActiveSide = sideIdx
			return
		}
	}

	ctx.ActiveFighterIndex++
	maxIndex := 0
	for _, side := range ctx.Sides {
		if len(side) > maxIndex {
			maxIndex = len(side)
		}
	}
	if ctx.ActiveFighterIndex >= maxIndex {
		ctx.Turn++
		ctx.ActiveFighterIndex = 0
		ctx.ActiveSide = 0
		ctx.TickAllBuffs()
		return
	}
	for i, side := range ctx.Sides {
		if ctx.ActiveFighterIndex < len(side) {
			ctx.ActiveSide = i
			break
		}
	}
}

// defaultTarget picks the first living enemy fighter in enemy side order,
// falling back to the user's own side if none are alive.
func defaultTarget(ctx *BattleContext, activeSide int) *FighterVolatile {
	enemySide := 1 - activeSide
	for _, f := range ctx.Sides[enemySide] {
		if f.Alive() {
			return f
		}
	}
	for _, f := range ctx.Sides[activeSide] {
		if f.Alive() {
			return f
		}
	}
	return nil
}

func (be *BattleEngine) autoSelect(ctx *BattleContext, activeSide int, active *FighterVolatile) Selection {
	candidates := active.Base.Moves
	if len(candidates) == 0 {
		return Selection{}
	}
	sel := Selection{MoveID: candidates[rand.Intn(len(candidates))]}
	if enemies := ctx.AliveFighters(1 - activeSide); len(enemies) > 0 {
		sel.Target = enemies[rand.Intn(len(enemies))]
	}
	return sel
}

func (be *BattleEngine) scriptedSelect(ctx *BattleContext, activeSide int) (Selection, bool) {
	if be.scriptPos >= len(be.Script) {
		return Selection{}, false
	}
	step := be.Script[be.scriptPos]
	be.scriptPos++
	sel := Selection{MoveID: step.MoveID}
	if step.TargetIndex >= 0 {
		enemySide := 1 - activeSide
		if step.TargetIndex < len(ctx.Sides[enemySide]) {
			sel.Target = ctx.Sides[enemySide][step.TargetIndex]
		}
	}
	return sel, true
}

// Step advances exactly one actor. If the battle is already over, it emits
// terminal logs and returns false. Otherwise it resolves a selection
// (supplied, scripted, or auto), executes the move, drains the event
// queue, and advances the active fighter.
func (be *BattleEngine) Step(ctx *BattleContext, b *Battle, selected *Selection) (bool, error) {
	if IsBattleOver(ctx, b) {
		ctx.Append("Battle over")
		return false, nil
	}

	side, _, active, ok := locateActive(ctx)
	if !ok {
		ctx.Append("Battle over")
		return false, nil
	}

	if !active.Alive() {
		advance(ctx)
		return true, nil
	}

	var sel Selection
	switch {
	case selected != nil:
		sel = *selected
	case be.Mode == ModeLocal1V1:
		return false, fmt.Errorf("battle: local_1v1 mode requires a selection")
	case be.Mode == ModeScripted:
		if s, ok := be.scriptedSelect(ctx, side); ok {
			sel = s
		} else {
			sel = be.autoSelect(ctx, side, active)
		}
	default:
		sel = be.autoSelect(ctx, side, active)
	}

	if sel.MoveID == "" {
		advance(ctx)
		return true, nil
	}

	target := sel.Target
	if target == nil {
		target = defaultTarget(ctx, side)
	}

	if err := be.Moves.Execute(sel.MoveID, active, target, ctx, nil); err != nil {
		return false, err
	}

	ctx.DrainEvents()
	advance(ctx)
	return true, nil
}
