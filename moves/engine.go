package moves

import (
	"fmt"
	"math/rand"

	"skirmish/fighters"
)

// ActionHandler implements one action kind's semantics. It returns a
// success flag (used by composite actions like random/repeat/condition)
// and an error only for genuinely exceptional conditions; a chance miss or
// a false condition is success=false, err=nil.
type ActionHandler func(eng *MoveEngine, action Action, user, target Target, log Log, ctx ResolvedContext, move *Move) (bool, error)

// MoveEngine evaluates a move's action tree against a user/target pair.
// Handlers are injected (see moves/actions.Handlers()) rather than
// imported directly, so this package never depends on its own handler
// implementations - avoiding a moves <-> moves/actions import cycle while
// keeping the "handlers registered by kind" shape of the original engine.
type MoveEngine struct {
	Set       *MoveSet
	TypeChart fighters.TypeChart
	Handlers  map[string]ActionHandler
}

func NewEngine(set *MoveSet, typeChart fighters.TypeChart, handlers map[string]ActionHandler) *MoveEngine {
	return &MoveEngine{Set: set, TypeChart: typeChart, Handlers: handlers}
}

// Execute runs move_id against user/target. runtimeCtx, if non-nil,
// overrides the move's own context after it is built - the final layer in
// "default MoveContext ▹ move overrides ▹ runtime_ctx".
func (eng *MoveEngine) Execute(moveID string, user, target Target, log Log, runtimeCtx *MoveContext) error {
	move, ok := eng.Set.Get(moveID)
	if !ok || !move.Enabled {
		return nil
	}

	chargeUsage, err := move.ChargeUsage.Float()
	if err != nil {
		return fmt.Errorf("moves: move %q charge_usage: %w", moveID, err)
	}
	if user != nil && float64(user.Stats().Charge) < chargeUsage {
		if log != nil {
			log.Append(fmt.Sprintf("%s does not have enough charge to use %s. Required: %v, Available: %d",
				user.Name(), move.ID, chargeUsage, user.Stats().Charge))
		}
		return nil
	}

	execCtx := DefaultMoveContext().Merge(move.Context)

	chanceVal, err := execCtx.Chance.Float()
	if err != nil {
		return fmt.Errorf("moves: move %q chance: %w", moveID, err)
	}
	if rand.Float64() >= chanceVal {
		return nil
	}

	if runtimeCtx != nil {
		execCtx = execCtx.Merge(*runtimeCtx)
	}

	for _, action := range move.Actions {
		if err := eng.executeAction(action, user, target, log, execCtx, move); err != nil {
			return err
		}
	}
	return nil
}

// executeAction merges parent_ctx with the action's own override fields,
// rolls the action's own chance (implicit 1.0 if unset), and dispatches.
func (eng *MoveEngine) executeAction(action Action, user, target Target, log Log, parentCtx MoveContext, move *Move) error {
	if action == nil {
		return fmt.Errorf("moves: cannot execute a nil action")
	}
	base := action.Base()
	ctx := parentCtx.Merge(base.Context)

	resolved, err := ctx.Resolve()
	if err != nil {
		return fmt.Errorf("moves: resolving context for action %q: %w", base.Kind, err)
	}

	if base.Context.Chance != nil {
		if rand.Float64() >= resolved.Chance {
			return nil
		}
	}

	return eng.dispatch(action, user, target, log, resolved, move)
}

func (eng *MoveEngine) dispatch(action Action, user, target Target, log Log, ctx ResolvedContext, move *Move) error {
	base := action.Base()
	handler, ok := eng.Handlers[base.Kind]
	if !ok {
		return fmt.Errorf("moves: no handler registered for action %q", base.Kind)
	}
	_, err := handler(eng, action, user, target, log, ctx, move)
	return err
}

// ExecuteNested lets composite action handlers (condition/random/repeat)
// recurse back into a nested action list using the same merge/dispatch
// rules as the top-level tree. It returns true if any nested action
// reported success.
func (eng *MoveEngine) ExecuteNested(actions ActionList, user, target Target, log Log, parentCtx MoveContext, move *Move) (bool, error) {
	any := false
	for _, a := range actions {
		base := a.Base()
		ctx := parentCtx.Merge(base.Context)
		resolved, err := ctx.Resolve()
		if err != nil {
			return any, fmt.Errorf("moves: resolving context for action %q: %w", base.Kind, err)
		}
		if base.Context.Chance != nil && rand.Float64() >= resolved.Chance {
			continue
		}
		handler, ok := eng.Handlers[base.Kind]
		if !ok {
			return any, fmt.Errorf("moves: no handler registered for action %q", base.Kind)
		}
		ok2, err := handler(eng, a, user, target, log, resolved, move)
		if err != nil {
			return any, err
		}
		if ok2 {
			any = true
		}
	}
	return any, nil
}
