package moves

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"skirmish/dsl"
	"skirmish/fighters"
)

// fakeTarget is a minimal, in-memory moves.Target used to exercise the
// engine's gating and dispatch logic without pulling in the battle package.
type fakeTarget struct {
	name      string
	typ       string
	stats     fighters.ConcreteStats
	buffedMax fighters.ConcreteStats
	buffs     []fighters.Buff
	statuses  []fighters.Status
	setCalls  []string
}

func newFakeTarget(name, typ string, hp, attack, defense, shield, charge int) *fakeTarget {
	stats := fighters.ConcreteStats{HP: hp, Attack: attack, Defense: defense, Shield: shield, Charge: charge}
	return &fakeTarget{name: name, typ: typ, stats: stats, buffedMax: stats}
}

func (f *fakeTarget) Alive() bool                           { return f.stats.HP > 0 }
func (f *fakeTarget) Stats() fighters.ConcreteStats          { return f.stats }
func (f *fakeTarget) BuffedMax() fighters.ConcreteStats      { return f.buffedMax }
func (f *fakeTarget) Type() string                           { return f.typ }
func (f *fakeTarget) Name() string                           { return f.name }
func (f *fakeTarget) AddBuff(b fighters.Buff)                { f.buffs = append(f.buffs, b) }
func (f *fakeTarget) HasStatus(id string) bool {
	for _, s := range f.statuses {
		if s.ID == id {
			return true
		}
	}
	return false
}
func (f *fakeTarget) AddStatus(s fighters.Status) { f.statuses = append(f.statuses, s) }
func (f *fakeTarget) RemoveStatus(id string) {
	out := f.statuses[:0]
	for _, s := range f.statuses {
		if s.ID != id {
			out = append(out, s)
		}
	}
	f.statuses = out
}
func (f *fakeTarget) SetField(path string, value dsl.Value) error {
	f.setCalls = append(f.setCalls, path)
	return nil
}
func (f *fakeTarget) TakeDamage(amount int) int {
	if amount > f.stats.HP {
		amount = f.stats.HP
	}
	f.stats.HP -= amount
	return amount
}
func (f *fakeTarget) AddStat(stat string, delta int) int {
	switch stat {
	case "hp":
		f.stats.HP += delta
	case "shield":
		f.stats.Shield += delta
	}
	return delta
}

type fakeLog struct{ lines []string }

func (l *fakeLog) Append(line string) { l.lines = append(l.lines, line) }

func stubHandler(called *bool) ActionHandler {
	return func(eng *MoveEngine, action Action, user, target Target, log Log, ctx ResolvedContext, move *Move) (bool, error) {
		*called = true
		return true, nil
	}
}

func newSet(m Move) *MoveSet {
	return &MoveSet{byID: map[string]*Move{m.ID: &m}, order: []string{m.ID}}
}

func TestMoveEngineChargeGate(t *testing.T) {
	Convey("Given a move that costs more charge than the user has", t, func() {
		m := Move{ID: "big", Enabled: true, ChargeUsage: dsl.ConstFloat(50), Context: DefaultMoveContext()}
		called := false
		eng := NewEngine(newSet(m), fighters.DefaultTypeChart(), map[string]ActionHandler{"text": stubHandler(&called)})
		user := newFakeTarget("user", "dev", 100, 10, 10, 0, 5)
		target := newFakeTarget("target", "opti", 100, 10, 10, 0, 0)
		log := &fakeLog{}

		Convey("Execute aborts without dispatching and logs the reason", func() {
			err := eng.Execute("big", user, target, log, nil)
			So(err, ShouldBeNil)
			So(called, ShouldBeFalse)
			So(len(log.lines), ShouldEqual, 1)
		})
	})
}

func TestMoveEngineDisabledMove(t *testing.T) {
	Convey("Given a disabled move", t, func() {
		m := Move{ID: "broken", Enabled: false, ChargeUsage: dsl.ConstFloat(0), Context: DefaultMoveContext()}
		called := false
		eng := NewEngine(newSet(m), fighters.DefaultTypeChart(), map[string]ActionHandler{"text": stubHandler(&called)})
		user := newFakeTarget("user", "dev", 100, 10, 10, 0, 0)
		target := newFakeTarget("target", "opti", 100, 10, 10, 0, 0)

		Convey("Execute silently does nothing", func() {
			err := eng.Execute("broken", user, target, &fakeLog{}, nil)
			So(err, ShouldBeNil)
			So(called, ShouldBeFalse)
		})
	})
}

func TestMoveEngineUnknownHandler(t *testing.T) {
	Convey("Given a move whose action kind has no registered handler", t, func() {
		actions, err := DecodeAction([]byte(`{"id":"text","text":"hi"}`))
		So(err, ShouldBeNil)
		m := Move{ID: "silent", Enabled: true, ChargeUsage: dsl.ConstFloat(0), Context: DefaultMoveContext(), Actions: ActionList{actions}}
		eng := NewEngine(newSet(m), fighters.DefaultTypeChart(), map[string]ActionHandler{})
		user := newFakeTarget("user", "dev", 100, 10, 10, 0, 0)
		target := newFakeTarget("target", "opti", 100, 10, 10, 0, 0)

		Convey("Execute reports a fatal error", func() {
			err := eng.Execute("silent", user, target, &fakeLog{}, nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestMoveEngineContextMergeOrder(t *testing.T) {
	Convey("Given a move with a context override and a runtime override", t, func() {
		var seenFlat int
		handler := func(eng *MoveEngine, action Action, user, target Target, log Log, ctx ResolvedContext, move *Move) (bool, error) {
			seenFlat = ctx.Flat
			return true, nil
		}
		action, err := DecodeAction([]byte(`{"id":"heal"}`))
		So(err, ShouldBeNil)
		m := Move{
			ID:          "heal_move",
			Enabled:     true,
			ChargeUsage: dsl.ConstFloat(0),
			Context:     MoveContext{Flat: ref(dsl.ConstInt(5))},
			Actions:     ActionList{action},
		}
		eng := NewEngine(newSet(m), fighters.DefaultTypeChart(), map[string]ActionHandler{"heal": handler})
		user := newFakeTarget("user", "dev", 100, 10, 10, 0, 0)
		target := newFakeTarget("target", "opti", 100, 10, 10, 0, 0)

		Convey("the move-level override applies when no runtime override is given", func() {
			err := eng.Execute("heal_move", user, target, &fakeLog{}, nil)
			So(err, ShouldBeNil)
			So(seenFlat, ShouldEqual, 5)
		})

		Convey("a runtime override takes precedence over the move's own context", func() {
			runtime := MoveContext{Flat: ref(dsl.ConstInt(99))}
			err := eng.Execute("heal_move", user, target, &fakeLog{}, &runtime)
			So(err, ShouldBeNil)
			So(seenFlat, ShouldEqual, 99)
		})
	})
}

func TestActionLevelChanceGate(t *testing.T) {
	Convey("Given an action with chance 0", t, func() {
		called := false
		handler := stubHandler(&called)
		var ctx MoveContext
		ctx.Chance = ref(dsl.ConstFloat(0))
		action := &HealAction{ActionBase: ActionBase{Kind: "heal", Context: ctx}}
		m := Move{ID: "never", Enabled: true, ChargeUsage: dsl.ConstFloat(0), Context: DefaultMoveContext(), Actions: ActionList{action}}
		eng := NewEngine(newSet(m), fighters.DefaultTypeChart(), map[string]ActionHandler{"heal": handler})
		user := newFakeTarget("user", "dev", 100, 10, 10, 0, 0)
		target := newFakeTarget("target", "opti", 100, 10, 10, 0, 0)

		Convey("the handler never dispatches", func() {
			err := eng.Execute("never", user, target, &fakeLog{}, nil)
			So(err, ShouldBeNil)
			So(called, ShouldBeFalse)
		})
	})
}
