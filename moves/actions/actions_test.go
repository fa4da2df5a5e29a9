package actions

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"skirmish/dsl"
	"skirmish/fighters"
	"skirmish/moves"
)

type fakeTarget struct {
	name      string
	typ       string
	stats     fighters.ConcreteStats
	buffedMax fighters.ConcreteStats
	buffs     []fighters.Buff
	statuses  []fighters.Status
	lastField string
	lastValue dsl.Value
}

func newFake(name, typ string, hp, attack, defense, shield, charge int, chargeCap int) *fakeTarget {
	stats := fighters.ConcreteStats{HP: hp, Attack: attack, Defense: defense, Shield: shield, Charge: charge}
	max := stats
	max.Charge = chargeCap
	max.HP, max.Attack, max.Defense, max.Shield = 999, 999, 999, 999
	return &fakeTarget{name: name, typ: typ, stats: stats, buffedMax: max}
}

func (f *fakeTarget) Alive() bool                      { return f.stats.HP > 0 }
func (f *fakeTarget) Stats() fighters.ConcreteStats     { return f.stats }
func (f *fakeTarget) BuffedMax() fighters.ConcreteStats { return f.buffedMax }
func (f *fakeTarget) Type() string                      { return f.typ }
func (f *fakeTarget) Name() string                      { return f.name }
func (f *fakeTarget) AddBuff(b fighters.Buff)           { f.buffs = append(f.buffs, b) }
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
	f.lastField = path
	f.lastValue = value
	return nil
}
func (f *fakeTarget) TakeDamage(amount int) int {
	applied := 0
	if f.stats.Shield > 0 {
		absorb := amount
		if absorb > f.stats.Shield {
			absorb = f.stats.Shield
		}
		f.stats.Shield -= absorb
		applied += absorb
		amount -= absorb
	}
	if amount > 0 {
		loss := amount
		if loss > f.stats.HP {
			loss = f.stats.HP
		}
		f.stats.HP -= loss
		applied += loss
	}
	return applied
}
func (f *fakeTarget) AddStat(stat string, delta int) int {
	switch stat {
	case "hp":
		before := f.stats.HP
		f.stats.HP += delta
		if f.stats.HP > f.buffedMax.HP {
			f.stats.HP = f.buffedMax.HP
		}
		if f.stats.HP < 0 {
			f.stats.HP = 0
		}
		return f.stats.HP - before
	case "shield":
		before := f.stats.Shield
		f.stats.Shield += delta
		if f.stats.Shield > f.buffedMax.Shield {
			f.stats.Shield = f.buffedMax.Shield
		}
		if f.stats.Shield < 0 {
			f.stats.Shield = 0
		}
		return f.stats.Shield - before
	}
	return 0
}

type fakeLog struct{ lines []string }

func (l *fakeLog) Append(line string) { l.lines = append(l.lines, line) }

func baseCtx() moves.ResolvedContext {
	return moves.ResolvedContext{
		Amount:     dsl.FloatValue(0),
		Chance:     1.0,
		CalcTarget: "self",
		CalcField:  "hp",
		Mult:       1.0,
		Flat:       0,
		Duration:   -1,
	}
}

func TestDamageHandler(t *testing.T) {
	Convey("Given a damage action with a flat amount", t, func() {
		eng := moves.NewEngine(nil, fighters.DefaultTypeChart(), Handlers())
		user := newFake("attacker", "dev", 100, 100, 10, 0, 0, 10)
		target := newFake("defender", "opti", 100, 10, 10, 0, 0, 10)
		ctx := baseCtx()
		ctx.Flat = 20
		ctx.CalcTarget = "opponent"
		action := &moves.DamageAction{ActionBase: moves.ActionBase{Kind: "damage"}}
		move := &moves.Move{Type: "dev", Name: dsl.ConstString("Jab")}

		Convey("target takes damage", func() {
			ok, err := Damage(eng, action, user, target, &fakeLog{}, ctx, move)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(target.stats.HP, ShouldBeLessThan, 100)
		})
	})

	Convey("Given a damage action against a shielded target", t, func() {
		eng := moves.NewEngine(nil, fighters.DefaultTypeChart(), Handlers())
		user := newFake("attacker", "dev", 100, 100, 10, 0, 0, 10)
		target := newFake("defender", "opti", 100, 10, 10, 50, 0, 10)
		ctx := baseCtx()
		ctx.Flat = 10
		ctx.CalcTarget = "opponent"
		action := &moves.DamageAction{ActionBase: moves.ActionBase{Kind: "damage"}}
		move := &moves.Move{Type: "dev"}

		Convey("shield absorbs before hp", func() {
			_, err := Damage(eng, action, user, target, &fakeLog{}, ctx, move)
			So(err, ShouldBeNil)
			So(target.stats.HP, ShouldEqual, 100)
			So(target.stats.Shield, ShouldBeLessThan, 50)
		})
	})
}

func TestHealHandler(t *testing.T) {
	Convey("Given a heal action with a flat amount", t, func() {
		eng := moves.NewEngine(nil, fighters.DefaultTypeChart(), Handlers())
		user := newFake("healer", "dev", 50, 10, 10, 0, 0, 10)
		ctx := baseCtx()
		ctx.Flat = 30
		move := &moves.Move{Type: "none"}

		Convey("hp increases and is clamped to buffed max", func() {
			ok, err := Heal(eng, &moves.HealAction{}, user, user, &fakeLog{}, ctx, move)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(user.stats.HP, ShouldEqual, 80)
		})
	})
}

func TestShieldHandlerMutatesState(t *testing.T) {
	Convey("Given a shield action with a flat amount", t, func() {
		eng := moves.NewEngine(nil, fighters.DefaultTypeChart(), Handlers())
		user := newFake("tank", "dev", 100, 10, 10, 0, 0, 10)
		ctx := baseCtx()
		ctx.Flat = 25
		move := &moves.Move{Type: "none"}

		Convey("shield stat actually increases, fixing the open question bug", func() {
			ok, err := Shield(eng, &moves.ShieldAction{}, user, user, &fakeLog{}, ctx, move)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(user.stats.Shield, ShouldEqual, 25)
		})
	})
}

func TestModifyHandlerFieldPath(t *testing.T) {
	Convey("Given a modify action", t, func() {
		eng := moves.NewEngine(nil, fighters.DefaultTypeChart(), Handlers())
		user := newFake("subject", "dev", 100, 10, 10, 0, 0, 10)
		ctx := baseCtx()
		move := &moves.Move{Type: "dev"}

		Convey("a well-formed stats.<field> path dispatches to SetField", func() {
			action := &moves.ModifyAction{Field: "stats.attack", Value: dsl.ConstInt(77)}
			ok, err := Modify(eng, action, user, user, &fakeLog{}, ctx, move)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(user.lastField, ShouldEqual, "stats.attack")
		})

		Convey("a malformed field path errors instead of dispatching", func() {
			action := &moves.ModifyAction{Field: "not_a_path", Value: dsl.ConstInt(1)}
			_, err := Modify(eng, action, user, user, &fakeLog{}, ctx, move)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestConditionHandler(t *testing.T) {
	Convey("Given a condition action gated on hp_below", t, func() {
		eng := moves.NewEngine(nil, fighters.DefaultTypeChart(), Handlers())
		user := newFake("low_hp", "dev", 10, 10, 10, 0, 0, 10)
		ctx := baseCtx()
		ctx.Flat = 5
		move := &moves.Move{Type: "none"}
		healAction := &moves.HealAction{}

		Convey("when the condition holds, nested actions run", func() {
			action := &moves.ConditionAction{
				Conditions: []moves.Condition{{Type: moves.CondHPBelow, Threshold: dsl.ConstInt(50)}},
				Actions:    moves.ActionList{healAction},
			}
			ok, err := ConditionHandler(eng, action, user, user, &fakeLog{}, ctx, move)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
		})

		Convey("when the condition fails, nested actions never run", func() {
			action := &moves.ConditionAction{
				Conditions: []moves.Condition{{Type: moves.CondHPAbove, Threshold: dsl.ConstInt(50)}},
				Actions:    moves.ActionList{healAction},
			}
			before := user.stats.HP
			ok, err := ConditionHandler(eng, action, user, user, &fakeLog{}, ctx, move)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
			So(user.stats.HP, ShouldEqual, before)
		})
	})
}

func TestRandomHandlerZeroWeight(t *testing.T) {
	Convey("Given a random action whose choices all carry zero weight", t, func() {
		eng := moves.NewEngine(nil, fighters.DefaultTypeChart(), Handlers())
		user := newFake("subject", "dev", 100, 10, 10, 0, 0, 10)
		ctx := baseCtx()
		move := &moves.Move{Type: "dev"}
		action := &moves.RandomAction{Choices: []moves.WeightedAction{{Action: &moves.HealAction{}, Weight: 0}}}

		Convey("the action fails rather than panicking", func() {
			ok, err := Random(eng, action, user, user, &fakeLog{}, ctx, move)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestRepeatHandler(t *testing.T) {
	Convey("Given a repeat action with count 3 wrapping a flat heal", t, func() {
		eng := moves.NewEngine(nil, fighters.DefaultTypeChart(), Handlers())
		user := newFake("subject", "dev", 10, 10, 10, 0, 0, 10)
		ctx := baseCtx()
		ctx.Flat = 5
		move := &moves.Move{Type: "none"}
		action := &moves.RepeatAction{Count: dsl.ConstInt(3), Actions: moves.ActionList{&moves.HealAction{}}}

		Convey("the nested heal runs three times", func() {
			ok, err := Repeat(eng, action, user, user, &fakeLog{}, ctx, move)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(user.stats.HP, ShouldEqual, 25)
		})
	})
}

func TestAdFactorSymmetry(t *testing.T) {
	Convey("Given equal attack and defense with no charge advantage", t, func() {
		Convey("the factor is 1.0", func() {
			So(adFactor(50, 50, 0, 0, 10), ShouldEqual, 1.0)
		})
	})
	Convey("Given attack greater than defense", t, func() {
		Convey("the factor exceeds 1.0", func() {
			So(adFactor(80, 50, 0, 0, 10), ShouldBeGreaterThan, 1.0)
		})
	})
	Convey("Given defense greater than attack", t, func() {
		Convey("the factor is below 1.0", func() {
			So(adFactor(50, 80, 0, 0, 10), ShouldBeLessThan, 1.0)
		})
	})
}
