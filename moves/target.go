package moves

import (
	"skirmish/dsl"
	"skirmish/fighters"
)

// Target is the interface action handlers mutate. It is satisfied by
// battle.FighterVolatile; defining it here (rather than importing the
// battle package) keeps moves free of a moves -> battle -> moves cycle,
// since the battle engine itself must import moves to drive execution.
type Target interface {
	Alive() bool
	Stats() fighters.ConcreteStats
	BuffedMax() fighters.ConcreteStats
	Type() string
	Name() string
	TakeDamage(amount int) int
	AddStat(stat string, delta int) int
	AddBuff(b fighters.Buff)
	HasStatus(id string) bool
	AddStatus(s fighters.Status)
	RemoveStatus(id string)
	SetField(path string, value dsl.Value) error
}

// Log is the narrative log stack a battle exposes to action handlers.
type Log interface {
	Append(line string)
}
