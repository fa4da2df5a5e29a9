package dsl

import (
	"fmt"
	"math/rand"
)

// Sampler is a zero-arg producer of a Value with an attached symbolic
// Domain, so the domain travels with the sampler for static check().
type Sampler interface {
	Sample() (Value, error)
	Domain() Domain
}

// Expr is either a literal Value or a deferred Sampler. Exactly one of the
// two is set.
type Expr struct {
	lit *Value
	s   Sampler
}

// Literal wraps a concrete value as an already-resolved expression.
func Literal(v Value) Expr { return Expr{lit: &v} }

// FromSampler wraps a deferred sampler as an expression.
func FromSampler(s Sampler) Expr { return Expr{s: s} }

// IsEager reports whether the expression is a literal (including a "v:"
// value resolved once at parse time), as opposed to a sampler that yields
// a fresh value on every Resolve.
func (e Expr) IsEager() bool { return e.lit != nil }

// Resolve returns the expression's value: the literal, or a fresh sample.
func (e Expr) Resolve() (Value, error) {
	if e.lit != nil {
		return *e.lit, nil
	}
	if e.s == nil {
		return Value{}, fmt.Errorf("dsl: empty expression")
	}
	return e.s.Sample()
}

// Domain returns the expression's symbolic domain.
func (e Expr) Domain() Domain {
	if e.lit != nil {
		if e.lit.IsNumeric() {
			return numberDomain(e.lit.Number())
		}
		return stringDomain(e.lit.Str)
	}
	if e.s == nil {
		return Domain{}
	}
	return e.s.Domain()
}

// category classifies an expression's domain as "number" or "string", used
// to enforce list/weighted-list homogeneity without actually sampling.
func category(e Expr) string {
	d := e.Domain()
	if d.IsNumeric() {
		return "number"
	}
	if len(d.Strings) > 0 {
		return "string"
	}
	return "unknown"
}

// RangeSampler draws uniformly between two (possibly nested) endpoints.
type RangeSampler struct {
	Min, Max Expr
}

func (r RangeSampler) Sample() (Value, error) {
	minV, err := r.Min.Resolve()
	if err != nil {
		return Value{}, err
	}
	maxV, err := r.Max.Resolve()
	if err != nil {
		return Value{}, err
	}
	a, b := minV.Number(), maxV.Number()
	if a > b {
		return Value{}, fmt.Errorf("dsl: range min %v exceeds max %v", a, b)
	}
	return FloatValue(a + rand.Float64()*(b-a)), nil
}

func (r RangeSampler) Domain() Domain {
	minMin, _, _ := r.Min.Domain().Bounds()
	_, maxMax, _ := r.Max.Domain().Bounds()
	return Domain{Ranges: []Range{{Min: minMin, Max: maxMax}}}
}

// ListSampler draws uniformly among its items.
type ListSampler struct {
	Items []Expr
}

func (l ListSampler) Sample() (Value, error) {
	if len(l.Items) == 0 {
		return Value{}, fmt.Errorf("dsl: empty list")
	}
	return l.Items[rand.Intn(len(l.Items))].Resolve()
}

func (l ListSampler) Domain() Domain {
	var d Domain
	for _, it := range l.Items {
		d = d.Merge(it.Domain())
	}
	return d
}

// WeightedListSampler draws among its items proportional to weight.
type WeightedListSampler struct {
	Items   []Expr
	Weights []float64
}

func (w WeightedListSampler) Sample() (Value, error) {
	total := 0.0
	for _, wt := range w.Weights {
		total += wt
	}
	if total <= 0 {
		return Value{}, fmt.Errorf("dsl: weighted list total weight is 0")
	}
	pick := rand.Float64() * total
	acc := 0.0
	for i, wt := range w.Weights {
		acc += wt
		if pick <= acc {
			return w.Items[i].Resolve()
		}
	}
	return w.Items[len(w.Items)-1].Resolve()
}

func (w WeightedListSampler) Domain() Domain {
	var d Domain
	for _, it := range w.Items {
		d = d.Merge(it.Domain())
	}
	return d
}

func IntConst(i int64) Expr    { return Literal(IntValue(i)) }
func FloatConst(f float64) Expr { return Literal(FloatValue(f)) }
func StringConst(s string) Expr { return Literal(StringValue(s)) }
