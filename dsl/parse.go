package dsl

import (
	"fmt"
	"strconv"
	"strings"
)

var bracketPairs = map[byte]byte{'(': ')', '[': ']', '{': '}'}

// Parse reads a single DSL expression string and returns either a literal
// Expr or one backed by a Sampler. Non-DSL strings pass through unchanged
// as string literals.
func Parse(s string) (Expr, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Expr{}, fmt.Errorf("dsl: empty expression")
	}

	if strings.HasPrefix(s, "v:") {
		inner, err := Parse(strings.TrimSpace(s[2:]))
		if err != nil {
			return Expr{}, err
		}
		val, err := inner.Resolve()
		if err != nil {
			return Expr{}, fmt.Errorf("dsl: eager prefix: %w", err)
		}
		return Literal(val), nil
	}

	if inner, ok, err := matchBracketed(s, "r"); ok {
		if err != nil {
			return Expr{}, err
		}
		return parseRange(inner, s)
	}
	if inner, ok, err := matchBracketed(s, "wl"); ok {
		if err != nil {
			return Expr{}, err
		}
		return parseWeightedList(inner, s)
	}
	if inner, ok, err := matchBracketed(s, "l"); ok {
		if err != nil {
			return Expr{}, err
		}
		return parseList(inner, s)
	}

	return parseLiteral(s), nil
}

// matchBracketed reports whether s is "<prefix><open>...<close>" for one of
// the three interchangeable bracket pairs, returning the inner text.
func matchBracketed(s, prefix string) (inner string, ok bool, err error) {
	if !strings.HasPrefix(s, prefix) {
		return "", false, nil
	}
	rest := s[len(prefix):]
	if rest == "" {
		return "", false, nil
	}
	open := rest[0]
	closeCh, isBracket := bracketPairs[open]
	if !isBracket {
		return "", false, nil
	}
	if rest[len(rest)-1] != closeCh {
		return "", true, fmt.Errorf("dsl: malformed bracketing in %q", s)
	}
	return rest[1 : len(rest)-1], true, nil
}

// splitTopLevel splits on commas that are not nested inside any bracket.
func splitTopLevel(s string) []string {
	var items []string
	depth := 0
	var cur strings.Builder
	for _, c := range s {
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
		if c == ',' && depth == 0 {
			items = append(items, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteRune(c)
	}
	if tail := strings.TrimSpace(cur.String()); tail != "" {
		items = append(items, tail)
	}
	return items
}

func parseRange(inner, original string) (Expr, error) {
	parts := splitTopLevel(inner)
	if len(parts) != 2 {
		return Expr{}, fmt.Errorf("dsl: range must have exactly 2 values: %s", original)
	}
	minExpr, err := Parse(parts[0])
	if err != nil {
		return Expr{}, err
	}
	maxExpr, err := Parse(parts[1])
	if err != nil {
		return Expr{}, err
	}
	minDom, maxDom := minExpr.Domain(), maxExpr.Domain()
	if !minDom.IsNumeric() || !maxDom.IsNumeric() {
		return Expr{}, fmt.Errorf("dsl: range endpoints must be numeric: %s", original)
	}
	for _, a := range minDom.Points() {
		for _, b := range maxDom.Points() {
			if a > b {
				return Expr{}, fmt.Errorf("dsl: range min %v exceeds max %v in %s", a, b, original)
			}
		}
	}
	return FromSampler(RangeSampler{Min: minExpr, Max: maxExpr}), nil
}

func parseList(inner, original string) (Expr, error) {
	parts := splitTopLevel(inner)
	if len(parts) == 0 {
		return Expr{}, fmt.Errorf("dsl: list cannot be empty: %s", original)
	}
	items := make([]Expr, len(parts))
	for i, p := range parts {
		e, err := Parse(p)
		if err != nil {
			return Expr{}, err
		}
		items[i] = e
	}
	if err := requireHomogeneous(items, original); err != nil {
		return Expr{}, err
	}
	return FromSampler(ListSampler{Items: items}), nil
}

func parseWeightedList(inner, original string) (Expr, error) {
	parts := splitTopLevel(inner)
	if len(parts) == 0 {
		return Expr{}, fmt.Errorf("dsl: weighted list cannot be empty: %s", original)
	}
	items := make([]Expr, len(parts))
	weights := make([]float64, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) < 2 || p[0] != '(' || p[len(p)-1] != ')' {
			return Expr{}, fmt.Errorf("dsl: weighted list item must be a (value, weight) pair: %s", p)
		}
		pair := splitTopLevel(p[1 : len(p)-1])
		if len(pair) != 2 {
			return Expr{}, fmt.Errorf("dsl: weighted list item must be a (value, weight) pair: %s", p)
		}
		valExpr, err := Parse(pair[0])
		if err != nil {
			return Expr{}, err
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(pair[1]), 64)
		if err != nil || w <= 0 {
			return Expr{}, fmt.Errorf("dsl: weighted list weight must be > 0: %s", p)
		}
		items[i] = valExpr
		weights[i] = w
	}
	if err := requireHomogeneous(items, original); err != nil {
		return Expr{}, err
	}
	return FromSampler(WeightedListSampler{Items: items, Weights: weights}), nil
}

func requireHomogeneous(items []Expr, original string) error {
	want := category(items[0])
	for _, it := range items[1:] {
		if category(it) != want {
			return fmt.Errorf("dsl: list items must be the same type: %s", original)
		}
	}
	return nil
}

func parseLiteral(s string) Expr {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Literal(IntValue(i))
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Literal(FloatValue(f))
	}
	return Literal(StringValue(s))
}
