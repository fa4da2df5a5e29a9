package dsl

import "fmt"

// Check tests a boolean predicate across the Cartesian product of each
// named variable's domain points. Because the predicates schema validators
// express are linear comparisons, a violation at any domain value must show
// up at one of its range endpoints, so walking Points() rather than
// sampling is sufficient and deterministic.
func Check(vars map[string]Domain, pred func(vals map[string]float64) bool) error {
	names := make([]string, 0, len(vars))
	pointSets := make([][]float64, 0, len(vars))
	for name, d := range vars {
		pts := d.Points()
		if len(pts) == 0 {
			return fmt.Errorf("dsl: check: %q has no numeric domain", name)
		}
		names = append(names, name)
		pointSets = append(pointSets, pts)
	}

	combo := make([]float64, len(names))
	var rec func(i int) error
	rec = func(i int) error {
		if i == len(names) {
			vals := make(map[string]float64, len(names))
			for j, n := range names {
				vals[n] = combo[j]
			}
			if !pred(vals) {
				return fmt.Errorf("dsl: check failed for %v", vals)
			}
			return nil
		}
		for _, p := range pointSets[i] {
			combo[i] = p
			if err := rec(i + 1); err != nil {
				return err
			}
		}
		return nil
	}
	return rec(0)
}

// CheckMembership verifies value is one of allowed.
func CheckMembership(field, value string, allowed []string) error {
	for _, a := range allowed {
		if a == value {
			return nil
		}
	}
	return fmt.Errorf("dsl: %s: %q is not one of %v", field, value, allowed)
}
