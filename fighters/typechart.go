package fighters

// Types lists the fighter type enumeration. "none" is always neutral.
var Types = []string{"dev", "opti", "syst", "data", "proj", "team", "none"}

// TypeChart restores the rock-paper-scissors style effectiveness table the
// distilled spec left as a 1.0 placeholder. Grounded on
// original_source/config/type.py's TYPE_CHART shape, re-keyed to this
// fighter-type enumeration. Unlisted pairs, and anything involving "none",
// default to neutral (1.0).
type TypeChart struct {
	table map[string]map[string]float64
}

// DefaultTypeChart returns the built-in five-type effectiveness wheel: each
// type is strong against the next and weak against the previous, "team"
// and "none" stand outside the wheel as always-neutral.
func DefaultTypeChart() TypeChart {
	wheel := []string{"dev", "opti", "syst", "data", "proj"}
	table := make(map[string]map[string]float64, len(Types))
	for _, t := range Types {
		table[t] = make(map[string]float64)
	}
	for i, attacker := range wheel {
		strong := wheel[(i+1)%len(wheel)]
		weak := wheel[(i-1+len(wheel))%len(wheel)]
		table[attacker][strong] = 1.5
		table[attacker][weak] = 0.5
	}
	return TypeChart{table: table}
}

// Multiplier returns the effectiveness multiplier for attacker's type
// against defender's type, defaulting to 1.0 for any unlisted pair.
func (tc TypeChart) Multiplier(attacker, defender string) float64 {
	if attacker == "none" || defender == "none" {
		return 1.0
	}
	row, ok := tc.table[attacker]
	if !ok {
		return 1.0
	}
	if mult, ok := row[defender]; ok {
		return mult
	}
	return 1.0
}
