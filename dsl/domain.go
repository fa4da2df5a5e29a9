package dsl

// Range is the symbolic (min, max) domain of a range sampler.
type Range struct {
	Min, Max float64
}

// Domain is the symbolic set of values an Expr can produce: discrete
// numbers, discrete strings, and/or numeric ranges (kept as tuples, never
// expanded), unioned together. check() walks Points() rather than sampling,
// since the linear comparisons it supports only ever fail at an endpoint.
type Domain struct {
	Numbers []float64
	Strings []string
	Ranges  []Range
}

func numberDomain(f float64) Domain { return Domain{Numbers: []float64{f}} }
func stringDomain(s string) Domain  { return Domain{Strings: []string{s}} }

// Merge returns the union of two domains.
func (d Domain) Merge(other Domain) Domain {
	out := Domain{}
	out.Numbers = append(append(out.Numbers, d.Numbers...), other.Numbers...)
	out.Strings = append(append(out.Strings, d.Strings...), other.Strings...)
	out.Ranges = append(append(out.Ranges, d.Ranges...), other.Ranges...)
	return out
}

// IsNumeric reports whether the domain describes numbers (as opposed to
// strings). A domain with no points at all is considered numeric trivially
// false; callers should check Points()/Strings() emptiness first.
func (d Domain) IsNumeric() bool { return len(d.Numbers) > 0 || len(d.Ranges) > 0 }

// Points returns every discrete numeric value in the domain plus each
// range's two endpoints - the full set check() needs to falsify a linear
// predicate.
func (d Domain) Points() []float64 {
	pts := make([]float64, 0, len(d.Numbers)+2*len(d.Ranges))
	pts = append(pts, d.Numbers...)
	for _, r := range d.Ranges {
		pts = append(pts, r.Min, r.Max)
	}
	return pts
}

// Bounds returns the overall (min, max) of every numeric point in the
// domain. ok is false if the domain has no numeric content.
func (d Domain) Bounds() (min, max float64, ok bool) {
	pts := d.Points()
	if len(pts) == 0 {
		return 0, 0, false
	}
	min, max = pts[0], pts[0]
	for _, p := range pts[1:] {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return min, max, true
}
