package dsl

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseLiterals(t *testing.T) {
	Convey("Given plain scalar literals", t, func() {
		Convey("An integer parses as KindInt", func() {
			e, err := Parse("42")
			So(err, ShouldBeNil)
			v, err := e.Resolve()
			So(err, ShouldBeNil)
			So(v.Kind, ShouldEqual, KindInt)
			So(v.Int, ShouldEqual, 42)
		})

		Convey("A decimal parses as KindFloat", func() {
			e, err := Parse("0.8")
			So(err, ShouldBeNil)
			v, err := e.Resolve()
			So(err, ShouldBeNil)
			So(v.Kind, ShouldEqual, KindFloat)
			So(v.Float, ShouldEqual, 0.8)
		})

		Convey("A bare string passes through unchanged", func() {
			e, err := Parse("opponent")
			So(err, ShouldBeNil)
			v, err := e.Resolve()
			So(err, ShouldBeNil)
			So(v.Str, ShouldEqual, "opponent")
		})
	})
}

func TestParseRange(t *testing.T) {
	Convey("Given a range expression", t, func() {
		e, err := Parse("r[0,10]")
		So(err, ShouldBeNil)

		Convey("Every sample falls within bounds", func() {
			for i := 0; i < 50; i++ {
				v, err := e.Resolve()
				So(err, ShouldBeNil)
				So(v.Number(), ShouldBeBetween, -0.001, 10.001)
			}
		})

		Convey("An inverted range fails to parse", func() {
			_, err := Parse("r[10,0]")
			So(err, ShouldNotBeNil)
		})

		Convey("Interchangeable brackets are accepted", func() {
			e2, err := Parse("r(0,10)")
			So(err, ShouldBeNil)
			v, err := e2.Resolve()
			So(err, ShouldBeNil)
			So(v.Number(), ShouldBeBetween, -0.001, 10.001)
		})

		Convey("Mismatched brackets are rejected", func() {
			_, err := Parse("r[0,10)")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestParseListAndWeightedList(t *testing.T) {
	Convey("Given a uniform list", t, func() {
		e, err := Parse("l[1,2,3]")
		So(err, ShouldBeNil)
		v, err := e.Resolve()
		So(err, ShouldBeNil)
		So(v.Number(), ShouldBeIn, []float64{1, 2, 3})
	})

	Convey("Given a heterogeneous list", t, func() {
		_, err := Parse("l[1,two]")
		So(err, ShouldNotBeNil)
	})

	Convey("Given a weighted list with one entry", t, func() {
		e, err := Parse("wl[(5,1)]")
		So(err, ShouldBeNil)
		v, err := e.Resolve()
		So(err, ShouldBeNil)
		So(v.Number(), ShouldEqual, 5)
	})

	Convey("A non-positive weight is rejected", t, func() {
		_, err := Parse("wl[(5,0)]")
		So(err, ShouldNotBeNil)
	})
}

func TestEagerPrefix(t *testing.T) {
	Convey("Given a v: prefixed range", t, func() {
		e, err := Parse("v:r[1,1]")
		So(err, ShouldBeNil)

		Convey("It resolves to the same frozen value every time", func() {
			So(e.IsEager(), ShouldBeTrue)
			v1, _ := e.Resolve()
			v2, _ := e.Resolve()
			So(v1.Number(), ShouldEqual, v2.Number())
		})
	})
}

func TestCheck(t *testing.T) {
	Convey("Given a range's domain", t, func() {
		e, err := Parse("r[0,10]")
		So(err, ShouldBeNil)
		dom := e.Domain()

		Convey("A predicate that holds across the domain succeeds", func() {
			err := Check(map[string]Domain{"x": dom}, func(v map[string]float64) bool {
				return v["x"] >= 0 && v["x"] <= 10
			})
			So(err, ShouldBeNil)
		})

		Convey("A predicate violated at an endpoint fails", func() {
			e2, err := Parse("r[20,30]")
			So(err, ShouldBeNil)
			err = Check(map[string]Domain{"x": e2.Domain()}, func(v map[string]float64) bool {
				return v["x"] < 10
			})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestResolvableJSONRoundTrip(t *testing.T) {
	Convey("Given a DSL string field", t, func() {
		var r Resolvable
		err := r.UnmarshalJSON([]byte(`"r[1,5]"`))
		So(err, ShouldBeNil)

		Convey("Marshaling reproduces the original DSL text", func() {
			out, err := r.MarshalJSON()
			So(err, ShouldBeNil)
			So(string(out), ShouldEqual, `"r[1,5]"`)
		})
	})

	Convey("Given a plain numeric field", t, func() {
		var r Resolvable
		err := r.UnmarshalJSON([]byte(`80`))
		So(err, ShouldBeNil)
		v, err := r.Resolve()
		So(err, ShouldBeNil)
		So(v.Kind, ShouldEqual, KindInt)
		So(v.Int, ShouldEqual, 80)
	})
}
