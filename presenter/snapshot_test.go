package presenter

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"skirmish/battle"
	"skirmish/dsl"
	"skirmish/fighters"
)

func newVolatile(t *testing.T, id, typ string, hp int) *battle.FighterVolatile {
	t.Helper()
	base := &fighters.Fighter{
		ID:   id,
		Name: dsl.ConstString(id),
		Type: typ,
		Stats: fighters.FighterStats{
			HP:          dsl.ConstInt(int64(hp)),
			Attack:      dsl.ConstInt(10),
			Defense:     dsl.ConstInt(10),
			Shield:      dsl.ConstInt(0),
			Charge:      dsl.ConstInt(0),
			ChargeBonus: dsl.ConstFloat(1.0),
		},
	}
	fv, err := battle.NewFighterVolatile(base, nil)
	if err != nil {
		t.Fatalf("NewFighterVolatile: %v", err)
	}
	return fv
}

func TestConvert(t *testing.T) {
	Convey("Given a battle context with a pending log line", t, func() {
		hero := newVolatile(t, "hero", "dev", 100)
		villain := newVolatile(t, "villain", "opti", 100)
		ctx := battle.NewBattleContext([]*battle.FighterVolatile{hero}, []*battle.FighterVolatile{villain})
		ctx.Append("Battle started")

		Convey("Convert produces a snapshot mirroring both sides and drains the log", func() {
			snap := Convert(ctx)
			So(len(snap.SideA), ShouldEqual, 1)
			So(len(snap.SideB), ShouldEqual, 1)
			So(snap.SideA[0].ID, ShouldEqual, "hero")
			So(snap.Log, ShouldResemble, []string{"Battle started"})

			Convey("a second Convert with no new log lines returns an empty log", func() {
				snap2 := Convert(ctx)
				So(len(snap2.Log), ShouldEqual, 0)
			})
		})
	})
}

func TestPublisherSequenceNumbers(t *testing.T) {
	Convey("Given a publisher and a draining reader", t, func() {
		pub, ch := NewPublisher()
		hero := newVolatile(t, "hero", "dev", 100)
		villain := newVolatile(t, "villain", "opti", 100)
		ctx := battle.NewBattleContext([]*battle.FighterVolatile{hero}, []*battle.FighterVolatile{villain})

		received := make(chan BattleSnapshot, 2)
		go func() {
			received <- <-ch
			received <- <-ch
		}()

		Convey("each Push stamps a strictly increasing sequence number", func() {
			pub.Push(ctx)
			pub.Push(ctx)
			first := <-received
			second := <-received
			So(first.Seq, ShouldEqual, 1)
			So(second.Seq, ShouldEqual, 2)
		})
	})
}
