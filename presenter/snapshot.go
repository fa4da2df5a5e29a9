// Package presenter bridges a running battle to a web client: a read-only
// state snapshot and the narrative log stack, pushed over websocket after
// every step(), built on the fastview client and a strict
// data-model-to-view-model conversion split.
package presenter

import (
	"skirmish/atomicstate"
	"skirmish/battle"
)

// FighterSnapshot is the read-only view-model of one FighterVolatile,
// carrying only what a client needs to render - never the live pointer.
type FighterSnapshot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	HP       int    `json:"hp"`
	MaxHP    int    `json:"maxHp"`
	Attack   int    `json:"attack"`
	Defense  int    `json:"defense"`
	Shield   int    `json:"shield"`
	Charge   int    `json:"charge"`
	Alive    bool   `json:"alive"`
	Statuses []string `json:"statuses,omitempty"`
}

// BattleSnapshot is the full read-only view-model of a BattleContext at a
// point in time, published after each Step().
type BattleSnapshot struct {
	Seq                int64             `json:"seq"`
	Turn               int               `json:"turn"`
	ActiveFighterIndex int               `json:"activeFighterIndex"`
	SideA              []FighterSnapshot `json:"sideA"`
	SideB              []FighterSnapshot `json:"sideB"`
	Log                []string          `json:"log"`
}

func convertSide(side []*battle.FighterVolatile) []FighterSnapshot {
	out := make([]FighterSnapshot, 0, len(side))
	for _, fv := range side {
		var statuses []string
		for _, s := range fv.Statuses() {
			statuses = append(statuses, s.ID)
		}
		out = append(out, FighterSnapshot{
			ID:       fv.Base.ID,
			Name:     fv.Name(),
			Type:     fv.Type(),
			HP:       fv.Stats().HP,
			MaxHP:    fv.BuffedMax().HP,
			Attack:   fv.Stats().Attack,
			Defense:  fv.Stats().Defense,
			Shield:   fv.Stats().Shield,
			Charge:   fv.Stats().Charge,
			Alive:    fv.Alive(),
			Statuses: statuses,
		})
	}
	return out
}

// Convert transforms a BattleContext into its view-model snapshot, draining
// and attaching whatever log lines have accumulated since the last call -
// keeping the data model and its view-model strictly separate.
func Convert(ctx *battle.BattleContext) BattleSnapshot {
	return BattleSnapshot{
		Turn:               ctx.Turn,
		ActiveFighterIndex: ctx.ActiveFighterIndex,
		SideA:              convertSide(ctx.Sides[0]),
		SideB:              convertSide(ctx.Sides[1]),
		Log:                ctx.GetNextLogs(),
	}
}

// publishBuffer bounds how many snapshots can queue ahead of a connected
// (or not-yet-connected) websocket client before Push starts dropping them
// - the battle itself must never stall waiting on a viewer.
const publishBuffer = 32

// Publisher tags each snapshot with a monotonic sequence number before
// forwarding it, so a client can detect a dropped or out-of-order update
// even though the underlying websocket client discards updates received
// faster than its publish rate.
type Publisher struct {
	seq *atomicstate.Counter
	out chan BattleSnapshot
}

// NewPublisher returns a Publisher and the channel its snapshots arrive on;
// pass the channel to presenter.NewServer.
func NewPublisher() (*Publisher, <-chan BattleSnapshot) {
	ch := make(chan BattleSnapshot, publishBuffer)
	return &Publisher{seq: atomicstate.NewCounter(0), out: ch}, ch
}

// Push converts ctx and sends it, stamped with the next sequence number.
// The send never blocks the driving battle loop: once publishBuffer
// snapshots are queued with nothing draining them, further pushes are
// dropped rather than stalling the battle on a viewer that may never
// connect.
func (p *Publisher) Push(ctx *battle.BattleContext) BattleSnapshot {
	snap := Convert(ctx)
	snap.Seq = p.seq.Next()
	select {
	case p.out <- snap:
	default:
	}
	return snap
}

// Close releases the publisher's channel.
func (p *Publisher) Close() { close(p.out) }
