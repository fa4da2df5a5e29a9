/*
Skirmish is a small, content-driven turn-based combat engine: fighters,
moves, and battles are all data (see ./data), not code, and the engine is
responsible only for resolving a move against a target, advancing turn
order, and running a battle to completion. A battle can be watched live
through an optional websocket presenter bridge.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"skirmish/battle"
	"skirmish/config"
	"skirmish/fighters"
	"skirmish/moves"
	"skirmish/moves/actions"
	"skirmish/presenter"
	"skirmish/registry"
)

var flags *config.Flags

func init() {
	flags = config.RegisterFlags(flag.CommandLine)
	flag.Parse()
}

// buildRegistry wires the content systems in dependency order: moves have
// no dependencies, fighters reference move ids, items are a standalone
// catalogue, and battles reference fighter ids.
func buildRegistry(cfg config.Config) (*registry.Registry, error) {
	reg := registry.New(cfg.DataRoot)

	if err := reg.AddSpec("moves", "moves.json", moves.BuildMoveSet); err != nil {
		return nil, err
	}

	if err := reg.AddSpec("fighters", "fighters.json", fighters.BuildFighterSet(func(id string) bool {
		inst, err := reg.Get("moves")
		if err != nil {
			return false
		}
		return inst.(*moves.MoveSet).Has(id)
	})); err != nil {
		return nil, err
	}

	if err := reg.AddSpec("items", "items.json", fighters.BuildItemSet); err != nil {
		return nil, err
	}

	if err := reg.AddSpec("battle", "battle.json", battle.BuildBattles(func(id string) bool {
		inst, err := reg.Get("fighters")
		if err != nil {
			return false
		}
		_, ok := inst.(*fighters.FighterSet).Get(id)
		return ok
	})); err != nil {
		return nil, err
	}

	return reg, nil
}

// runBattle runs one battle to completion in auto mode, optionally
// publishing a BattleSnapshot after every step for the presenter bridge.
func runBattle(ctx context.Context, eng *battle.BattleEngine, bctx *battle.BattleContext, b *battle.Battle, pub *presenter.Publisher) error {
	eng.Start(bctx)
	if pub != nil {
		pub.Push(bctx)
	}

	for {
		ongoing, err := eng.Step(bctx, b, nil)
		if err != nil {
			return err
		}
		if pub != nil {
			pub.Push(bctx)
		}
		if !ongoing {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

func runApp() error {
	cfg := config.Resolve("./engine.yaml", flags)
	rand.Seed(cfg.Seed)

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	battlesInst, err := reg.Get("battle")
	if err != nil {
		return err
	}
	battles := battlesInst.(map[string]*battle.Battle)

	fightersInst, err := reg.Get("fighters")
	if err != nil {
		return err
	}
	fighterSet := fightersInst.(*fighters.FighterSet)

	itemsInst, err := reg.Get("items")
	if err != nil {
		return err
	}
	itemSet := itemsInst.(*fighters.ItemSet)

	movesInst, err := reg.Get("moves")
	if err != nil {
		return err
	}
	moveSet := movesInst.(*moves.MoveSet)

	moveEngine := moves.NewEngine(moveSet, fighters.DefaultTypeChart(), actions.Handlers())

	b, ok := battles[cfg.BattleID]
	if !ok {
		return fmt.Errorf("skirmish: no battle %q defined in content", cfg.BattleID)
	}
	if cfg.MaxTurns > 0 {
		b.MaxTurns = cfg.MaxTurns
	}

	sideA, sideB, err := battle.BuildSides(b, fighterSet, itemSet)
	if err != nil {
		return err
	}
	bctx := battle.NewBattleContext(sideA, sideB)

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	beng := battle.NewBattleEngine(moveEngine, battle.ModeAuto, nil)

	if cfg.Presenter {
		pub, updates := presenter.NewPublisher()
		defer pub.Close()

		srv := presenter.NewServer(cfg.Host+":"+cfg.Port, updates)
		go func() {
			if err := srv.Serve(appCtx); err != nil {
				log.Println("skirmish: presenter server:", err)
			}
		}()

		return runBattle(appCtx, beng, bctx, b, pub)
	}

	return runBattle(appCtx, beng, bctx, b, nil)
}

func main() {
	if err := runApp(); err != nil {
		fmt.Println(err)
	}
}
