package behavior

import (
	"math"
	"testing"
	"time"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/game"
)

const epsilon = 1e-9

func TestCatchFireIsIdempotent(t *testing.T) {
	w := newTestWorld(t)
	a := w.spawn(config.VariantWalker, 0, 0)

	w.system.CatchFire(a)
	w.system.CatchFire(a)

	if !w.hazard(a).OnFire {
		t.Fatal("walker should be on fire")
	}
	if w.state.Score() != 1 || w.state.Currency() != 1 {
		t.Errorf("重复点燃只应计分一次: score=%d currency=%d", w.state.Score(), w.state.Currency())
	}
	if w.effects.fires != 1 {
		t.Errorf("Expected 1 fire effect, got %d", w.effects.fires)
	}
	if w.combos.ChainOf(a) != 0 {
		t.Error("ignited walker should join a combo chain")
	}
}

func TestCatchFireOnDeadIsNoop(t *testing.T) {
	w := newTestWorld(t)
	a := w.spawn(config.VariantWalker, 0, 0)
	w.system.Kill(a)
	score := w.state.Score()

	w.system.CatchFire(a)
	if w.hazard(a).OnFire {
		t.Error("dead walker must not catch fire")
	}
	if w.state.Score() != score {
		t.Error("igniting a dead walker must not award score")
	}
}

func TestKillWalker(t *testing.T) {
	w := newTestWorld(t)
	a := w.spawn(config.VariantWalker, 0, 0)

	w.system.MeleeHit(a)
	w.system.Kill(a)

	h := w.hazard(a)
	if h.Alive {
		t.Fatal("walker should be dead after bat hit")
	}
	if w.state.Score() != 1 || w.state.Currency() != 1 {
		t.Errorf("击杀只计分一次: score=%d currency=%d", w.state.Score(), w.state.Currency())
	}
	if len(w.effects.bloods) != 1 || w.effects.bloods[0] != w.cfg.Effects.BloodCount {
		t.Errorf("Expected one blood burst of %d, got %v", w.cfg.Effects.BloodCount, w.effects.bloods)
	}
	if w.sound.count(game.SoundBatHit) != 1 {
		t.Errorf("Expected 1 bat sound, got %d", w.sound.count(game.SoundBatHit))
	}
	rig, _ := ecs.GetComponent[*components.ArmRigComponent](w.em, a)
	if rig.Frozen == nil {
		t.Error("limbs should be frozen on death")
	}
}

func TestFireSpreadsAfterOneTick(t *testing.T) {
	tests := []struct {
		name    string
		variant string
	}{
		{"行走僵尸蔓延", config.VariantWalker},
		{"自爆僵尸蔓延", config.VariantDetonator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			src := w.spawn(tt.variant, 0, 0)
			near := w.spawn(config.VariantWalker, 0.5, 0)
			far := w.spawn(config.VariantWalker, 5, 0)

			w.system.CatchFire(src)
			if w.hazard(near).OnFire {
				t.Fatal("fire should not spread before a tick")
			}
			w.tick()

			if !w.hazard(near).OnFire {
				t.Error("neighbor within 1 unit should catch fire after one tick")
			}
			if w.hazard(far).OnFire {
				t.Error("distant walker must not catch fire")
			}
		})
	}
}

func TestProximityIgnitesFromBurningCorpse(t *testing.T) {
	w := newTestWorld(t)
	a := w.spawn(config.VariantWalker, 0, 0)
	w.system.CatchFire(a)
	w.hazard(a).Alive = false
	w.hazard(a).FireSpreadTimer = 0

	b := w.spawn(config.VariantWalker, 0.9, 0)
	w.tick()
	if !w.hazard(b).OnFire {
		t.Error("walker next to a burning corpse should catch fire")
	}
}

func TestWalkerBurnsOutAndFades(t *testing.T) {
	w := newTestWorld(t)
	a := w.spawn(config.VariantWalker, 0, 0)
	w.system.CatchFire(a)

	w.seconds(w.cfg.Walker.FireSpreadDuration + 0.1)
	h := w.hazard(a)
	if h.Alive {
		t.Fatal("walker should burn out once the spread timer expires")
	}
	if h.FireSpreadTimer != 0 {
		t.Errorf("FireSpreadTimer should clamp at 0, got %v", h.FireSpreadTimer)
	}

	prev := h.FadeTimer
	for i := 0; i < 600 && w.em.IsAlive(a); i++ {
		w.tick()
		if !w.em.IsAlive(a) {
			break
		}
		cur := w.hazard(a).FadeTimer
		if cur > prev || cur < 0 {
			t.Fatalf("FadeTimer must be non-increasing and >= 0: %v -> %v", prev, cur)
		}
		prev = cur
	}
	if w.em.IsAlive(a) {
		t.Fatal("faded walker should be removed")
	}
	if len(w.effects.stopped) == 0 {
		t.Error("fire effect should be stopped when the corpse fades out")
	}
}

func TestRemovableRequiresDeathAndFade(t *testing.T) {
	w := newTestWorld(t)
	alive := w.spawn(config.VariantWalker, 0, 0)
	fading := w.spawn(config.VariantWalker, 5, 0)
	done := w.spawn(config.VariantWalker, 10, 0)

	w.hazard(alive).FadeTimer = 0
	w.hazard(fading).Alive = false
	w.hazard(done).Alive = false
	w.hazard(done).FadeTimer = 0

	removed := w.system.CollectRemovable()
	if len(removed) != 1 || removed[0] != done {
		t.Fatalf("CollectRemovable() = %v, want [%v]", removed, done)
	}
	w.em.RemoveMarkedEntities()
	if !w.em.IsAlive(alive) || !w.em.IsAlive(fading) || w.em.IsAlive(done) {
		t.Error("only the dead, fully faded hazard should be removed")
	}
}

func TestSeekAndRepulsion(t *testing.T) {
	t.Run("追踪玩家", func(t *testing.T) {
		w := newTestWorld(t)
		w.player.pos.X, w.player.pos.Y = 0, 0
		a := w.spawn(config.VariantWalker, 10, 0)
		w.tick()
		if got := w.position(a); math.Abs(got.X-(10-w.cfg.Walker.Speed)) > epsilon || math.Abs(got.Y) > epsilon {
			t.Errorf("Expected (%.2f, 0), got %+v", 10-w.cfg.Walker.Speed, got)
		}
	})

	t.Run("相互排斥", func(t *testing.T) {
		w := newTestWorld(t)
		w.player.pos.X, w.player.pos.Y = 0, 100
		a := w.spawn(config.VariantWalker, 0, 0)
		b := w.spawn(config.VariantWalker, 0.5, 0)
		w.tick()
		if d := w.position(a).Distance(w.position(b)); d <= 0.5 {
			t.Errorf("walkers should push apart, distance %v", d)
		}
	})

	t.Run("定身不移动", func(t *testing.T) {
		w := newTestWorld(t)
		w.player.pos.X, w.player.pos.Y = 0, 0
		a := w.spawn(config.VariantWalker, 10, 0)
		w.system.Immobilize(a, 1)
		before := w.position(a)
		w.ticks(30)
		if w.position(a) != before {
			t.Error("immobilized walker must not move")
		}
	})
}

func TestThreeWalkersShareOneChain(t *testing.T) {
	w := newTestWorld(t)
	a := w.spawn(config.VariantWalker, 0, 0)
	b := w.spawn(config.VariantWalker, 0.3, 0)
	c := w.spawn(config.VariantWalker, 0.3, 0.3)

	w.system.CatchFire(a)
	w.tick()

	for _, id := range []ecs.EntityID{a, b, c} {
		if !w.hazard(id).OnFire {
			t.Fatalf("walker %v should be on fire", id)
		}
	}
	chains := w.combos.Chains()
	if len(chains) != 1 || len(chains[0].Members) != 3 {
		t.Fatalf("Expected one chain of 3, got %+v", chains)
	}

	w.clock.Advance(3 * time.Second)
	w.combos.Sweep(w.clock.Now())
	// 3 次点燃 + 连击 3 分
	if w.state.Score() != 6 {
		t.Errorf("Score = %d, want 6", w.state.Score())
	}
	if len(w.notifier.combos) != 1 || w.notifier.combos[0] != 3 {
		t.Errorf("Expected combo callout x3, got %v", w.notifier.combos)
	}
}

func TestSingleIgnitionChainDiscarded(t *testing.T) {
	w := newTestWorld(t)
	a := w.spawn(config.VariantWalker, 0, 0)
	w.system.CatchFire(a)

	w.clock.Advance(3 * time.Second)
	w.combos.Sweep(w.clock.Now())
	if w.state.Score() != 1 {
		t.Errorf("单成员链不计分: score=%d", w.state.Score())
	}
	if len(w.notifier.combos) != 0 {
		t.Errorf("single-member chain should not show a callout, got %v", w.notifier.combos)
	}
}

func TestGameOverFreezesSimulation(t *testing.T) {
	w := newTestWorld(t)
	w.player.pos.X, w.player.pos.Y = 0, 0
	a := w.spawn(config.VariantWalker, 10, 0)
	w.state.SetGameOver(true)

	before := w.position(a)
	w.ticks(10)
	if w.position(a) != before {
		t.Error("Update should be a no-op after game over")
	}
}

func TestImmobilizeTimeout(t *testing.T) {
	w := newTestWorld(t)
	a := w.spawn(config.VariantTendril, 0, 0)

	w.system.MeleeHit(a)
	h := w.hazard(a)
	if !h.Immobilized || h.Speed != 0 {
		t.Fatalf("bat hit should immobilize the tendril: %+v", h)
	}
	rig, _ := ecs.GetComponent[*components.TendrilRigComponent](w.em, a)
	if rig.Frozen == nil {
		t.Fatal("immobilized tendril should use a frozen pose")
	}

	// 定身期间再次定身无效
	w.system.Immobilize(a, 100)
	if w.scheduler.Pending() != 1 {
		t.Errorf("Expected 1 pending timeout, got %d", w.scheduler.Pending())
	}

	w.seconds(w.cfg.Immobilize.Duration + 0.1)
	if h.Immobilized {
		t.Fatal("immobilization should time out")
	}
	if h.Speed != h.BaseSpeed {
		t.Errorf("Speed should be restored to %v, got %v", h.BaseSpeed, h.Speed)
	}
	if rig.Frozen != nil {
		t.Error("limbs should be released after the timeout")
	}
}

func TestImmobilizeTimeoutAfterDeath(t *testing.T) {
	w := newTestWorld(t)
	a := w.spawn(config.VariantWalker, 0, 0)
	w.system.Immobilize(a, 1)
	w.system.Kill(a)

	w.seconds(1.5)
	h := w.hazard(a)
	if !h.Immobilized || h.Speed != 0 {
		t.Error("timeout must not revive or restore a dead walker")
	}
}

func TestStaleCallbackIsSkipped(t *testing.T) {
	w := newTestWorld(t)
	a := w.spawn(config.VariantWalker, 0, 0)
	w.system.Immobilize(a, 10)
	w.hazard(a).Alive = false
	w.hazard(a).FadeTimer = 0
	w.tick()
	if w.em.IsAlive(a) {
		t.Fatal("walker should be removed")
	}

	// 新实体复用同一槽位
	b := w.spawn(config.VariantWalker, 50, 50)
	if b.Index() != a.Index() {
		t.Fatalf("Expected slot reuse, got %v and %v", a, b)
	}
	w.system.Immobilize(b, 100)

	w.seconds(10.5)
	if w.scheduler.Pending() != 1 {
		t.Errorf("Expected only the new occupant's timeout pending, got %d", w.scheduler.Pending())
	}
	if !w.hazard(b).Immobilized {
		t.Error("stale callback must not release the new occupant")
	}
}
