package behavior

import (
	"testing"

	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/game"
)

func TestExplosionRadiusBoundary(t *testing.T) {
	w := newTestWorld(t)
	det := w.spawn(config.VariantDetonator, 0, 0)
	outside := w.spawn(config.VariantWalker, 10, 0)
	inside := w.spawn(config.VariantWalker, 4, 0)
	edge := w.spawn(config.VariantWalker, 0, 4.3)

	w.system.Explode(det)

	if !w.hazard(inside).OnFire {
		t.Error("walker at distance 4 should be ignited")
	}
	if w.hazard(outside).OnFire {
		t.Error("walker at distance 10 must not be affected")
	}
	if w.hazard(edge).OnFire {
		t.Error("walker exactly on the radius must not be affected")
	}
	// 1 次点燃，不足连击阈值
	if w.state.Score() != 1 {
		t.Errorf("Score = %d, want 1", w.state.Score())
	}
	if len(w.notifier.combos) != 0 {
		t.Errorf("no combo callout expected, got %v", w.notifier.combos)
	}
}

func TestExplosionCombo(t *testing.T) {
	tests := []struct {
		name      string
		positions [][2]float64
		wantScore int
		wantCombo []int
	}{
		{
			name:      "三个波及计连击",
			positions: [][2]float64{{2, 0}, {0, 2}, {-2, 0}},
			wantScore: 3 + 3,
			wantCombo: []int{3},
		},
		{
			name:      "两个波及不计连击",
			positions: [][2]float64{{2, 0}, {-2, 0}},
			wantScore: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			det := w.spawn(config.VariantDetonator, 0, 0)
			for _, p := range tt.positions {
				w.spawn(config.VariantWalker, p[0], p[1])
			}

			w.system.Explode(det)

			if w.state.Score() != tt.wantScore {
				t.Errorf("Score = %d, want %d", w.state.Score(), tt.wantScore)
			}
			if len(w.notifier.combos) != len(tt.wantCombo) {
				t.Fatalf("combos = %v, want %v", w.notifier.combos, tt.wantCombo)
			}
			for i := range tt.wantCombo {
				if w.notifier.combos[i] != tt.wantCombo[i] {
					t.Errorf("combos = %v, want %v", w.notifier.combos, tt.wantCombo)
				}
			}
		})
	}
}

func TestExplosionCountsChainedTendrils(t *testing.T) {
	w := newTestWorld(t)
	det := w.spawn(config.VariantDetonator, 0, 0)
	// 间距小于蔓延半径，第一条被点燃时会连锁烧掉另外两条
	tendrils := []ecs.EntityID{
		w.spawn(config.VariantTendril, 2, 0),
		w.spawn(config.VariantTendril, 2.5, 0),
		w.spawn(config.VariantTendril, 3, 0),
	}

	affected := w.system.ResolveExplosion(det, w.position(det))

	if affected != 3 {
		t.Errorf("affected = %d, want 3", affected)
	}
	for i, id := range tendrils {
		if h := w.hazard(id); h.Alive || !h.OnFire {
			t.Errorf("tendril %d should be burned, got alive=%v onFire=%v", i, h.Alive, h.OnFire)
		}
	}
	if len(w.notifier.combos) != 1 || w.notifier.combos[0] != 3 {
		t.Errorf("combos = %v, want [3]", w.notifier.combos)
	}
	// 每条点燃 1 分 + 连击 3 分
	if w.state.Score() != 6 {
		t.Errorf("Score = %d, want 6", w.state.Score())
	}
}

func TestExplosionSkipsDeadAndCountsBurning(t *testing.T) {
	w := newTestWorld(t)
	det := w.spawn(config.VariantDetonator, 0, 0)
	dead := w.spawn(config.VariantWalker, 1, 0)
	burning := w.spawn(config.VariantWalker, 0, 3)
	w.system.Kill(dead)
	w.system.CatchFire(burning)

	affected := w.system.ResolveExplosion(det, w.position(det))
	if affected != 1 {
		t.Errorf("affected = %d, want 1 (dead excluded, burning counted)", affected)
	}
	if w.hazard(dead).OnFire {
		t.Error("dead walker must not be ignited by an explosion")
	}
}

func TestExplosionKillsPlayerInRadius(t *testing.T) {
	w := newTestWorld(t)
	w.player.pos.X, w.player.pos.Y = 1, 0
	det := w.spawn(config.VariantDetonator, 0, 0)

	w.system.Explode(det)
	if !w.state.IsGameOver() {
		t.Error("player inside the blast radius should die even with nothing else affected")
	}
}

func TestExplosionSparesPlayerOnRadius(t *testing.T) {
	w := newTestWorld(t)
	w.player.pos.X, w.player.pos.Y = 4.3, 0
	det := w.spawn(config.VariantDetonator, 0, 0)

	w.system.Explode(det)
	if w.state.IsGameOver() {
		t.Error("player exactly on the radius should survive")
	}
}

func TestExplodeOnce(t *testing.T) {
	w := newTestWorld(t)
	det := w.spawn(config.VariantDetonator, 0, 0)

	w.system.Explode(det)
	w.system.Explode(det)

	if w.sound.count(game.SoundExplode) != 1 {
		t.Errorf("Expected 1 explosion sound, got %d", w.sound.count(game.SoundExplode))
	}
	if len(w.effects.blasts) != 1 || w.effects.blasts[0] != w.cfg.Detonator.Explosion.ParticleCount {
		t.Errorf("Expected one explosion of %d particles, got %v", w.cfg.Detonator.Explosion.ParticleCount, w.effects.blasts)
	}
	if w.state.Currency() != 1 {
		t.Errorf("Currency = %d, want 1", w.state.Currency())
	}
	d := w.detonator(det)
	if !d.Exploded || !d.Exploding || d.Flickering {
		t.Errorf("unexpected detonator state after explosion: %+v", d)
	}
	if w.hazard(det).Alive {
		t.Error("detonator should be dead after exploding")
	}
}

func TestExplosionCooldown(t *testing.T) {
	w := newTestWorld(t)
	det := w.spawn(config.VariantDetonator, 0, 0)
	w.system.Explode(det)

	w.ticks(30)
	if !w.detonator(det).Exploding {
		t.Fatal("detonator should still be in its cooling display")
	}

	w.seconds(w.cfg.Detonator.CoolingDuration)
	if w.state.Currency() != 2 {
		t.Errorf("Currency = %d, want 2 after cooling", w.state.Currency())
	}
	if len(w.effects.stopped) < 2 {
		t.Errorf("blood and explosion effects should be stopped, got %v", w.effects.stopped)
	}
	w.ticks(5)
	if w.em.IsAlive(det) {
		t.Error("detonator should be removed once cooled down")
	}
}

func TestExplodeIgnoresOtherVariants(t *testing.T) {
	w := newTestWorld(t)
	a := w.spawn(config.VariantWalker, 0, 0)
	w.system.Explode(a)
	if !w.hazard(a).Alive {
		t.Error("Explode should be a no-op for walkers")
	}
}
