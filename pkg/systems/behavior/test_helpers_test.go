package behavior

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/entities"
	"github.com/decker502/horde/pkg/game"
	"github.com/decker502/horde/pkg/systems"
	"github.com/jakecoffman/cp"
)

// testDT 固定帧时长
const testDT = 1.0 / 60

var testEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fakePlayer 固定位置的玩家
type fakePlayer struct {
	pos cp.Vector
}

func (p *fakePlayer) PlayerPosition() cp.Vector { return p.pos }

// fakeEffects 记录所有粒子效果调用
type fakeEffects struct {
	mu      sync.Mutex
	next    ecs.EntityID
	fires   int
	bloods  []int
	blasts  []int
	stopped []ecs.EntityID
}

func (f *fakeEffects) handle() ecs.EntityID {
	f.next++
	return 1000 + f.next
}

func (f *fakeEffects) SpawnFire(cp.Vector, ecs.EntityID) ecs.EntityID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fires++
	return f.handle()
}

func (f *fakeEffects) SpawnBlood(_ cp.Vector, count int) ecs.EntityID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bloods = append(f.bloods, count)
	return f.handle()
}

func (f *fakeEffects) SpawnExplosion(_ cp.Vector, count int) ecs.EntityID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blasts = append(f.blasts, count)
	return f.handle()
}

func (f *fakeEffects) SetEmitRate(handle ecs.EntityID, rate float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rate == 0 {
		f.stopped = append(f.stopped, handle)
	}
}

// fakeSound 记录播放的音效
type fakeSound struct {
	played []game.SoundKind
}

func (f *fakeSound) PlaySound(kind game.SoundKind, _ cp.Vector) {
	f.played = append(f.played, kind)
}

func (f *fakeSound) count(kind game.SoundKind) int {
	n := 0
	for _, k := range f.played {
		if k == kind {
			n++
		}
	}
	return n
}

// fakeNotifier 记录连击提示
type fakeNotifier struct {
	mu     sync.Mutex
	combos []int
}

func (f *fakeNotifier) ShowCombo(count int, _ cp.Vector) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.combos = append(f.combos, count)
}

// testWorld 一个完整的测试模拟环境
type testWorld struct {
	t         *testing.T
	em        *ecs.EntityManager
	state     *game.GameState
	player    *fakePlayer
	effects   *fakeEffects
	sound     *fakeSound
	notifier  *fakeNotifier
	clock     *game.MockTimeProvider
	combos    *systems.ComboTracker
	scheduler *systems.Scheduler
	cfg       *config.HazardConfig
	rng       *rand.Rand
	system    *BehaviorSystem
}

// newTestWorld 创建测试环境，玩家默认位于远处（不会被波及）
func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	w := &testWorld{
		t:        t,
		em:       ecs.NewEntityManager(),
		state:    game.NewGameState(),
		player:   &fakePlayer{pos: cp.Vector{X: 100, Y: 100}},
		effects:  &fakeEffects{},
		sound:    &fakeSound{},
		notifier: &fakeNotifier{},
		clock:    game.NewMockTimeProvider(testEpoch),
		cfg:      config.DefaultHazardConfig(),
		rng:      rand.New(rand.NewSource(1)),
	}
	w.combos = systems.NewComboTracker(w.em, w.state, w.notifier, w.clock, w.cfg.Combo)
	w.scheduler = systems.NewScheduler(w.em)
	w.system = NewBehaviorSystem(Deps{
		EntityManager: w.em,
		Scorer:        w.state,
		GameOver:      w.state,
		Player:        w.player,
		Effects:       w.effects,
		Sound:         w.sound,
		Notifier:      w.notifier,
		Combos:        w.combos,
		Scheduler:     w.scheduler,
		Config:        w.cfg,
	})
	return w
}

func (w *testWorld) spawn(variant string, x, y float64) ecs.EntityID {
	w.t.Helper()
	id, err := entities.NewHazard(w.em, w.cfg, w.rng, variant, cp.Vector{X: x, Y: y})
	if err != nil {
		w.t.Fatalf("spawn %s: %v", variant, err)
	}
	return id
}

// tick 按模拟驱动的顺序推进一帧
func (w *testWorld) tick() {
	w.scheduler.Advance(testDT)
	w.system.Update(testDT)
	w.system.CollectRemovable()
	w.em.RemoveMarkedEntities()
}

func (w *testWorld) ticks(n int) {
	for i := 0; i < n; i++ {
		w.tick()
	}
}

// seconds 推进约 d 秒
func (w *testWorld) seconds(d float64) {
	w.ticks(int(d*60 + 0.5))
}

func (w *testWorld) hazard(id ecs.EntityID) *components.HazardComponent {
	w.t.Helper()
	h, ok := ecs.GetComponent[*components.HazardComponent](w.em, id)
	if !ok {
		w.t.Fatalf("entity %v has no HazardComponent", id)
	}
	return h
}

func (w *testWorld) position(id ecs.EntityID) cp.Vector {
	w.t.Helper()
	p, ok := ecs.GetComponent[*components.PositionComponent](w.em, id)
	if !ok {
		w.t.Fatalf("entity %v has no PositionComponent", id)
	}
	return p.Vector
}

func (w *testWorld) detonator(id ecs.EntityID) *components.DetonatorComponent {
	w.t.Helper()
	d, ok := ecs.GetComponent[*components.DetonatorComponent](w.em, id)
	if !ok {
		w.t.Fatalf("entity %v has no DetonatorComponent", id)
	}
	return d
}
