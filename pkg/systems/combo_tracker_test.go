package systems

import (
	"context"
	"testing"
	"time"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/game"
	"github.com/jakecoffman/cp"
)

func newTestTracker() (*ComboTracker, *ecs.EntityManager, *recordingScorer, *recordingNotifier, *game.MockTimeProvider) {
	em := ecs.NewEntityManager()
	scorer := &recordingScorer{}
	notifier := &recordingNotifier{}
	clock := game.NewMockTimeProvider(time.Unix(1000, 0))
	tracker := NewComboTracker(em, scorer, notifier, clock, config.DefaultHazardConfig().Combo)
	return tracker, em, scorer, notifier, clock
}

func placeEntity(em *ecs.EntityManager, x, y float64) ecs.EntityID {
	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{Vector: cp.Vector{X: x, Y: y}})
	return id
}

func TestComboTrackerSingleMemberDiscarded(t *testing.T) {
	tracker, em, scorer, notifier, clock := newTestTracker()

	a := placeEntity(em, 0, 0)
	tracker.Join(a, cp.Vector{X: 0, Y: 0})

	clock.Advance(2999 * time.Millisecond)
	if n := tracker.Sweep(clock.Now()); n != 0 {
		t.Fatalf("窗口未到不应结算, got %d", n)
	}

	clock.Advance(time.Millisecond)
	if n := tracker.Sweep(clock.Now()); n != 1 {
		t.Fatalf("3 秒时应结算, got %d", n)
	}
	if scorer.Score() != 0 || len(notifier.Calls()) != 0 {
		t.Errorf("单成员链应静默丢弃: score=%d calls=%v", scorer.Score(), notifier.Calls())
	}
	if len(tracker.Chains()) != 0 {
		t.Error("结算后的链应被移除")
	}
}

func TestComboTrackerNearbyJoinSameChain(t *testing.T) {
	tracker, em, scorer, notifier, clock := newTestTracker()

	a := placeEntity(em, 0, 0)
	b := placeEntity(em, 0.5, 0)
	c := placeEntity(em, 0.9, 0.3)
	far := placeEntity(em, 5, 5)

	tracker.Join(a, cp.Vector{X: 0, Y: 0})
	tracker.Join(b, cp.Vector{X: 0.5, Y: 0})
	tracker.Join(c, cp.Vector{X: 0.9, Y: 0.3})
	tracker.Join(far, cp.Vector{X: 5, Y: 5})

	chains := tracker.Chains()
	if len(chains) != 2 {
		t.Fatalf("expected 2 chains, got %d", len(chains))
	}
	if tracker.ChainOf(a) != tracker.ChainOf(b) || tracker.ChainOf(b) != tracker.ChainOf(c) {
		t.Error("相邻实体应在同一条链中")
	}
	if tracker.ChainOf(far) == tracker.ChainOf(a) {
		t.Error("远处实体应开启新链")
	}
	if chains[0].LastPosition != (cp.Vector{X: 0.9, Y: 0.3}) {
		t.Errorf("链的最后位置应为最后加入的成员, got %v", chains[0].LastPosition)
	}

	clock.Advance(3 * time.Second)
	tracker.Sweep(clock.Now())

	if scorer.Score() != 3 {
		t.Errorf("3 成员链应得 3 分, got %d", scorer.Score())
	}
	calls := notifier.Calls()
	if len(calls) != 1 || calls[0].count != 3 {
		t.Fatalf("应只有一次 3 连击提示, got %v", calls)
	}
	if calls[0].pos != (cp.Vector{X: 0.9, Y: 0.3}) {
		t.Errorf("提示位置应为链的最后位置, got %v", calls[0].pos)
	}

	// 再次结算不会重复计分
	clock.Advance(time.Second)
	tracker.Sweep(clock.Now())
	if scorer.Score() != 3 {
		t.Errorf("已结算的链不应再次计分, got %d", scorer.Score())
	}
}

func TestComboTrackerDistanceThresholdExclusive(t *testing.T) {
	tracker, em, _, _, _ := newTestTracker()

	a := placeEntity(em, 0, 0)
	b := placeEntity(em, 1, 0)
	tracker.Join(a, cp.Vector{X: 0, Y: 0})
	tracker.Join(b, cp.Vector{X: 1, Y: 0})

	if tracker.ChainOf(a) == tracker.ChainOf(b) {
		t.Error("距离恰好为 1 不应加入同一条链")
	}
}

func TestComboTrackerRun(t *testing.T) {
	em := ecs.NewEntityManager()
	scorer := &recordingScorer{}
	cfg := config.DefaultHazardConfig().Combo
	cfg.Window = 0.01
	cfg.SweepInterval = 0.005
	tracker := NewComboTracker(em, scorer, nil, game.NewTimeProvider(), cfg)

	a := placeEntity(em, 0, 0)
	b := placeEntity(em, 0.2, 0)
	tracker.Join(a, cp.Vector{})
	tracker.Join(b, cp.Vector{X: 0.2})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tracker.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for scorer.Score() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if scorer.Score() != 2 {
		t.Errorf("后台结算应得 2 分, got %d", scorer.Score())
	}
}
