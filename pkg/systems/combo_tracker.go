package systems

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/game"
	"github.com/jakecoffman/cp"
	"github.com/zyedidia/generic/mapset"
)

// ComboChain 一组在时间窗口内相邻起火的危险实体
// 成员集合只增不减，直到结算；结算后链被丢弃
type ComboChain struct {
	members      mapset.Set[ecs.EntityID]
	startTime    time.Time
	lastPosition cp.Vector
}

// ChainSnapshot 连击链的只读快照（调试与测试用）
type ChainSnapshot struct {
	Members      []ecs.EntityID
	StartTime    time.Time
	LastPosition cp.Vector
}

// ComboTracker 连击链追踪器
//
// 实体起火时调用 Join 加入最近的链或开启新链；后台按固定的真实时间周期
// 调用 Sweep 结算到期的链。Join 在主循环中调用，Sweep 可能在另一个
// goroutine 中运行，链集合由互斥锁保护。结算时链先在锁内移除再计分，
// 同一条链不会被结算两次。
type ComboTracker struct {
	entityManager *ecs.EntityManager
	scorer        game.Scorer
	notifier      game.ComboNotifier
	clock         game.Clock

	mu     sync.Mutex
	chains []*ComboChain
	cfg    config.ComboConfig
}

// NewComboTracker 创建连击链追踪器
func NewComboTracker(em *ecs.EntityManager, scorer game.Scorer, notifier game.ComboNotifier, clock game.Clock, cfg config.ComboConfig) *ComboTracker {
	if clock == nil {
		clock = game.NewTimeProvider()
	}
	return &ComboTracker{
		entityManager: em,
		scorer:        scorer,
		notifier:      notifier,
		clock:         clock,
		cfg:           cfg,
	}
}

// SetConfig 热更新连击参数
func (ct *ComboTracker) SetConfig(cfg config.ComboConfig) {
	ct.mu.Lock()
	ct.cfg = cfg
	ct.mu.Unlock()
}

// Join 将刚起火的实体加入最近的连击链
//
// 在所有活跃链的成员中寻找与 pos 距离最近且小于阈值的成员；
// 找到则加入该链并更新链的最后位置，否则以该实体开启新链。
// 成员位置取其当前位置，已被移除的成员不参与距离比较。
func (ct *ComboTracker) Join(id ecs.EntityID, pos cp.Vector) {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	var nearest *ComboChain
	shortest := ct.cfg.DistanceThreshold
	for _, chain := range ct.chains {
		chain.members.Each(func(member ecs.EntityID) {
			position, ok := ecs.GetComponent[*components.PositionComponent](ct.entityManager, member)
			if !ok {
				return
			}
			if d := position.Distance(pos); d < shortest {
				shortest = d
				nearest = chain
			}
		})
	}

	if nearest != nil {
		nearest.members.Put(id)
		nearest.lastPosition = pos
		return
	}

	chain := &ComboChain{
		members:      mapset.New[ecs.EntityID](),
		startTime:    ct.clock.Now(),
		lastPosition: pos,
	}
	chain.members.Put(id)
	ct.chains = append(ct.chains, chain)
}

// Sweep 结算所有从创建起已满时间窗口的链，返回结算的链数量
// 成员数达到下限才计分（分数 = 成员数）并显示连击提示，否则静默丢弃
func (ct *ComboTracker) Sweep(now time.Time) int {
	ct.mu.Lock()
	window := time.Duration(ct.cfg.Window * float64(time.Second))
	minSize := ct.cfg.MinChainSize
	var expired []*ComboChain
	active := ct.chains[:0]
	for _, chain := range ct.chains {
		if now.Sub(chain.startTime) >= window {
			expired = append(expired, chain)
		} else {
			active = append(active, chain)
		}
	}
	for i := len(active); i < len(ct.chains); i++ {
		ct.chains[i] = nil
	}
	ct.chains = active
	ct.mu.Unlock()

	for _, chain := range expired {
		size := chain.members.Size()
		if size < minSize {
			continue
		}
		if ct.scorer != nil {
			ct.scorer.IncrementScore(size)
		}
		if ct.notifier != nil {
			ct.notifier.ShowCombo(size, chain.lastPosition)
		}
		log.Printf("[ComboTracker] Chain finalized: %d members at (%.1f, %.1f)", size, chain.lastPosition.X, chain.lastPosition.Y)
	}
	return len(expired)
}

// Run 按配置的周期在后台结算连击链，直到 ctx 取消
func (ct *ComboTracker) Run(ctx context.Context) {
	ct.mu.Lock()
	interval := time.Duration(ct.cfg.SweepInterval * float64(time.Second))
	ct.mu.Unlock()
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ct.Sweep(ct.clock.Now())
		}
	}
}

// Chains 返回所有活跃链的快照
func (ct *ComboTracker) Chains() []ChainSnapshot {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	out := make([]ChainSnapshot, 0, len(ct.chains))
	for _, chain := range ct.chains {
		snap := ChainSnapshot{StartTime: chain.startTime, LastPosition: chain.lastPosition}
		chain.members.Each(func(id ecs.EntityID) {
			snap.Members = append(snap.Members, id)
		})
		out = append(out, snap)
	}
	return out
}

// ChainOf 返回包含 id 的活跃链序号，不在任何链中返回 -1
func (ct *ComboTracker) ChainOf(id ecs.EntityID) int {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	for i, chain := range ct.chains {
		if chain.members.Has(id) {
			return i
		}
	}
	return -1
}

// Reset 丢弃所有活跃链（不计分）
func (ct *ComboTracker) Reset() {
	ct.mu.Lock()
	ct.chains = nil
	ct.mu.Unlock()
}
