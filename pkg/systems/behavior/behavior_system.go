package behavior

import (
	"log"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/game"
	"github.com/decker502/horde/pkg/systems"
	"github.com/jakecoffman/cp"
)

// Deps 行为系统的模拟上下文
// 由场景（模拟驱动）构造并显式传入；Scorer、GameOver、Player 以外的协作者可为 nil
type Deps struct {
	EntityManager *ecs.EntityManager
	Scorer        game.Scorer
	GameOver      game.GameOverFlag
	Player        game.PlayerLocator
	Effects       game.EffectSpawner
	Sound         game.SoundPlayer
	Notifier      game.ComboNotifier
	Combos        *systems.ComboTracker
	Scheduler     *systems.Scheduler
	Config        *config.HazardConfig
}

// BehaviorSystem 危险实体状态机
//
// 每帧按注册顺序更新所有危险实体，根据 BehaviorComponent.Type 从行为表中
// 选择变体的处理函数。游戏结束后整个模拟冻结（Update 为空操作）。
// 对外暴露点燃、击杀、近战、定身、引爆等入口，供玩家武器和其他实体调用。
type BehaviorSystem struct {
	entityManager *ecs.EntityManager
	scorer        game.Scorer
	gameOver      game.GameOverFlag
	player        game.PlayerLocator
	effects       game.EffectSpawner
	sound         game.SoundPlayer
	notifier      game.ComboNotifier
	combos        *systems.ComboTracker
	scheduler     *systems.Scheduler
	config        *config.HazardConfig
}

// NewBehaviorSystem 创建一个新的行为系统
func NewBehaviorSystem(deps Deps) *BehaviorSystem {
	s := &BehaviorSystem{
		entityManager: deps.EntityManager,
		scorer:        deps.Scorer,
		gameOver:      deps.GameOver,
		player:        deps.Player,
		effects:       deps.Effects,
		sound:         deps.Sound,
		notifier:      deps.Notifier,
		combos:        deps.Combos,
		scheduler:     deps.Scheduler,
		config:        deps.Config,
	}
	if s.effects == nil {
		s.effects = noopEffects{}
	}
	if s.sound == nil {
		s.sound = noopSound{}
	}
	if s.scheduler == nil {
		s.scheduler = systems.NewScheduler(s.entityManager)
	}
	if s.config == nil {
		s.config = config.DefaultHazardConfig()
	}
	return s
}

// SetConfig 热更新参数；已构造实体的步态参数不受影响
func (s *BehaviorSystem) SetConfig(cfg *config.HazardConfig) {
	if cfg != nil {
		s.config = cfg
	}
}

// hazard 一次查询得到的危险实体组件集合
type hazard struct {
	id       ecs.EntityID
	kind     components.BehaviorType
	pos      *components.PositionComponent
	state    *components.HazardComponent
	behavior variantBehavior
}

// lookup 查询危险实体；实体不存在或缺少组件时返回 false
func (s *BehaviorSystem) lookup(id ecs.EntityID) (*hazard, bool) {
	if !s.entityManager.IsAlive(id) {
		return nil, false
	}
	behaviorComp, ok := ecs.GetComponent[*components.BehaviorComponent](s.entityManager, id)
	if !ok {
		return nil, false
	}
	state, ok := ecs.GetComponent[*components.HazardComponent](s.entityManager, id)
	if !ok {
		return nil, false
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	if !ok {
		return nil, false
	}
	vb, ok := behaviorTable[behaviorComp.Type]
	if !ok {
		log.Printf("[BehaviorSystem] Warning: no behavior for type %v (entity %v)", behaviorComp.Type, id)
		return nil, false
	}
	return &hazard{id: id, kind: behaviorComp.Type, pos: pos, state: state, behavior: vb}, true
}

// queryHazards 按注册顺序返回所有危险实体
func (s *BehaviorSystem) queryHazards() []ecs.EntityID {
	return ecs.GetEntitiesWith3[
		*components.BehaviorComponent,
		*components.HazardComponent,
		*components.PositionComponent,
	](s.entityManager)
}

// Hazards 按注册顺序返回所有危险实体的 ID
func (s *BehaviorSystem) Hazards() []ecs.EntityID {
	return s.queryHazards()
}

// Update 按注册顺序更新所有危险实体
// 游戏结束后为空操作；更新中途触发游戏结束时，后续实体也不再更新
func (s *BehaviorSystem) Update(deltaTime float64) {
	for _, id := range s.queryHazards() {
		if s.isGameOver() {
			return
		}
		h, ok := s.lookup(id)
		if !ok {
			continue
		}
		h.behavior.update(s, h, deltaTime)
	}
}

func (s *BehaviorSystem) isGameOver() bool {
	return s.gameOver != nil && s.gameOver.IsGameOver()
}

func (s *BehaviorSystem) triggerGameOver(reason string, id ecs.EntityID) {
	if s.gameOver == nil || s.gameOver.IsGameOver() {
		return
	}
	log.Printf("[BehaviorSystem] Player killed by %s (entity %v)", reason, id)
	s.gameOver.SetGameOver(true)
}

func (s *BehaviorSystem) playerPosition() cp.Vector {
	if s.player == nil {
		return cp.Vector{}
	}
	return s.player.PlayerPosition()
}

func (s *BehaviorSystem) award(score, currency int) {
	if s.scorer == nil {
		return
	}
	if score != 0 {
		s.scorer.IncrementScore(score)
	}
	if currency != 0 {
		s.scorer.AddCurrency(currency)
	}
}

func (s *BehaviorSystem) joinCombo(h *hazard) {
	if s.combos != nil {
		s.combos.Join(h.id, h.pos.Vector)
	}
}

func (s *BehaviorSystem) showCombo(count int, pos cp.Vector) {
	if s.notifier != nil {
		s.notifier.ShowCombo(count, pos)
	}
}

// noopEffects 没有粒子系统时使用（终端模式、测试）
type noopEffects struct{}

func (noopEffects) SpawnFire(cp.Vector, ecs.EntityID) ecs.EntityID { return 0 }
func (noopEffects) SpawnBlood(cp.Vector, int) ecs.EntityID         { return 0 }
func (noopEffects) SpawnExplosion(cp.Vector, int) ecs.EntityID     { return 0 }
func (noopEffects) SetEmitRate(ecs.EntityID, float64)              {}

type noopSound struct{}

func (noopSound) PlaySound(game.SoundKind, cp.Vector) {}
