package behavior

import (
	"log"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/game"
)

// CatchFire 点燃实体（按变体分发）
// 已着火或已死亡的实体为空操作，因此重复调用只生效一次
func (s *BehaviorSystem) CatchFire(id ecs.EntityID) {
	h, ok := s.lookup(id)
	if !ok {
		return
	}
	h.behavior.catchFire(s, h)
}

// Kill 近战/远程击杀：加分、标记死亡、溅血、播放击中音效
// 已死亡的实体为空操作
func (s *BehaviorSystem) Kill(id ecs.EntityID) {
	h, ok := s.lookup(id)
	if !ok {
		return
	}
	s.kill(h)
}

// MeleeHit 球棒击中（按变体分发）
// 行走僵尸被击杀；自爆僵尸进入引信闪烁；触手僵尸被定身
func (s *BehaviorSystem) MeleeHit(id ecs.EntityID) {
	h, ok := s.lookup(id)
	if !ok {
		return
	}
	h.behavior.meleeHit(s, h)
}

// Immobilize 定身实体 duration 秒：速度归零、肢体冻结
// 到期回调只在实体仍存活且仍处于定身状态时恢复速度
func (s *BehaviorSystem) Immobilize(id ecs.EntityID, duration float64) {
	h, ok := s.lookup(id)
	if !ok {
		return
	}
	s.immobilize(h, duration)
}

// Explode 立即引爆自爆僵尸；其他变体或已爆炸的实体为空操作
func (s *BehaviorSystem) Explode(id ecs.EntityID) {
	h, ok := s.lookup(id)
	if !ok || h.kind != components.BehaviorDetonator {
		return
	}
	s.explode(h)
}

func (s *BehaviorSystem) kill(h *hazard) {
	if !h.state.Alive {
		return
	}
	s.sound.PlaySound(game.SoundBatHit, h.pos.Vector)
	s.award(1, 1)
	s.freezeLimbs(h)
	h.state.Alive = false
	h.state.BloodEffect = s.effects.SpawnBlood(h.pos.Vector, s.config.Effects.BloodCount)
	log.Printf("[BehaviorSystem] %s %v killed", h.kind, h.id)
}

// ignite 通用点燃：加分、附着火焰、加入连击链、冻结肢体
func (s *BehaviorSystem) ignite(h *hazard, spreadDuration float64) {
	h.state.OnFire = true
	h.state.FireSpreadTimer = spreadDuration
	s.award(1, 1)
	s.freezeLimbs(h)
	h.state.FireEffect = s.effects.SpawnFire(h.pos.Vector, h.id)
	s.joinCombo(h)
	log.Printf("[BehaviorSystem] %s %v caught fire at (%.2f, %.2f)", h.kind, h.id, h.pos.X, h.pos.Y)
}

func (s *BehaviorSystem) immobilize(h *hazard, duration float64) {
	if !h.state.Alive || h.state.Immobilized {
		return
	}
	h.state.Immobilized = true
	h.state.Speed = 0
	s.freezeLimbs(h)
	log.Printf("[BehaviorSystem] %s %v immobilized for %.1fs", h.kind, h.id, duration)

	s.scheduler.After("immobilize-timeout", duration, h.id, func(id ecs.EntityID) {
		target, ok := s.lookup(id)
		if !ok || !target.state.Alive || !target.state.Immobilized {
			return
		}
		target.state.Immobilized = false
		if target.state.OnFire || s.isFlickering(target) {
			return
		}
		target.state.Speed = target.state.BaseSpeed
		s.unfreezeLimbs(target)
	})
}

// fadeOut 死亡实体淡出：计时器只减不增并钳制在 0，淡出完毕时熄灭火焰
func (s *BehaviorSystem) fadeOut(h *hazard, dt float64) {
	if h.state.FadeTimer <= 0 {
		h.state.FadeTimer = 0
		return
	}
	h.state.FadeTimer -= dt
	if h.state.FadeTimer <= 0 {
		h.state.FadeTimer = 0
		s.stopFire(h)
	}
}

func (s *BehaviorSystem) stopFire(h *hazard) {
	if h.state.FireEffect.Valid() {
		s.effects.SetEmitRate(h.state.FireEffect, 0)
		h.state.FireEffect = 0
	}
}

// CollectRemovable 标记所有已死亡且淡出完毕的危险实体待删除，返回它们的 ID
// 调用方随后调用 EntityManager.RemoveMarkedEntities 完成移除
func (s *BehaviorSystem) CollectRemovable() []ecs.EntityID {
	var removed []ecs.EntityID
	for _, id := range s.queryHazards() {
		h, ok := s.lookup(id)
		if !ok || !h.state.Removable() {
			continue
		}
		s.stopFire(h)
		s.entityManager.DestroyEntity(id)
		removed = append(removed, id)
	}
	return removed
}
