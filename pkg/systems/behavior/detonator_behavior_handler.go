package behavior

import (
	"log"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/game"
)

// flickerTimerName 引信计时器名称
const flickerTimerName = "flicker"

// updateDetonator 自爆僵尸
//
// 引信闪烁期间计时，到期即爆炸。被非爆炸方式杀死的自爆僵尸会在
// 延迟后补爆；爆炸之前尸体不会淡出，保证延迟引爆一定能执行。
func updateDetonator(s *BehaviorSystem, h *hazard, dt float64) {
	det, ok := s.detonator(h)
	if !ok {
		return
	}

	if !h.state.Alive {
		if !det.Exploded {
			s.scheduleDelayedDetonation(h, det)
			return
		}
		s.fadeOut(h, dt)
		return
	}

	if det.Flickering {
		if timer, ok := ecs.GetComponent[*components.TimerComponent](s.entityManager, h.id); ok {
			timer.CurrentTime += dt
			if timer.CurrentTime >= timer.TargetTime {
				timer.IsReady = true
				s.explode(h)
				return
			}
		}
	}

	s.advanceArmClock(h)

	if h.state.OnFire {
		s.burn(h, dt)
		return
	}
	s.igniteFromNeighbors(h)
	if h.state.OnFire {
		return
	}
	s.move(h)
}

// igniteDetonator 着火：停步、附着火焰、开始闪烁（重置引信）
// 自爆僵尸着火不计分，也不加入连击链
func igniteDetonator(s *BehaviorSystem, h *hazard) {
	if h.state.OnFire || !h.state.Alive {
		return
	}
	det, ok := s.detonator(h)
	if !ok {
		return
	}
	h.state.OnFire = true
	h.state.FireSpreadTimer = s.config.Detonator.FireSpreadDuration
	h.state.Speed = 0
	h.state.FireEffect = s.effects.SpawnFire(h.pos.Vector, h.id)
	s.startFlicker(h, det)
	s.freezeLimbs(h)
	log.Printf("[BehaviorSystem] detonator %v caught fire, fuse %.1fs", h.id, s.config.Detonator.FlickerDuration)
}

// hitDetonator 球棒击中：点燃引信但不杀死
func hitDetonator(s *BehaviorSystem, h *hazard) {
	det, ok := s.detonator(h)
	if !ok || !h.state.Alive || det.Flickering {
		return
	}
	s.startFlicker(h, det)
	s.sound.PlaySound(game.SoundBatHit, h.pos.Vector)
	h.state.Speed = 0
	s.freezeLimbs(h)
	log.Printf("[BehaviorSystem] detonator %v fuse lit by bat", h.id)
}

func (s *BehaviorSystem) detonator(h *hazard) (*components.DetonatorComponent, bool) {
	return ecs.GetComponent[*components.DetonatorComponent](s.entityManager, h.id)
}

// startFlicker 开始（或重新开始）引信倒计时
func (s *BehaviorSystem) startFlicker(h *hazard, det *components.DetonatorComponent) {
	det.Flickering = true
	s.entityManager.AddComponent(h.id, &components.TimerComponent{
		Name:       flickerTimerName,
		TargetTime: s.config.Detonator.FlickerDuration,
	})
}

func (s *BehaviorSystem) isFlickering(h *hazard) bool {
	det, ok := s.detonator(h)
	return ok && det.Flickering
}

// scheduleDelayedDetonation 尸体在延迟后补爆（每个实体只安排一次）
func (s *BehaviorSystem) scheduleDelayedDetonation(h *hazard, det *components.DetonatorComponent) {
	if det.DetonationScheduled {
		return
	}
	det.DetonationScheduled = true
	delay := s.config.Detonator.DelayedDetonation
	log.Printf("[BehaviorSystem] detonator %v dead, detonating in %.1fs", h.id, delay)

	s.scheduler.After("delayed-detonation", delay, h.id, func(id ecs.EntityID) {
		target, ok := s.lookup(id)
		if !ok {
			return
		}
		s.explode(target)
	})
}

// explode 引爆：只发生一次
//
// 爆炸后实体立即死亡并进入短暂的冷却展示；冷却结束时再奖励一次货币，
// 同时停止血液和爆炸粒子的发射。
func (s *BehaviorSystem) explode(h *hazard) {
	det, ok := s.detonator(h)
	if !ok || det.Exploded {
		return
	}
	det.Exploded = true
	det.Exploding = true
	det.Flickering = false
	ecs.RemoveComponent[*components.TimerComponent](s.entityManager, h.id)
	s.stopFire(h)

	s.award(0, 1)
	cfg := s.config.Detonator
	blood := s.effects.SpawnBlood(h.pos.Vector, cfg.Explosion.BloodCount)
	fireball := s.effects.SpawnExplosion(h.pos.Vector, cfg.Explosion.ParticleCount)
	h.state.BloodEffect = blood
	det.ExplosionEffect = fireball
	s.sound.PlaySound(game.SoundExplode, h.pos.Vector)

	s.freezeLimbs(h)
	h.state.Alive = false
	h.state.Speed = 0
	h.state.FadeDuration = cfg.CoolingDuration
	h.state.FadeTimer = cfg.CoolingDuration

	affected := s.ResolveExplosion(h.id, h.pos.Vector)
	log.Printf("[BehaviorSystem] detonator %v exploded at (%.2f, %.2f), %d affected",
		h.id, h.pos.X, h.pos.Y, affected)

	// 粒子发射器与实体生命周期无关，不绑定目标
	s.scheduler.After("explosion-effects", cfg.CoolingDuration, 0, func(ecs.EntityID) {
		s.effects.SetEmitRate(blood, 0)
		s.effects.SetEmitRate(fireball, 0)
	})
	s.scheduler.After("explosion-cooled", cfg.CoolingDuration, h.id, func(id ecs.EntityID) {
		s.award(0, 1)
		if d, ok := ecs.GetComponent[*components.DetonatorComponent](s.entityManager, id); ok {
			d.Exploding = false
		}
	})
}
