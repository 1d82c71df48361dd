package behavior

import (
	"log"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/utils"
)

// updateTendril 触手僵尸
// 不做碰撞排斥；任一触手线段碰到玩家即游戏结束
func updateTendril(s *BehaviorSystem, h *hazard, dt float64) {
	if !h.state.Alive {
		s.fadeOut(h, dt)
		return
	}
	s.igniteFromNeighbors(h)
	if !h.state.Alive {
		return
	}

	rig, ok := s.tendrilRig(h)
	if !ok {
		return
	}
	player := s.playerPosition()
	if !h.state.Immobilized {
		rig.Time += rig.AnimationSpeed
		s.seekPlayer(h)
		rig.LastTargetAngle = utils.AngleTo(h.pos.Vector, player)
	}

	// 定身时使用冻结姿态，触手仍然致命
	for _, seg := range s.tendrilLimbs(h, rig) {
		if utils.PointNearSegment(player, seg.Start, seg.End, rig.Thickness) {
			s.triggerGameOver("tendril", h.id)
			return
		}
	}
}

// igniteTendril 触手僵尸一点就死，并立即点燃身边的同伴
func igniteTendril(s *BehaviorSystem, h *hazard) {
	if h.state.OnFire || !h.state.Alive {
		return
	}
	s.ignite(h, s.config.Tendril.FireSpreadDuration)
	h.state.Alive = false
	h.state.Speed = 0
	if h.state.FadeDuration <= 0 {
		h.state.FadeDuration = s.config.Tendril.FadeDuration
	}
	h.state.FadeTimer = h.state.FadeDuration
	log.Printf("[BehaviorSystem] tendril %v burned", h.id)

	radius := s.config.ProximityRadius
	s.forEachSibling(h, func(other *hazard) bool {
		if other.state.Alive && !other.state.OnFire && h.pos.Distance(other.pos.Vector) < radius {
			other.behavior.catchFire(s, other)
		}
		return true
	})
}

func (s *BehaviorSystem) tendrilRig(h *hazard) (*components.TendrilRigComponent, bool) {
	return ecs.GetComponent[*components.TendrilRigComponent](s.entityManager, h.id)
}
