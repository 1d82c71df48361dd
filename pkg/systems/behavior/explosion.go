package behavior

import (
	"log"

	"github.com/decker502/horde/pkg/ecs"
	"github.com/jakecoffman/cp"
)

// ResolveExplosion 结算一次爆炸，返回波及的危险实体数量
//
// 半径内（严格小于）的存活实体先受爆炸伤害（变体可选），未着火的被点燃。
// 波及数量达到连击阈值时按数量加分并显示连击提示。
// 玩家在半径内时游戏结束，与波及数量无关。
// 波及目标按爆炸瞬间的存活状态一次选定，结算时的连锁点燃不影响计数。
func (s *BehaviorSystem) ResolveExplosion(source ecs.EntityID, center cp.Vector) int {
	cfg := s.config.Detonator.Explosion
	var targets []*hazard
	for _, id := range s.queryHazards() {
		if id == source {
			continue
		}
		h, ok := s.lookup(id)
		if !ok || !h.state.Alive {
			continue
		}
		if h.pos.Distance(center) >= cfg.Radius {
			continue
		}
		targets = append(targets, h)
	}

	for _, h := range targets {
		if h.behavior.explosionDamage != nil {
			h.behavior.explosionDamage(s, h)
		}
		if !h.state.OnFire {
			h.behavior.catchFire(s, h)
		}
	}
	affected := len(targets)

	if affected >= cfg.ComboThreshold {
		s.award(affected, 0)
		s.showCombo(affected, center)
		log.Printf("[BehaviorSystem] explosion combo x%d", affected)
	}

	if s.player != nil && s.playerPosition().Distance(center) < cfg.Radius {
		s.triggerGameOver("explosion", source)
	}
	return affected
}
