package entities

import (
	"fmt"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/jakecoffman/cp"
)

// NewPlayer 创建玩家实体
func NewPlayer(em *ecs.EntityManager, cfg config.PlayerConfig, pos cp.Vector) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{Vector: pos})
	em.AddComponent(id, &components.PlayerComponent{Speed: cfg.Speed})
	return id, nil
}

// NewFlare 创建照明弹
// 照明弹沿 direction 直线飞行，接触危险实体时将其点燃，寿命到期后消失
func NewFlare(em *ecs.EntityManager, cfg config.PlayerConfig, origin, direction cp.Vector) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if direction.Length() == 0 {
		return 0, fmt.Errorf("flare direction cannot be zero")
	}
	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{Vector: origin})
	em.AddComponent(id, &components.ProjectileComponent{
		Velocity: direction.Normalize().Mult(cfg.FlareSpeed),
		Radius:   cfg.FlareRadius,
	})
	em.AddComponent(id, &components.LifetimeComponent{MaxLifetime: cfg.FlareLifetime})
	return id, nil
}
