package entities

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/jakecoffman/cp"
)

// NewWalker 创建普通行走僵尸
//
// 步态参数在创建时随机一次，之后不再变化。
//
// 参数:
//   - em: 实体管理器
//   - cfg: 危险实体配置
//   - rng: 随机数源（为 nil 时使用全局随机源）
//   - pos: 生成位置（世界坐标，单位为格）
//
// 返回:
//   - ecs.EntityID: 创建的实体ID
//   - error: 参数无效时返回错误
func NewWalker(em *ecs.EntityManager, cfg *config.HazardConfig, rng *rand.Rand, pos cp.Vector) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if cfg == nil {
		return 0, fmt.Errorf("hazard config cannot be nil")
	}

	id := newHazard(em, components.BehaviorWalker, pos, cfg.Walker.Speed, cfg.Walker.FadeDuration)
	em.AddComponent(id, newArmRig(cfg.Walker.Gait, rng))
	return id, nil
}

// NewDetonator 创建自爆僵尸
// 与行走僵尸的区别：速度更慢、最大摆动角相对最小角随机、附带引信状态
func NewDetonator(em *ecs.EntityManager, cfg *config.HazardConfig, rng *rand.Rand, pos cp.Vector) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if cfg == nil {
		return 0, fmt.Errorf("hazard config cannot be nil")
	}

	// 自爆僵尸在爆炸后的冷却展示中淡出，淡出时长在爆炸时设定
	id := newHazard(em, components.BehaviorDetonator, pos, cfg.Detonator.Speed, cfg.Detonator.CoolingDuration)
	em.AddComponent(id, newArmRig(cfg.Detonator.Gait, rng))
	em.AddComponent(id, &components.DetonatorComponent{})
	return id, nil
}

// NewTendril 创建触手僵尸
// 每条触手有独立的随机相位与振幅
func NewTendril(em *ecs.EntityManager, cfg *config.HazardConfig, rng *rand.Rand, pos cp.Vector) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if cfg == nil {
		return 0, fmt.Errorf("hazard config cannot be nil")
	}

	tc := cfg.Tendril
	legs := make([]components.TendrilLeg, 2*tc.LegsPerSide)
	for i := range legs {
		legs[i] = components.TendrilLeg{
			PhaseShift: randFloat(rng) * 2 * math.Pi,
			Amplitude:  sample(rng, tc.Amplitude),
		}
	}
	ratios := append([]float64(nil), tc.SegmentRatios...)
	amps := append([]float64(nil), tc.SegmentAmplitudes...)
	phases := append([]float64(nil), tc.SegmentPhases...)

	id := newHazard(em, components.BehaviorTendril, pos, tc.Speed, tc.FadeDuration)
	em.AddComponent(id, &components.TendrilRigComponent{
		LegLength:      tc.LegLength,
		Thickness:      tc.Thickness,
		LegsPerSide:    tc.LegsPerSide,
		AnimationSpeed: tc.AnimationSpeed,
		LegOffset:      tc.LegOffset,
		SegmentRatios:  ratios,
		SegmentAmps:    amps,
		SegmentPhases:  phases,
		Legs:           legs,
	})
	return id, nil
}

// NewHazard 按变体名称创建危险实体（刷怪系统使用）
func NewHazard(em *ecs.EntityManager, cfg *config.HazardConfig, rng *rand.Rand, variant string, pos cp.Vector) (ecs.EntityID, error) {
	switch variant {
	case config.VariantWalker:
		return NewWalker(em, cfg, rng, pos)
	case config.VariantDetonator:
		return NewDetonator(em, cfg, rng, pos)
	case config.VariantTendril:
		return NewTendril(em, cfg, rng, pos)
	default:
		return 0, fmt.Errorf("unknown hazard variant %q", variant)
	}
}

func newHazard(em *ecs.EntityManager, kind components.BehaviorType, pos cp.Vector, speed, fade float64) ecs.EntityID {
	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{Vector: pos})
	em.AddComponent(id, &components.BehaviorComponent{Type: kind})
	em.AddComponent(id, &components.HazardComponent{
		Speed:        speed,
		BaseSpeed:    speed,
		Alive:        true,
		FadeTimer:    fade,
		FadeDuration: fade,
	})
	return id
}

// newArmRig 按步态范围随机一组手臂参数
func newArmRig(g config.GaitConfig, rng *rand.Rand) *components.ArmRigComponent {
	minAngle := sample(rng, g.MinAngle)
	maxAngle := sample(rng, g.MaxAngle)
	if g.MaxAngleRelative {
		maxAngle += minAngle
	}
	return &components.ArmRigComponent{
		Length:           sample(rng, g.ArmLength),
		Thickness:        g.Thickness,
		OscillationSpeed: sample(rng, g.OscillationSpeed),
		MinAngle:         minAngle,
		MaxAngle:         maxAngle,
		Delay:            sample(rng, g.Phase),
		Time:             sample(rng, g.ClockStart),
		FrameDelay:       int(math.Floor(sample(rng, g.FrameDelay))),
	}
}

func randFloat(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.Float64()
	}
	return rng.Float64()
}

// sample 在 [Min, Max) 内均匀取值
func sample(rng *rand.Rand, r config.Range) float64 {
	return r.Min + randFloat(rng)*r.Span()
}
