package behavior

import (
	"image/color"
	"math"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/utils"
	"github.com/jakecoffman/cp"
)

// 调色板
var (
	colorWalker    = color.RGBA{R: 51, G: 255, B: 0, A: 255}
	colorFire      = color.RGBA{R: 255, G: 153, B: 0, A: 255}
	colorDead      = color.RGBA{R: 51, G: 51, B: 51, A: 255}
	colorDetonator = color.RGBA{R: 0, G: 102, B: 255, A: 255}
	colorTendril   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// flashRate 闪烁频率（每秒切换次数）
const flashRate = 12.0

// Sprites 按注册顺序返回所有危险实体当前帧的绘制描述
// 只读取状态，不修改任何组件
func (s *BehaviorSystem) Sprites() []components.HazardSprite {
	ids := s.queryHazards()
	sprites := make([]components.HazardSprite, 0, len(ids))
	for _, id := range ids {
		h, ok := s.lookup(id)
		if !ok {
			continue
		}
		sprites = append(sprites, h.behavior.sprite(s, h))
	}
	return sprites
}

func (s *BehaviorSystem) baseSprite(h *hazard) components.HazardSprite {
	return components.HazardSprite{
		Entity:   h.id,
		Variant:  h.kind,
		Position: h.pos.Vector,
		BodySize: 1,
		Facing:   utils.AngleTo(h.pos.Vector, s.playerPosition()),
		Opacity:  opacity(h.state),
	}
}

// opacity 死亡实体按淡出进度变透明
func opacity(state *components.HazardComponent) float64 {
	if state.Alive {
		return 1
	}
	if state.FadeDuration <= 0 {
		return 0
	}
	return utils.Clamp(state.FadeTimer/state.FadeDuration, 0, 1)
}

func flashPhase(t float64) bool {
	return int(math.Floor(t*flashRate))%2 == 0
}

func walkerSprite(s *BehaviorSystem, h *hazard) components.HazardSprite {
	sp := s.baseSprite(h)
	switch {
	case !h.state.Alive:
		sp.Color = colorDead
	case h.state.OnFire:
		sp.Color = colorFire
	default:
		sp.Color = colorWalker
	}
	sp.LimbColor = sp.Color
	s.applyArmLimbs(h, &sp)
	return sp
}

func detonatorSprite(s *BehaviorSystem, h *hazard) components.HazardSprite {
	sp := s.baseSprite(h)
	det, _ := s.detonator(h)
	if det == nil {
		det = &components.DetonatorComponent{}
	}

	switch {
	case det.Exploding:
		sp.Exploding = true
		sp.Flash = flashPhase(h.state.FadeTimer)
		sp.Opacity = 1
		sp.Color = colorDead
		if sp.Flash {
			sp.Color = colorFire
		}
	case !h.state.Alive:
		sp.Color = colorDead
	case det.Flickering:
		elapsed := 0.0
		if timer, ok := ecs.GetComponent[*components.TimerComponent](s.entityManager, h.id); ok {
			elapsed = timer.CurrentTime
		}
		sp.Flash = flashPhase(elapsed)
		sp.Color = colorDead
		if sp.Flash {
			sp.Color = colorDetonator
		}
	case h.state.OnFire:
		sp.Color = colorFire
	default:
		sp.Color = colorDetonator
	}
	sp.LimbColor = sp.Color
	s.applyArmLimbs(h, &sp)
	return sp
}

func tendrilSprite(s *BehaviorSystem, h *hazard) components.HazardSprite {
	sp := s.baseSprite(h)
	switch {
	case h.state.Alive:
		sp.Color = colorWalker
		sp.LimbColor = colorTendril
	case h.state.OnFire:
		sp.Color = colorFire
		sp.LimbColor = colorFire
	default:
		sp.Color = colorDead
		sp.LimbColor = colorDead
	}
	if rig, ok := s.tendrilRig(h); ok {
		if !h.state.Alive {
			sp.Facing = rig.LastTargetAngle
		}
		sp.Limbs = s.tendrilLimbs(h, rig)
		sp.LimbThickness = rig.Thickness
		sp.Frozen = rig.Frozen != nil
	}
	return sp
}

func (s *BehaviorSystem) applyArmLimbs(h *hazard, sp *components.HazardSprite) {
	rig, ok := s.armRig(h)
	if !ok {
		return
	}
	sp.LimbThickness = rig.Thickness
	if rig.Frozen != nil {
		sp.Limbs = rig.Frozen.Segments
		sp.Frozen = true
		return
	}
	sp.Limbs = s.armSegments(h, rig)
}

func (s *BehaviorSystem) armRig(h *hazard) (*components.ArmRigComponent, bool) {
	return ecs.GetComponent[*components.ArmRigComponent](s.entityManager, h.id)
}

// armSegments 以当前朝向计算左右两条手臂的四节线段
func (s *BehaviorSystem) armSegments(h *hazard, rig *components.ArmRigComponent) []components.LimbSegment {
	facing := utils.AngleTo(h.pos.Vector, s.playerPosition())
	segments := make([]components.LimbSegment, 0, 4)
	for _, side := range []float64{-1, 1} {
		points := utils.ArmPose(h.pos.Vector, facing, utils.ArmParams{
			Side:   side,
			Length: rig.Length,
			Swing:  rig.Swing(),
			Clock:  rig.Time + rig.Delay,
		})
		segments = appendChain(segments, points)
	}
	return segments
}

// tendrilLimbs 触手线段：冻结时返回快照，否则按当前朝向计算
// 碰撞检测与渲染共用此函数
func (s *BehaviorSystem) tendrilLimbs(h *hazard, rig *components.TendrilRigComponent) []components.LimbSegment {
	if rig.Frozen != nil {
		return rig.Frozen.Segments
	}
	return s.tendrilSegments(h, rig, rig.LastTargetAngle)
}

func (s *BehaviorSystem) tendrilSegments(h *hazard, rig *components.TendrilRigComponent, facing float64) []components.LimbSegment {
	n := rig.LegsPerSide
	segments := make([]components.LimbSegment, 0, 2*n*len(rig.SegmentRatios))
	for sideIdx, side := range []float64{-1, 1} {
		for i := 0; i < n; i++ {
			leg := components.TendrilLeg{Amplitude: 1}
			if k := i + sideIdx*n; k < len(rig.Legs) {
				leg = rig.Legs[k]
			}
			points := utils.TendrilPose(h.pos.Vector, facing, utils.TendrilParams{
				Side:      side,
				Index:     i,
				PerSide:   n,
				LegLength: rig.LegLength,
				Thickness: rig.Thickness,
				Ratios:    rig.SegmentRatios,
				Amps:      rig.SegmentAmps,
				Phases:    rig.SegmentPhases,
				Clock:     rig.Time + float64(i)*rig.LegOffset + leg.PhaseShift,
				Amplitude: leg.Amplitude,
			})
			segments = appendChain(segments, points)
		}
	}
	return segments
}

func appendChain(segments []components.LimbSegment, points []cp.Vector) []components.LimbSegment {
	for k := 1; k < len(points); k++ {
		segments = append(segments, components.LimbSegment{Start: points[k-1], End: points[k]})
	}
	return segments
}

// freezeLimbs 捕获当前肢体姿态；已有快照时保持不变
func (s *BehaviorSystem) freezeLimbs(h *hazard) {
	switch h.kind {
	case components.BehaviorTendril:
		if rig, ok := s.tendrilRig(h); ok && rig.Frozen == nil {
			rig.Frozen = &components.LimbSnapshot{Segments: s.tendrilSegments(h, rig, rig.LastTargetAngle)}
		}
	default:
		if rig, ok := s.armRig(h); ok && rig.Frozen == nil {
			rig.Frozen = &components.LimbSnapshot{Segments: s.armSegments(h, rig)}
		}
	}
}

// unfreezeLimbs 解除定身后恢复实时姿态
func (s *BehaviorSystem) unfreezeLimbs(h *hazard) {
	switch h.kind {
	case components.BehaviorTendril:
		if rig, ok := s.tendrilRig(h); ok {
			rig.Frozen = nil
		}
	default:
		if rig, ok := s.armRig(h); ok {
			rig.Frozen = nil
		}
	}
}
