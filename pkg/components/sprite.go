package components

import (
	"image/color"

	"github.com/decker502/horde/pkg/ecs"
	"github.com/jakecoffman/cp"
)

// HazardSprite 危险实体某一帧的绘制描述
//
// 由 BehaviorSystem 根据组件状态纯计算得到（不修改任何状态），
// 再交给 RenderSystem 绘制。这样渲染逻辑可以在没有 GPU 的测试中验证。
type HazardSprite struct {
	Entity  ecs.EntityID
	Variant BehaviorType

	Position cp.Vector
	BodySize float64 // 身体方块边长（单位）
	Facing   float64 // 朝向玩家的角度（弧度）

	Color     color.RGBA // 身体颜色
	LimbColor color.RGBA // 手臂/触手颜色
	Opacity   float64    // [0,1]

	Limbs         []LimbSegment
	LimbThickness float64

	Flash     bool // 自爆僵尸闪烁中的高亮帧
	Exploding bool // 爆炸后的短暂展示状态
	Frozen    bool // 肢体使用冻结快照
}
