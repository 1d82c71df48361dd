package components

import (
	"image/color"

	"github.com/jakecoffman/cp"
)

// ParticleComponent 单个粒子的运行时状态
// 位置存放在同一实体的 PositionComponent 中
type ParticleComponent struct {
	Velocity cp.Vector // 单位/秒
	Drag     float64   // 每秒速度衰减比例 [0,1)

	Age      float64 // 已存在时间（秒）
	Lifetime float64 // 总寿命（秒）

	Size  float64 // 半径（单位）
	Color color.RGBA
	Alpha float64 // 当前不透明度 [0,1]，随寿命线性衰减
}
