package components

import "github.com/jakecoffman/cp"

// PositionComponent 存储实体的世界坐标
// 坐标单位为"格"：1 单位等于一个僵尸身体的边长，玩家初始位于原点
type PositionComponent struct {
	cp.Vector
}
