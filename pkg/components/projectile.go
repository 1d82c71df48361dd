package components

import "github.com/jakecoffman/cp"

// ProjectileComponent 照明弹
// 接触危险实体时调用其点燃入口，然后自身销毁
type ProjectileComponent struct {
	Velocity cp.Vector // 单位/秒
	Radius   float64   // 命中判定半径
}
