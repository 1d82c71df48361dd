package components

// PlayerComponent 玩家状态（由场景驱动，核心逻辑只读取其位置）
type PlayerComponent struct {
	Speed float64 // 每帧移动距离

	BatCooldown float64 // 球棒挥动冷却（秒）
	BatSwing    float64 // 挥动动画剩余时间（秒）
	BatAngle    float64 // 最近一次挥动的朝向
}
