package components

// TimerComponent 通用计时器组件
// 自爆僵尸的引信闪烁用它累积模拟时间，到期后由行为系统触发爆炸
type TimerComponent struct {
	Name        string  // 计时器名称，如 "flicker"
	TargetTime  float64 // 目标时间（秒）
	CurrentTime float64 // 当前已过时间（秒），只随 Update 的 dt 增长
	IsReady     bool    // 计时器是否已完成
}
