package components

// BehaviorType 定义危险实体的变体类型
// 创建时确定，之后不再改变；BehaviorSystem 根据它从行为表中选择处理函数
type BehaviorType int

const (
	// BehaviorWalker 普通行走僵尸：追踪玩家，着火后继续燃烧并向周围蔓延，燃尽后死亡淡出
	BehaviorWalker BehaviorType = iota
	// BehaviorDetonator 自爆僵尸：着火或被近战击中后进入闪烁状态，闪烁结束后爆炸
	// 爆炸点燃半径内所有僵尸，玩家在半径内则游戏结束
	BehaviorDetonator
	// BehaviorTendril 触手僵尸：两侧各三条五节触手，触手碰到玩家即游戏结束
	// 着火即死亡，并立即点燃身边的所有僵尸
	BehaviorTendril
)

// String 返回行为类型的名称（日志用）
func (t BehaviorType) String() string {
	switch t {
	case BehaviorWalker:
		return "walker"
	case BehaviorDetonator:
		return "detonator"
	case BehaviorTendril:
		return "tendril"
	default:
		return "unknown"
	}
}

// BehaviorComponent 标识实体的行为类型
// 此组件用于让 BehaviorSystem 识别实体应执行何种行为逻辑
type BehaviorComponent struct {
	Type BehaviorType
}
