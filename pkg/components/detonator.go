package components

import "github.com/decker502/horde/pkg/ecs"

// DetonatorComponent 自爆僵尸的专有状态
// 闪烁引信使用 TimerComponent 计时（与樱桃炸弹相同的引信模型）
type DetonatorComponent struct {
	Flickering bool // 是否处于引信闪烁
	Exploded   bool // 是否已经爆炸（爆炸是终结状态，只发生一次）
	Exploding  bool // 爆炸后的短暂展示状态（不阻塞死亡）

	DetonationScheduled bool // 被非爆炸方式杀死后，是否已安排延迟引爆

	ExplosionEffect ecs.EntityID // 爆炸粒子发射器（弱引用）
}
