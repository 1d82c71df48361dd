package systems

import (
	"log"
	"sort"

	"github.com/decker502/horde/pkg/ecs"
)

// scheduleEpsilon 浮点累加误差容限：60 帧 × (1/60) 可能略小于 1
const scheduleEpsilon = 1e-9

// ScheduledFunc 延迟回调，参数为调度时绑定的目标实体
type ScheduledFunc func(target ecs.EntityID)

type scheduledCallback struct {
	due    float64
	seq    uint64
	name   string
	target ecs.EntityID
	fn     ScheduledFunc
}

// Scheduler 一次性延迟回调队列（模拟时间）
//
// 回调不会并发执行：Advance 在帧边界按调度顺序依次调用到期的回调。
// 每个回调绑定一个目标实体的弱引用（槽位 + 代数），目标已被注册表移除时
// 回调被跳过。目标仍存在但状态已改变的情况由回调自己重新校验。
// 回调不可取消，总会运行（或因目标失效被跳过）。
type Scheduler struct {
	entityManager *ecs.EntityManager

	now     float64
	seq     uint64
	pending []scheduledCallback
}

// NewScheduler 创建延迟回调队列
func NewScheduler(em *ecs.EntityManager) *Scheduler {
	return &Scheduler{entityManager: em}
}

// After 在 delay 秒后调用 fn
// target 为 0 表示不绑定实体，回调总会执行
func (s *Scheduler) After(name string, delay float64, target ecs.EntityID, fn ScheduledFunc) {
	if delay < 0 {
		delay = 0
	}
	s.seq++
	s.pending = append(s.pending, scheduledCallback{
		due:    s.now + delay,
		seq:    s.seq,
		name:   name,
		target: target,
		fn:     fn,
	})
}

// Advance 推进模拟时间并执行所有到期的回调，返回执行的数量
// 回调中新调度的回调最早在下一次 Advance 执行
func (s *Scheduler) Advance(dt float64) int {
	if dt > 0 {
		s.now += dt
	}
	if len(s.pending) == 0 {
		return 0
	}

	var due, rest []scheduledCallback
	for _, cb := range s.pending {
		if cb.due <= s.now+scheduleEpsilon {
			due = append(due, cb)
		} else {
			rest = append(rest, cb)
		}
	}
	s.pending = rest
	if len(due) == 0 {
		return 0
	}

	sort.Slice(due, func(i, j int) bool { return due[i].seq < due[j].seq })

	ran := 0
	for _, cb := range due {
		if cb.target.Valid() && !s.entityManager.IsAlive(cb.target) {
			log.Printf("[Scheduler] Skipped %s: target %v no longer exists", cb.name, cb.target)
			continue
		}
		cb.fn(cb.target)
		ran++
	}
	return ran
}

// Now 返回调度器的模拟时间（秒）
func (s *Scheduler) Now() float64 {
	return s.now
}

// Pending 返回尚未执行的回调数量
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// Reset 丢弃所有未执行的回调并将时间归零
func (s *Scheduler) Reset() {
	s.now = 0
	s.pending = nil
}
