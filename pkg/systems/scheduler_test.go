package systems

import (
	"testing"

	"github.com/decker502/horde/pkg/ecs"
)

func TestSchedulerRunsInOrderWhenDue(t *testing.T) {
	em := ecs.NewEntityManager()
	s := NewScheduler(em)

	var order []string
	s.After("b", 1, 0, func(ecs.EntityID) { order = append(order, "b") })
	s.After("a", 0.5, 0, func(ecs.EntityID) { order = append(order, "a") })
	s.After("c", 1, 0, func(ecs.EntityID) { order = append(order, "c") })

	// 60 帧累加到 1 秒（浮点误差由容限吸收）
	for i := 0; i < 30; i++ {
		s.Advance(1.0 / 60)
	}
	if len(order) != 1 || order[0] != "a" {
		t.Fatalf("0.5 秒后应只执行 a, got %v", order)
	}
	for i := 0; i < 30; i++ {
		s.Advance(1.0 / 60)
	}
	if len(order) != 3 || order[1] != "b" || order[2] != "c" {
		t.Errorf("1 秒后应按调度顺序执行 b、c, got %v", order)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", s.Pending())
	}
}

func TestSchedulerSkipsRemovedTarget(t *testing.T) {
	em := ecs.NewEntityManager()
	s := NewScheduler(em)

	target := em.CreateEntity()
	called := false
	s.After("cleanup", 1, target, func(ecs.EntityID) { called = true })

	em.DestroyEntity(target)
	em.RemoveMarkedEntities()
	// 槽位被新实体复用，旧句柄仍应失效
	reused := em.CreateEntity()
	if reused.Index() != target.Index() {
		t.Fatalf("expected slot reuse")
	}

	s.Advance(2)
	if called {
		t.Error("目标已被移除，回调不应执行")
	}
}

func TestSchedulerCallbackSchedulesNext(t *testing.T) {
	em := ecs.NewEntityManager()
	s := NewScheduler(em)

	runs := 0
	s.After("first", 0, 0, func(ecs.EntityID) {
		runs++
		s.After("second", 0, 0, func(ecs.EntityID) { runs++ })
	})

	if n := s.Advance(0); n != 1 || runs != 1 {
		t.Fatalf("第一次 Advance 应只执行一个回调, ran=%d runs=%d", n, runs)
	}
	if n := s.Advance(0); n != 1 || runs != 2 {
		t.Errorf("新调度的回调应在下一次 Advance 执行, ran=%d runs=%d", n, runs)
	}
}
