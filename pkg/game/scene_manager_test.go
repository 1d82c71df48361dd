package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// recordingScene 记录场景管理器转发来的调用
type recordingScene struct {
	updates []float64
	draws   int
}

func (r *recordingScene) Update(deltaTime float64) { r.updates = append(r.updates, deltaTime) }

func (r *recordingScene) Draw(*ebiten.Image) { r.draws++ }

// closableScene 额外实现 Closer，模拟持有后台 goroutine 的场景
type closableScene struct {
	recordingScene
	closed int
}

func (c *closableScene) Close() { c.closed++ }

func TestSceneManagerDelegates(t *testing.T) {
	t.Run("没有场景时为空操作", func(t *testing.T) {
		sm := NewSceneManager()
		sm.Update(1.0 / 60)
		sm.Draw(nil)
		sm.Close()
		if sm.GetCurrentScene() != nil {
			t.Error("new manager should have no scene")
		}
	})

	t.Run("只转发给当前场景", func(t *testing.T) {
		sm := NewSceneManager()
		first := &recordingScene{}
		second := &recordingScene{}

		sm.SwitchTo(first)
		sm.Update(0.5)
		sm.SwitchTo(second)
		sm.Update(0.25)
		sm.Draw(nil)

		if len(first.updates) != 1 || first.updates[0] != 0.5 || first.draws != 0 {
			t.Errorf("first scene: updates=%v draws=%d", first.updates, first.draws)
		}
		if len(second.updates) != 1 || second.updates[0] != 0.25 || second.draws != 1 {
			t.Errorf("second scene: updates=%v draws=%d", second.updates, second.draws)
		}
		if sm.GetCurrentScene() != Scene(second) {
			t.Error("GetCurrentScene should return the last scene switched to")
		}
	})
}

func TestSceneManagerClosesScenes(t *testing.T) {
	tests := []struct {
		name       string
		run        func(sm *SceneManager, s *closableScene)
		wantClosed int
		wantScene  bool
	}{
		{
			name:       "切换到同一场景不关闭",
			run:        func(sm *SceneManager, s *closableScene) { sm.SwitchTo(s) },
			wantClosed: 0,
			wantScene:  true,
		},
		{
			name:       "离开的场景关闭一次",
			run:        func(sm *SceneManager, s *closableScene) { sm.SwitchTo(&recordingScene{}) },
			wantClosed: 1,
			wantScene:  false,
		},
		{
			name: "Close 关闭当前场景并清空",
			run: func(sm *SceneManager, s *closableScene) {
				sm.Close()
				sm.Close()
			},
			wantClosed: 1,
			wantScene:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewSceneManager()
			s := &closableScene{}
			sm.SwitchTo(s)

			tt.run(sm, s)

			if s.closed != tt.wantClosed {
				t.Errorf("closed = %d, want %d", s.closed, tt.wantClosed)
			}
			if got := sm.GetCurrentScene() == Scene(s); got != tt.wantScene {
				t.Errorf("scene still current = %v, want %v", got, tt.wantScene)
			}
		})
	}
}
