// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
)

// InputState 存储当前帧的输入状态
// 由 ReadInput 从 ebiten 采集，终端查看器自行构造，场景只读取这个结构
type InputState struct {
	// Move 移动方向（未归一化，各分量为 -1/0/1）
	Move cp.Vector
	// Swing 挥动球棒
	Swing bool
	// Fire 发射照明弹，目标为指针位置（屏幕坐标）
	Fire     bool
	PointerX int
	PointerY int
	// Restart 游戏结束后重新开始
	Restart bool
	// ToggleDebug 切换调试叠加层
	ToggleDebug bool
	// ToggleSound 切换音效
	ToggleSound bool
}

// MoveVector 由四个方向键合成移动方向
func MoveVector(up, down, left, right bool) cp.Vector {
	var v cp.Vector
	if up {
		v.Y--
	}
	if down {
		v.Y++
	}
	if left {
		v.X--
	}
	if right {
		v.X++
	}
	return v
}

// ReadInput 采集当前帧的键盘、鼠标和触摸输入
func ReadInput() InputState {
	state := InputState{
		Move: MoveVector(
			ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
			ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
			ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
			ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		),
		Swing:       inpututil.IsKeyJustPressed(ebiten.KeySpace),
		Restart:     inpututil.IsKeyJustPressed(ebiten.KeyR),
		ToggleDebug: inpututil.IsKeyJustPressed(ebiten.KeyF3),
		ToggleSound: inpututil.IsKeyJustPressed(ebiten.KeyM),
	}

	if pressed, x, y := IsJustTouchedOrClicked(); pressed {
		state.Fire = true
		state.PointerX, state.PointerY = x, y
	} else {
		state.PointerX, state.PointerY = GetPointerPosition()
	}
	return state
}

// IsJustTouchedOrClicked 检查是否刚刚发生点击或触摸
// 返回是否点击以及点击位置
func IsJustTouchedOrClicked() (bool, int, int) {
	// 检查触摸
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	// 检查鼠标
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}

// GetPointerPosition 获取当前指针位置（触摸或鼠标）
// 优先返回触摸位置，如果没有触摸则返回鼠标位置
func GetPointerPosition() (int, int) {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		return ebiten.TouchPosition(touchIDs[0])
	}
	return ebiten.CursorPosition()
}
