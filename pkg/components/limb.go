package components

import "github.com/jakecoffman/cp"

// LimbSegment 肢体的一节线段
type LimbSegment struct {
	Start cp.Vector
	End   cp.Vector
}

// LimbSnapshot 冻结的肢体姿态
// 实体死亡或被定身时捕获一次，之后渲染直接复用，不再重新计算运动学
type LimbSnapshot struct {
	Segments []LimbSegment
}

// ArmRigComponent 手臂运动学参数（行走僵尸、自爆僵尸）
// 除 Time、FrameDelay、Frozen 外，其余字段在构造时随机一次后不可变，
// 保证每个僵尸有独特且可复现的步态
type ArmRigComponent struct {
	Length           float64 // 整条手臂长度（上臂、前臂各占一半）
	Thickness        float64 // 线宽
	OscillationSpeed float64 // 每帧动画时钟增量
	MinAngle         float64 // 最小摆动角
	MaxAngle         float64 // 最大摆动角
	Delay            float64 // 相位偏移

	Time       float64 // 动画时钟
	FrameDelay int     // 起步前等待的帧数

	Frozen *LimbSnapshot
}

// Swing 返回摆动幅度
func (a *ArmRigComponent) Swing() float64 {
	return a.MaxAngle - a.MinAngle
}

// TendrilLeg 单条触手的随机因子
type TendrilLeg struct {
	PhaseShift float64 // [0, 2π)
	Amplitude  float64 // [0.9, 1.1)
}

// TendrilRigComponent 触手运动学参数（触手僵尸）
// 触手按 [左侧 0..n-1, 右侧 0..n-1] 顺序存放在 Legs 中
type TendrilRigComponent struct {
	LegLength      float64
	Thickness      float64
	LegsPerSide    int
	AnimationSpeed float64
	LegOffset      float64
	SegmentRatios  []float64
	SegmentAmps    []float64 // 各节摆动幅度，与 SegmentRatios 等长
	SegmentPhases  []float64

	Legs []TendrilLeg

	Time            float64
	LastTargetAngle float64 // 死亡后保持最后的朝向

	Frozen *LimbSnapshot
}
