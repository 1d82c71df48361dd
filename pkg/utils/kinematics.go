package utils

import (
	"math"

	"github.com/jakecoffman/cp"
)

// 肢体运动学
//
// 手臂和触手都是由若干节线段组成的运动链。每节的角度都是绝对角度
// （相对世界坐标系），由"朝向玩家的角度 + 正弦摆动"算出，不依赖上一帧
// 的结果，因此同样的参数总能得到同样的姿态。渲染和碰撞检测使用同一套函数。

// ChainPose 从 base 出发，按每节的长度和绝对角度依次求出各关节位置
// 返回 len(lengths)+1 个点：points[0] 为根部，points[k+1] 为第 k 节末端
func ChainPose(base cp.Vector, lengths, angles []float64) []cp.Vector {
	n := len(lengths)
	if len(angles) < n {
		n = len(angles)
	}
	points := make([]cp.Vector, 0, n+1)
	points = append(points, base)
	cur := base
	for k := 0; k < n; k++ {
		cur = cur.Add(cp.ForAngle(angles[k]).Mult(lengths[k]))
		points = append(points, cur)
	}
	return points
}

// ArmParams 手臂姿态参数
type ArmParams struct {
	Side   float64 // -1 左臂，+1 右臂
	Length float64 // 整条手臂长度，上臂与前臂各占一半
	Swing  float64 // 摆动幅度（最大角 - 最小角）
	Clock  float64 // 动画时钟 + 相位偏移
}

// armShoulderOffset 肩膀到身体中心的距离
const armShoulderOffset = 0.5

// ArmPose 计算一条两节手臂的关节位置：肩、肘、手
//
// 肩膀位于身体中心沿朝向旋转 ±90° 偏移 0.5 处；上臂角度为
// facing + sin(clock)*swing，前臂在上臂基础上再叠加 sin(clock+π/4)*swing
func ArmPose(body cp.Vector, facing float64, p ArmParams) []cp.Vector {
	shoulder := body.Add(cp.ForAngle(facing + math.Pi/2*p.Side).Mult(armShoulderOffset))
	upper := facing + math.Sin(p.Clock)*p.Swing
	fore := upper + math.Sin(p.Clock+math.Pi/4)*p.Swing
	half := p.Length * 0.5
	return ChainPose(shoulder, []float64{half, half}, []float64{upper, fore})
}

// TendrilParams 单条触手的姿态参数
type TendrilParams struct {
	Side      float64 // -1 左侧，+1 右侧
	Index     int     // 同侧第几条，0..PerSide-1
	PerSide   int     // 每侧触手数
	LegLength float64 // 基础长度，各节长度 = LegLength * Ratios[k]
	Thickness float64
	Ratios    []float64
	Amps      []float64 // 各节摆动幅度，缺省为 0
	Phases    []float64 // 各节相位偏移，缺省为 0
	Clock     float64   // 动画时钟 + Index*腿相位差 + 随机相位
	Amplitude float64   // 随机振幅因子
}

// TendrilBase 返回触手根部：身体左/右边缘，按序号沿纵向均匀分布
func TendrilBase(body cp.Vector, p TendrilParams) cp.Vector {
	perSide := p.PerSide
	if perSide <= 0 {
		perSide = 1
	}
	offsetX := (0.5 + p.Thickness/2) * p.Side
	offsetY := (float64(p.Index) - float64(perSide-1)/2) / float64(perSide)
	return body.Add(cp.Vector{X: offsetX, Y: offsetY})
}

// TendrilPose 计算一条触手的关节位置
// 第 k 节角度 = facing + sin(t + Phases[k]) * Amps[k] * side * amplitude，t = Clock mod 2π
// 渲染与碰撞共用这一套几何
func TendrilPose(body cp.Vector, facing float64, p TendrilParams) []cp.Vector {
	t := math.Mod(p.Clock, 2*math.Pi)
	lengths := make([]float64, len(p.Ratios))
	angles := make([]float64, len(p.Ratios))
	for k, ratio := range p.Ratios {
		lengths[k] = p.LegLength * ratio
		angles[k] = facing + math.Sin(t+at(p.Phases, k))*at(p.Amps, k)*p.Side*p.Amplitude
	}
	return ChainPose(TendrilBase(body, p), lengths, angles)
}

func at(values []float64, k int) float64 {
	if k < len(values) {
		return values[k]
	}
	return 0
}
