package utils

import (
	"math"

	"github.com/jakecoffman/cp"
)

// ClosestPointOnSegment 返回线段 [a,b] 上距离 p 最近的点
// 将 p 投影到线段方向上，投影长度钳制在 [0, |ab|]
func ClosestPointOnSegment(p, a, b cp.Vector) cp.Vector {
	seg := b.Sub(a)
	length := seg.Length()
	if length == 0 {
		return a
	}
	dir := seg.Mult(1 / length)
	proj := Clamp(p.Sub(a).Dot(dir), 0, length)
	return a.Add(dir.Mult(proj))
}

// PointNearSegment 判断点 p 是否落在粗细为 radius 的线段 [a,b] 内
// 边界包含：距离恰好等于 radius 视为碰撞
func PointNearSegment(p, a, b cp.Vector, radius float64) bool {
	return p.Distance(ClosestPointOnSegment(p, a, b)) <= radius
}

// PointNearPolyline 判断点 p 是否靠近折线 points 的任意一节
func PointNearPolyline(p cp.Vector, points []cp.Vector, radius float64) bool {
	for i := 1; i < len(points); i++ {
		if PointNearSegment(p, points[i-1], points[i], radius) {
			return true
		}
	}
	return false
}

// Direction 返回从 from 指向 to 的单位向量
// 两点重合时返回零向量（不会产生 NaN）
func Direction(from, to cp.Vector) cp.Vector {
	d := to.Sub(from)
	length := d.Length()
	if length == 0 {
		return cp.Vector{}
	}
	return d.Mult(1 / length)
}

// AngleTo 返回从 from 指向 to 的角度（弧度），两点重合时为 0
func AngleTo(from, to cp.Vector) float64 {
	d := Direction(from, to)
	return math.Atan2(d.Y, d.X)
}

// Clamp 将 v 限制在 [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
