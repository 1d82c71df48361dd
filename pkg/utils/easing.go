package utils

import "math"

// EaseOutCubic 三次方缓出，t ∈ [0, 1]
// 开始快结束慢，连击提示文字上浮使用
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}
