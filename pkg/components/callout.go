package components

import "github.com/jakecoffman/cp"

// CalloutComponent 连击提示文字（如 "4x COMBO!"）
// 从 Origin 向上漂浮，随时间淡出
type CalloutComponent struct {
	Text   string
	Origin cp.Vector

	Age      float64 // 已显示时间（秒）
	Duration float64 // 显示总时长（秒）
	Rise     float64 // 整个生命周期内上浮的距离（单位）
}
