package utils

import (
	"math"
	"testing"
)

func TestEaseOutCubic(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点", 0.0, 0.0},
		{"中点", 0.5, 0.875}, // 1 - (1-0.5)^3
		{"终点", 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EaseOutCubic(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("EaseOutCubic(%v) = %v, 期望 %v", tt.input, result, tt.expected)
			}
		})
	}

	// 单调递增
	prev := 0.0
	for i := 1; i <= 10; i++ {
		v := EaseOutCubic(float64(i) / 10)
		if v < prev {
			t.Fatalf("EaseOutCubic not monotonic at %d: %v < %v", i, v, prev)
		}
		prev = v
	}
}
