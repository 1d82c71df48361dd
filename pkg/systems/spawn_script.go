package systems

import (
	"fmt"
	"os"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// SpawnScript 可选的刷怪变体选择脚本（tengo）
//
// 脚本在每次刷怪时运行一次，输入全局变量 roll、elapsed、count，
// 通过全局变量 variant 返回变体名称；留空表示交给配置权重决定。
type SpawnScript struct {
	path     string
	compiled *tengo.Compiled
}

// LoadSpawnScript 从文件加载并编译刷怪脚本
func LoadSpawnScript(path string) (*SpawnScript, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spawn script: %w", err)
	}
	script, err := CompileSpawnScript(src)
	if err != nil {
		return nil, fmt.Errorf("failed to compile spawn script %s: %w", path, err)
	}
	script.path = path
	return script, nil
}

// CompileSpawnScript 编译脚本源码
func CompileSpawnScript(src []byte) (*SpawnScript, error) {
	script := tengo.NewScript(src)
	_ = script.Add("roll", 0.0)
	_ = script.Add("elapsed", 0.0)
	_ = script.Add("count", 0)
	script.SetImports(stdlib.GetModuleMap("math", "rand"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	return &SpawnScript{compiled: compiled}, nil
}

// Pick 运行脚本，返回脚本选择的变体名称（可能为空）
func (s *SpawnScript) Pick(roll, elapsed float64, count int) (string, error) {
	if s == nil || s.compiled == nil {
		return "", nil
	}
	if err := s.compiled.Set("roll", roll); err != nil {
		return "", err
	}
	if err := s.compiled.Set("elapsed", elapsed); err != nil {
		return "", err
	}
	if err := s.compiled.Set("count", count); err != nil {
		return "", err
	}
	if err := s.compiled.Run(); err != nil {
		return "", err
	}
	if !s.compiled.IsDefined("variant") {
		return "", nil
	}
	return strings.TrimSpace(s.compiled.Get("variant").String()), nil
}

// Path 返回脚本文件路径（从源码编译时为空）
func (s *SpawnScript) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}
