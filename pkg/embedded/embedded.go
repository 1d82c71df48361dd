// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以访问嵌入的资源。
//
// 设置了覆盖目录时，磁盘上存在的同名文件优先于嵌入版本，
// 这样修改 data/config 下的文件无需重新编译即可生效（并可被热重载）。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	dataFS      fs.FS
	overrideDir string
	initialized bool
)

// Init 初始化嵌入的文件系统
// 必须在 main() 开始时、任何资源加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = true
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// SetOverrideDir 设置磁盘覆盖目录（通常是工作目录 "."），空字符串表示只用嵌入资源
func SetOverrideDir(dir string) {
	overrideDir = dir
}

// normalize 标准化路径并检查前缀
// 路径必须以 "data/" 开头
func normalize(path string) (string, error) {
	if !initialized {
		return "", fmt.Errorf("embedded package not initialized, call Init() first")
	}

	// 标准化路径分隔符为正斜杠（embed.FS 使用正斜杠）
	path = filepath.ToSlash(path)

	// 移除可能的 "./" 前缀
	path = strings.TrimPrefix(path, "./")

	if !strings.HasPrefix(path, "data/") {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", path)
	}
	return path, nil
}

// DiskPath 返回覆盖目录中对应文件的路径；未设置覆盖目录或文件不存在时返回 false
func DiskPath(path string) (string, bool) {
	clean, err := normalize(path)
	if err != nil || overrideDir == "" {
		return "", false
	}
	full := filepath.Join(overrideDir, filepath.FromSlash(clean))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", false
	}
	return full, true
}

// Open 打开资源文件，磁盘覆盖优先
func Open(path string) (fs.File, error) {
	clean, err := normalize(path)
	if err != nil {
		return nil, err
	}
	if full, ok := DiskPath(clean); ok {
		return os.Open(full)
	}
	return dataFS.Open(clean)
}

// ReadFile 读取资源文件内容，磁盘覆盖优先
func ReadFile(path string) ([]byte, error) {
	clean, err := normalize(path)
	if err != nil {
		return nil, err
	}
	if full, ok := DiskPath(clean); ok {
		return os.ReadFile(full)
	}
	return fs.ReadFile(dataFS, clean)
}

// Exists 检查资源文件是否存在（磁盘或嵌入）
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// Glob 在嵌入的文件系统中匹配文件
func Glob(pattern string) ([]string, error) {
	clean, err := normalize(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(dataFS, clean)
}

// ReadDir 读取嵌入的目录内容
func ReadDir(path string) ([]fs.DirEntry, error) {
	clean, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(dataFS, clean)
}
