package path

import (
	"os"
	"path/filepath"
	"runtime"
)

// RootEnv 容器內可直接指定設定檔根目錄
const RootEnv = "CNAPI_ROOT"

// RootPath 傳回專案根目錄；相對的 --env/--config 路徑都以此為基準
func RootPath() string {
	if root := os.Getenv(RootEnv); root != "" {
		return filepath.Clean(root)
	}
	// 原始碼位置：<root>/utils/path/path.go
	if _, filename, _, ok := runtime.Caller(0); ok {
		if root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", "..")); exists(root) {
			return root
		}
	}
	// 編譯後的 binary 搬離原始碼目錄時退回工作目錄
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
