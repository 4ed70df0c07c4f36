package common

import (
	"fmt"
	"path"
	"runtime"
)

// 获取调用者所在的 文件:行号, 用于拼接日志和错误信息
func CurrLine() string {
	_, filePath, line, ok := runtime.Caller(1)
	if !ok {
		return "无法获取行号"
	}

	return fmt.Sprintf("%v:%v", path.Base(filePath), line)
}
