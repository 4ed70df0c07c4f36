package common

import "strings"

/* 不区分大小写的包含判断, 空的 _sub 总是返回 true
Params:
    _str: 原字符串
    _sub: 需要查找的字符串
*/
func ContainsIgnoreCase(_str string, _sub string) bool {
	return strings.Contains(strings.ToLower(_str), strings.ToLower(_sub))
}

/* 以 _sep 分割字符串, 去掉每一项的空白, 并丢弃空项
Params:
    _str: 需要分割的字符串
    _sep: 分隔符
*/
func SplitTrim(_str string, _sep string) []string {
	items := make([]string, 0, 4)
	for _, item := range strings.Split(_str, _sep) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		items = append(items, item)
	}

	return items
}

// 字符串为空时显示 "-"
func OrPlaceholder(_str string) string {
	if strings.TrimSpace(_str) == "" {
		return PLACEHOLDER
	}

	return _str
}

const PLACEHOLDER = "-"
