package util

import (
	"strings"
	"unicode"
)

// Slugify 把标题转成 URL 友好的 slug：小写，连续的非字母数字折叠成单个连字符
// 全部是非 ASCII 字符时可能得到空串，调用方需要自行兜底
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
