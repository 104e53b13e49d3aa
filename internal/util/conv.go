package util

import (
	"strconv"
	"unicode/utf8"
)

// MustParseUint 解析路径参数里的数字 ID，非法输入得 0，由调用方按记录不存在处理
func MustParseUint(s string) uint {
	v, _ := strconv.ParseUint(s, 10, 32)
	return uint(v)
}

// Truncate 把 s 截到最多 n 字节，用于限制对外透出的错误/反馈长度
// 截点落在多字节字符中间时整个字符丢弃，保证结果仍是合法 UTF-8
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
