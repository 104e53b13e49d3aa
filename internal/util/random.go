package util

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateRandomString 生成长度为 n 的随机十六进制字符串，用于对象存储 key 去重
func GenerateRandomString(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	for len(s) < n {
		s += strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return s[:n]
}
