package util

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// ValidateMimeType 读取文件头部 512 字节进行内容嗅探，校验真实 MIME 类型
func ValidateMimeType(file *multipart.FileHeader, allowed ...string) (string, bool) {
	f, err := file.Open()
	if err != nil {
		return "", false
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return "", false
	}

	contentType := http.DetectContentType(buf[:n])
	for _, a := range allowed {
		if strings.HasPrefix(contentType, a) {
			return contentType, true
		}
	}
	return contentType, false
}

// IsImage 根据扩展名判断是否为允许的图片
func IsImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedImageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// IsVideo 根据扩展名判断是否为允许的视频
func IsVideo(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedVideoExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
