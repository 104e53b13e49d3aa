package util

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoInfo 学院视频元数据，上传时探测后写入视频记录
type VideoInfo struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Duration float64 `json:"duration"` // 秒
	Size     int64   `json:"size"`
	Format   string  `json:"format"`
}

// ProbeVideo 使用 ffmpeg-go 探测视频文件的时长、分辨率与容器格式
func ProbeVideo(videoPath string) (*VideoInfo, error) {
	fileInfo, err := os.Stat(videoPath)
	if err != nil {
		return nil, fmt.Errorf("视频文件不存在: %v", err)
	}

	jsonOutput, err := ffmpeg.Probe(videoPath)
	if err != nil {
		return nil, fmt.Errorf("获取视频信息失败: %v", err)
	}

	var probed struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
			Size     string `json:"size"`
			Format   string `json:"format_name"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(jsonOutput), &probed); err != nil {
		return nil, fmt.Errorf("解析视频信息失败: %v", err)
	}

	info := &VideoInfo{Format: "unknown", Size: fileInfo.Size()}
	for _, stream := range probed.Streams {
		if stream.CodecType == "video" {
			info.Width = stream.Width
			info.Height = stream.Height
			break
		}
	}
	if d, err := strconv.ParseFloat(probed.Format.Duration, 64); err == nil {
		info.Duration = d
	}
	if s, err := strconv.ParseInt(probed.Format.Size, 10, 64); err == nil {
		info.Size = s
	}
	if probed.Format.Format != "" {
		info.Format = strings.SplitN(probed.Format.Format, ",", 2)[0]
	}
	return info, nil
}

// FormatDuration 将秒数格式化为展示用时长，如 "45 min" / "1 h 20 min"
func FormatDuration(seconds float64) string {
	minutes := int(seconds+30) / 60
	if minutes < 1 {
		minutes = 1
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return fmt.Sprintf("%d h", h)
	}
	return fmt.Sprintf("%d h %d min", h, m)
}

// GenerateThumbnail 从视频指定时间点抓取一帧作为封面图
func GenerateThumbnail(videoPath, thumbnailPath, timeOffset string) error {
	if err := os.MkdirAll(filepath.Dir(thumbnailPath), 0755); err != nil {
		return fmt.Errorf("创建缩略图目录失败: %v", err)
	}

	return ffmpeg.Input(videoPath, ffmpeg.KwArgs{
		"ss": timeOffset, // 抓帧时间点
	}).
		Output(thumbnailPath, ffmpeg.KwArgs{
			"vframes": "1",
			"q:v":     "2", // 图像质量 (1-31, 越小越好)
		}).
		OverWriteOutput().
		Run()
}

// GetFFmpegVersion 返回本机 ffmpeg 版本，启动时用来探测依赖是否就绪
func GetFFmpegVersion() (string, error) {
	out, err := exec.Command("ffmpeg", "-version", "-hide_banner").Output()
	if err != nil {
		return "", fmt.Errorf("ffmpeg 不可用，请确认已安装并在 PATH 中: %w", err)
	}
	return string(out), nil
}
