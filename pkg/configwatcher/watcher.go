package configwatcher

import (
	"path/filepath"
	"time"

	"portfolio_backend/internal/config"
	"portfolio_backend/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ConfigReloader 收到新配置后的回调，由调用方分发给各服务
type ConfigReloader func(cfg *config.Config)

// Watch 监听配置文件变更，写入停止一秒后重新加载并回调。
// 监听的是文件所在目录而不是文件本身：编辑器和 k8s ConfigMap 都以
// 重命名方式落盘，文件级 watch 在第一次替换后就失效了。
// 阻塞运行，调用方放在独立 goroutine 里；初始化失败返回错误，
// 热加载不可用不影响主流程。
func Watch(configPath string, reloader ConfigReloader) error {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(absPath)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	// 防抖：连续写入只触发一次重载。armed 跟踪定时器是否在走，
	// 避免 Stop 已触发的定时器时在空通道上永久阻塞
	debounce := time.NewTimer(time.Hour)
	if !debounce.Stop() {
		<-debounce.C
	}
	armed := false

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if armed && !debounce.Stop() {
				<-debounce.C
			}
			debounce.Reset(time.Second)
			armed = true
		case <-debounce.C:
			armed = false
			newCfg, err := config.LoadConfig(dir)
			if err != nil {
				logger.Log.Error("Config reload failed, keeping previous config", zap.Error(err))
				continue
			}
			reloader(newCfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("Config watcher error", zap.Error(err))
		}
	}
}
