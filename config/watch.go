package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("config")

// Watch 监听配置文件的变化。只有绘图相关的字段（blocksize, log_level）
// 在运行中生效，地图尺寸和时间间隔保持开局时的值
func Watch(ctx context.Context, filePath string, onChange func(*AppConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// 监听目录而不是文件，编辑器保存时常常是先删除再创建
	if err := watcher.Add(filepath.Dir(filePath)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		target := filepath.Clean(filePath)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, err := Load(filePath)
				if err != nil {
					log.Warningf("ignoring config change: %v", err)
					continue
				}
				applied := apply(cfg)
				log.Infof("config reloaded: blocksize=%d log_level=%s", applied.Blocksize, applied.LogLevel)
				if onChange != nil {
					onChange(applied)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Errorf("config watcher: %v", err)
			}
		}
	}()
	return nil
}

// apply 把可热更新的字段合并进当前配置，返回新的配置
func apply(cfg *AppConfig) *AppConfig {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance = cfg
		return instance
	}
	next := *instance
	next.Blocksize = cfg.Blocksize
	next.LogLevel = cfg.LogLevel
	instance = &next
	return instance
}
