package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay 合并编辑器保存时连续触发的多个事件。
const settleDelay = 150 * time.Millisecond

// watch 监听 path 所在目录，path 被写入或重建后调用 rebuild，直到 ctx 结束。
// rebuild 的错误只记录日志，不会终止监听。
func watch(ctx context.Context, path string, logger *slog.Logger, rebuild func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听失败: %w", err)
	}
	defer watcher.Close()

	// 监听目录比直接监听文件可靠，编辑器常以重命名方式保存
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("监听目录失败: %w", err)
	}
	logger.Info("开始监听", slog.String("path", path))

	baseName := filepath.Base(path)
	timer := time.NewTimer(settleDelay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != baseName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(settleDelay)

		case <-timer.C:
			if err := rebuild(); err != nil {
				logger.Error("重新生成失败", slog.Any("err", err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("文件监听出错", slog.Any("err", err))
		}
	}
}
