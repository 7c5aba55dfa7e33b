package app

import "context"

// Component 可啟動 / 可關閉的長生命週期元件，例如 HTTP server。
// Run 阻塞到元件停止；Shutdown 需尊重 ctx 的 deadline。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}
