package netsvr

import (
	"net/http"

	"github.com/zintix-labs/scratchlab/server/app"
)

// NetSvr 路由 + 啟停，只交給最外層組裝使用；
// 其餘模組只拿到 NetRouter，碰不到 Run/Shutdown。
// NetSvr 同時是 app.Component，可直接交給 app.App 管理生命週期。
type NetSvr interface {
	NetRouter
	app.Component
	Address() string
}

// NetRouter 純路由行為。handler 一律是 net/http 介面，換框架時只需新的 adapter。
type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	Put(path string, h http.HandlerFunc)
	Delete(path string, h http.HandlerFunc)

	Group(path string, fn func(NetRouter))
}
