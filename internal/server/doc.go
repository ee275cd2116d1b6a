// Package server 提供 HTTP 服务器的生命周期管理：
// 非阻塞启动、信号监听和优雅关闭。
package server
