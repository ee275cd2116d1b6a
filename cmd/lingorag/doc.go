/*
Package main 提供 LingoRAG 服务端程序入口。

cmd/lingorag 是英语语法问答助手的可执行入口，提供 HTTP API 服务、
健康检查和版本查询子命令。程序支持 YAML 配置文件加载、结构化日志
（zap）和 Prometheus 指标采集。

  - 子命令：serve（启动服务）、version、health
  - 中间件链：Recovery、RequestID、RequestLogger
  - 优雅关闭：信号监听 → 关闭 HTTP → 等待在途请求
  - 构建注入：Version、BuildTime、GitCommit 通过 ldflags 设置
*/
package main
