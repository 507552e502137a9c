package singleton

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"
)

const (
	// DefaultPort 默认监听端口
	DefaultPort = ":18020"
	// HealthCheckTimeout 健康检查超时时间
	HealthCheckTimeout = 2 * time.Second
)

// CheckAndLock 以端口占用作为单实例锁：
//   - 端口空闲：返回 listener，调用者持有锁
//   - 端口被健康实例占用：返回 (nil, nil)，调用者应直接退出
//   - 端口被占用但 /health 不通：返回错误，由人工介入
func CheckAndLock(port string) (net.Listener, error) {
	listener, err := net.Listen("tcp", port)
	if err == nil {
		return listener, nil
	}

	if !isAddrInUse(err) {
		return nil, fmt.Errorf("failed to listen on port: %w", err)
	}

	if isInstanceRunning(port) {
		return nil, nil
	}
	return nil, fmt.Errorf("port %s is in use but the health check failed", port)
}

// isAddrInUse 判断监听失败是否因为地址已被占用
func isAddrInUse(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.EADDRINUSE) {
		return true
	}
	// Windows 上错误码不经 errors.Is 链路时退回字符串判断
	msg := err.Error()
	return strings.Contains(msg, "address already in use") ||
		strings.Contains(msg, "Only one usage of each socket address")
}

// isInstanceRunning 探测占用端口的进程是否是一个健康的本服务实例
func isInstanceRunning(port string) bool {
	client := &http.Client{Timeout: HealthCheckTimeout}
	resp, err := client.Get(fmt.Sprintf("http://localhost%s/health", port))
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
