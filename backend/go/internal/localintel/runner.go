// Package localintel 以子进程方式调用本地事实引擎。
//
// 引擎的调用方式为 `<path> <message>`，在 stdout 输出一行 "<fact> | <mood>"。
// 输出不可信，由聊天服务解析，这里不做解析。
package localintel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"Jaffer/backend/go/internal/config"
)

var (
	// ErrNotConfigured 表示没有配置引擎路径。
	ErrNotConfigured = errors.New("local engine is not configured")
	// ErrTimeout 表示引擎没有在超时时间内结束。
	ErrTimeout = errors.New("local engine timed out")
)

const (
	// DefaultTimeout 是单次调用的默认超时。
	DefaultTimeout = 5 * time.Second
	// MaxOutputBytes 是保留的 stdout 上限，超出部分被丢弃。
	MaxOutputBytes = 64 << 10
	// waitDelay 是进程被杀死后 Wait 继续读取管道的时间。
	waitDelay = 500 * time.Millisecond
)

// Runner 调用事实引擎可执行文件。
type Runner struct {
	Path    string        // 可执行文件路径
	Dir     string        // 工作目录，为空时使用当前目录
	Timeout time.Duration // 单次调用的硬超时
}

// NewRunner 根据配置创建 Runner。
func NewRunner(cfg config.LocalEngineConfig) *Runner {
	return &Runner{
		Path:    cfg.Path,
		Dir:     cfg.Dir,
		Timeout: config.Duration(cfg.Timeout, DefaultTimeout),
	}
}

// Query 以 message 作为唯一参数运行引擎并返回 stdout。
// stderr 被丢弃，非零退出码视为错误，stdout 最多保留 MaxOutputBytes 字节。
func (r *Runner) Query(ctx context.Context, message string) (string, error) {
	if r == nil || r.Path == "" {
		return "", ErrNotConfigured
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stdout := &cappedBuffer{limit: MaxOutputBytes}
	cmd := exec.CommandContext(ctx, r.Path, message)
	cmd.Dir = r.Dir
	cmd.Stdout = stdout
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	if err != nil {
		return "", fmt.Errorf("run local engine %s: %w", r.Path, err)
	}
	return strings.TrimRight(stdout.String(), "\r\n"), nil
}

// cappedBuffer 只保留前 limit 个字节，其余静默丢弃，子进程不会因写失败而退出。
type cappedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	return b.buf.String()
}
