// Package sandbox 在独立子进程中执行不可信代码。
// 源代码作为唯一的位置参数传给解释器入口脚本，不经过 shell，
// 超时后强制杀死整个进程组并回收输出。
package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sync/atomic"
	"syscall"
	"time"

	"testit_backend/pkg/monitoring"
)

const (
	DefaultTimeout = 10 * time.Second

	defaultMaxConcurrent  = 4
	defaultOutputMaxBytes = 64 * 1024
)

// Result 单次执行的原始信号。Runner 不解释退出码，
// 失败归类（stderr 非空 / 超时）由上层完成。
type Result struct {
	Stdout        []byte
	Stderr        []byte
	ExitCode      int
	ExitedCleanly bool
	TimedOut      bool
}

// Executor 供打分侧依赖的执行接口
type Executor interface {
	Execute(ctx context.Context, source string) (Result, error)
}

type Config struct {
	Interpreter    string        // 默认 python3
	HelperScript   string        // 入口脚本，接收源代码作为 argv[1]
	Timeout        time.Duration // 墙钟超时，默认 10s
	MaxConcurrent  int           // 并发子进程上限
	OutputMaxBytes int64         // stdout/stderr 各自的截断上限
}

type Runner struct {
	cfg Config
	sem chan struct{}
}

func NewRunner(cfg Config) *Runner {
	if cfg.Interpreter == "" {
		cfg.Interpreter = "python3"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.OutputMaxBytes <= 0 {
		cfg.OutputMaxBytes = defaultOutputMaxBytes
	}
	return &Runner{
		cfg: cfg,
		sem: make(chan struct{}, cfg.MaxConcurrent),
	}
}

// Execute 启动一次执行并阻塞到子进程退出或超时。
// 单次尝试，不重试；返回 error 仅表示进程无法启动或调用方取消，
// 运行期失败（非零退出、stderr、超时）通过 Result 上报。
func (r *Runner) Execute(ctx context.Context, source string) (Result, error) {
	select {
	case r.sem <- struct{}{}:
		defer func() { <-r.sem }()
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	args := make([]string, 0, 2)
	if r.cfg.HelperScript != "" {
		args = append(args, r.cfg.HelperScript)
	}
	args = append(args, source)

	cmd := exec.Command(r.cfg.Interpreter, args...)
	// 独立进程组，超时后连同孙进程一起杀掉
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout := newCappedBuffer(r.cfg.OutputMaxBytes)
	stderr := newCappedBuffer(r.cfg.OutputMaxBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("start sandbox process: %w", err)
	}
	pgid := cmd.Process.Pid

	var timedOut atomic.Bool
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			killGroup(pgid)
		case <-time.After(r.cfg.Timeout):
			timedOut.Store(true)
			killGroup(pgid)
		case <-done:
		}
	}()

	waitErr := cmd.Wait()
	close(done)
	duration := time.Since(start)

	res := Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		TimedOut: timedOut.Load(),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	res.ExitedCleanly = waitErr == nil && res.ExitCode == 0 && !res.TimedOut

	monitoring.ObserveSandboxRun(outcomeOf(res), duration)

	if ctx.Err() != nil && !res.TimedOut {
		return res, ctx.Err()
	}
	return res, nil
}

func outcomeOf(res Result) string {
	switch {
	case res.TimedOut:
		return "timeout"
	case res.ExitedCleanly && len(res.Stderr) == 0:
		return "ok"
	default:
		return "error"
	}
}

// killGroup 对进程组发 SIGKILL，进程可能已经退出，错误可忽略
func killGroup(pgid int) {
	_ = syscall.Kill(-pgid, syscall.SIGKILL)
}

// cappedBuffer 限制捕获的输出大小，超出部分丢弃
type cappedBuffer struct {
	buf bytes.Buffer
	max int64
}

func newCappedBuffer(max int64) *cappedBuffer {
	return &cappedBuffer{max: max}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	remain := b.max - int64(b.buf.Len())
	if remain <= 0 {
		return len(p), nil
	}
	if int64(len(p)) > remain {
		b.buf.Write(p[:remain])
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *cappedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}
