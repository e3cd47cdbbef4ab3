package sandbox

import (
	"context"
	"strings"
	"testing"
	"time"
)

// 测试用 sh -c 代替 python3，避免依赖解释器环境
func shRunner(timeout time.Duration) *Runner {
	return NewRunner(Config{
		Interpreter:  "sh",
		HelperScript: "-c",
		Timeout:      timeout,
	})
}

func TestExecuteCapturesStdout(t *testing.T) {
	r := shRunner(5 * time.Second)

	res, err := r.Execute(context.Background(), "echo hello")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.ExitedCleanly {
		t.Errorf("expected clean exit, got %+v", res)
	}
	if got := strings.TrimSpace(string(res.Stdout)); got != "hello" {
		t.Errorf("stdout = %q, want %q", got, "hello")
	}
	if len(res.Stderr) != 0 {
		t.Errorf("unexpected stderr: %q", res.Stderr)
	}
}

func TestExecuteCapturesStderrAndExitCode(t *testing.T) {
	r := shRunner(5 * time.Second)

	res, err := r.Execute(context.Background(), "echo boom >&2; exit 3")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.ExitedCleanly {
		t.Error("expected ExitedCleanly=false for non-zero exit")
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if got := strings.TrimSpace(string(res.Stderr)); got != "boom" {
		t.Errorf("stderr = %q, want %q", got, "boom")
	}
	if res.TimedOut {
		t.Error("unexpected timeout")
	}
}

func TestExecuteKillsOnTimeout(t *testing.T) {
	r := shRunner(300 * time.Millisecond)

	start := time.Now()
	res, err := r.Execute(context.Background(), "sleep 10")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.TimedOut {
		t.Fatal("expected TimedOut=true")
	}
	if res.ExitedCleanly {
		t.Error("timed out run must not be a clean exit")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("process was not killed promptly, took %v", elapsed)
	}
}

func TestExecuteRespectsContextCancel(t *testing.T) {
	r := shRunner(10 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	_, err := r.Execute(ctx, "sleep 10")
	if err == nil {
		t.Fatal("expected context error after cancel")
	}
}

func TestExecuteTruncatesOutput(t *testing.T) {
	r := NewRunner(Config{
		Interpreter:    "sh",
		HelperScript:   "-c",
		Timeout:        5 * time.Second,
		OutputMaxBytes: 16,
	})

	res, err := r.Execute(context.Background(), "yes x | head -c 4096")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Stdout) != 16 {
		t.Errorf("stdout length = %d, want capped at 16", len(res.Stdout))
	}
}

func TestExecuteBoundsConcurrency(t *testing.T) {
	r := NewRunner(Config{
		Interpreter:   "sh",
		HelperScript:  "-c",
		Timeout:       5 * time.Second,
		MaxConcurrent: 2,
	})

	done := make(chan struct{}, 4)
	start := time.Now()
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			if _, err := r.Execute(context.Background(), "sleep 0.3"); err != nil {
				t.Errorf("Execute: %v", err)
			}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}

	// 4 个 0.3s 的任务在并发上限 2 下至少要两轮
	if elapsed := time.Since(start); elapsed < 500*time.Millisecond {
		t.Errorf("expected serialized execution, finished in %v", elapsed)
	}
}
