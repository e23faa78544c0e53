package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock 可控时钟，避免测试中sleep
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestBreaker(trip uint32, cfg Config) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	if cfg.ReadyToTrip == nil {
		cfg.ReadyToTrip = func(c Counts) bool { return c.ConsecutiveFailures >= trip }
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	cb := NewCircuitBreaker("google-books", cfg)
	cb.now = clock.Now
	cb.resetWindow(clock.Now())
	return cb, clock
}

var errUpstream = errors.New("upstream unavailable")

// TestCircuitBreaker_ClosedState 关闭状态正常放行
func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb, _ := newTestBreaker(5, Config{Interval: 10 * time.Second})

	for i := 0; i < 10; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("期望成功，实际失败: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", cb.State())
	}
	if c := cb.Counts(); c.TotalSuccesses != 10 {
		t.Errorf("期望成功10次，实际%d次", c.TotalSuccesses)
	}
}

// TestCircuitBreaker_OpenState 连续失败后熔断，不再调用下游
func TestCircuitBreaker_OpenState(t *testing.T) {
	cb, _ := newTestBreaker(3, Config{})

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errUpstream })
	}
	if cb.State() != StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", cb.State())
	}

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrOpenState) {
		t.Errorf("期望返回ErrOpenState，实际%v", err)
	}
	if called {
		t.Error("熔断器打开时不应该调用实际函数")
	}
}

// TestCircuitBreaker_HalfOpenRecovery 超时后探测成功，恢复为关闭
func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb, clock := newTestBreaker(2, Config{Timeout: time.Minute})

	for i := 0; i < 2; i++ {
		_ = cb.Execute(func() error { return errUpstream })
	}
	clock.Advance(61 * time.Second)

	if cb.State() != StateHalfOpen {
		t.Fatalf("期望状态为HALF_OPEN，实际%s", cb.State())
	}
	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("探测请求期望成功，实际%v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("探测成功后期望CLOSED，实际%s", cb.State())
	}
}

// TestCircuitBreaker_HalfOpenFailure 探测失败重新打开
func TestCircuitBreaker_HalfOpenFailure(t *testing.T) {
	cb, clock := newTestBreaker(1, Config{Timeout: time.Second})

	_ = cb.Execute(func() error { return errUpstream })
	clock.Advance(2 * time.Second)

	_ = cb.Execute(func() error { return errUpstream })
	if cb.State() != StateOpen {
		t.Errorf("探测失败后期望OPEN，实际%s", cb.State())
	}
}

// TestCircuitBreaker_IntervalReset 统计窗口到期清零
func TestCircuitBreaker_IntervalReset(t *testing.T) {
	cb, clock := newTestBreaker(3, Config{Interval: 10 * time.Second})

	_ = cb.Execute(func() error { return errUpstream })
	_ = cb.Execute(func() error { return errUpstream })
	clock.Advance(11 * time.Second)
	_ = cb.Execute(func() error { return errUpstream })

	if cb.State() != StateClosed {
		t.Errorf("窗口重置后不应熔断，实际%s", cb.State())
	}
	if c := cb.Counts(); c.ConsecutiveFailures != 1 {
		t.Errorf("期望连续失败1次，实际%d次", c.ConsecutiveFailures)
	}
}

// TestCircuitBreaker_IsSuccessful 业务结果不计为失败
func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	errNotFound := errors.New("volume not found")
	cb, _ := newTestBreaker(2, Config{
		IsSuccessful: func(err error) bool { return err == nil || errors.Is(err, errNotFound) },
	})

	for i := 0; i < 5; i++ {
		if err := cb.Execute(func() error { return errNotFound }); !errors.Is(err, errNotFound) {
			t.Fatalf("期望原样返回业务错误，实际%v", err)
		}
	}
	if cb.State() != StateClosed {
		t.Errorf("业务错误不应触发熔断，实际%s", cb.State())
	}
}

// TestCircuitBreaker_ContextCanceled 取消的请求不计入失败
func TestCircuitBreaker_ContextCanceled(t *testing.T) {
	cb, _ := newTestBreaker(1, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := cb.ExecuteContext(ctx, func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("期望context.Canceled，实际%v", err)
	}
	if called {
		t.Error("已取消的context不应该调用实际函数")
	}

	err = cb.ExecuteContext(context.Background(), func(context.Context) error { return context.Canceled })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("期望context.Canceled，实际%v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("取消不应触发熔断，实际%s", cb.State())
	}
}

// TestCircuitBreaker_StateChangeCallback 状态切换回调
func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	var transitions []string
	cb, clock := newTestBreaker(1, Config{
		Timeout: time.Second,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	_ = cb.Execute(func() error { return errUpstream })
	clock.Advance(2 * time.Second)
	_ = cb.Execute(func() error { return nil })

	want := []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}
	if len(transitions) != len(want) {
		t.Fatalf("期望%d次状态切换，实际%v", len(want), transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("第%d次切换期望%s，实际%s", i+1, want[i], transitions[i])
		}
	}
}

// TestCircuitBreaker_Concurrent 并发调用无数据竞争
func TestCircuitBreaker_Concurrent(t *testing.T) {
	cb, _ := newTestBreaker(1000, Config{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = cb.Execute(func() error {
				if i%2 == 0 {
					return errUpstream
				}
				return nil
			})
		}(i)
	}
	wg.Wait()

	c := cb.Counts()
	if c.TotalSuccesses+c.TotalFailures != 50 {
		t.Errorf("期望共50次调用，实际%d次", c.TotalSuccesses+c.TotalFailures)
	}
}
