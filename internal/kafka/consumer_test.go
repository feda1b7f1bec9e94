package kafka

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/wf_cart/internal/kafka/mocks"
	"github.com/Gunvolt24/wf_cart/internal/session"
)

type nopLogger struct{}

func (nopLogger) Debugf(context.Context, string, ...any) {}
func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

var testReaderConfig = kafka.ReaderConfig{Topic: "cart-frames", GroupID: "g1", Brokers: []string{"b:9092"}}

// Результат handler -> коммит; ключ сообщения доходит до handler как session id.
func TestRun_CommitPolicy(t *testing.T) {
	tests := []struct {
		name       string
		handlerErr error
	}{
		{"applied", nil},
		{"invalid frame message", session.ErrInvalidFrameMessage},
		{"wrapped invalid", fmt.Errorf("%w: sessionId is required", session.ErrInvalidFrameMessage)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			r := mocks.NewMockreader(ctrl)
			h := mocks.NewMockframeHandler(ctrl)

			r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
			r.EXPECT().FetchMessage(gomock.Any()).
				Return(kafka.Message{Key: []byte("s-1"), Offset: 7, Value: []byte("payload")}, nil)
			h.EXPECT().HandleFrameMessage(gomock.Any(), "s-1", []byte("payload")).Return(tt.handlerErr)
			r.EXPECT().CommitMessages(gomock.Any(), offsetIs(7)).Return(nil)
			blockUntilCancel(r)

			runAndCancel(t, newTestConsumer(r, h))
		})
	}
}

// Временная ошибка повторяется в той же дорожке; коммит только после успеха.
func TestRun_TemporaryFailureRetriedBeforeCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	h := mocks.NewMockframeHandler(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Key: []byte("s-1"), Offset: 2, Value: []byte("x")}, nil)
	gomock.InOrder(
		h.EXPECT().HandleFrameMessage(gomock.Any(), "s-1", gomock.Any()).Return(errors.New("storage down")),
		h.EXPECT().HandleFrameMessage(gomock.Any(), "s-1", gomock.Any()).Return(nil),
	)
	r.EXPECT().CommitMessages(gomock.Any(), offsetIs(2)).Return(nil)
	blockUntilCancel(r)

	runAndCancel(t, newTestConsumer(r, h))
}

// Ошибки FetchMessage ретраятся; по истечении контекста Run выходит.
func TestRun_FetchError_RetryThenStopOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	h := mocks.NewMockframeHandler(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).
		Return(kafka.Message{}, errors.New("broker error")).
		MinTimes(2)

	c := newTestConsumer(r, h)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	if err := c.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want DeadlineExceeded, got %v", err)
	}
}

// Ошибка CommitMessages только логируется, цикл продолжается.
func TestRun_CommitWarnOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	h := mocks.NewMockframeHandler(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	gomock.InOrder(
		r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Offset: 3, Value: []byte("a")}, nil),
		r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Offset: 4, Value: []byte("b")}, nil),
	)
	h.EXPECT().HandleFrameMessage(gomock.Any(), "", gomock.Any()).Return(nil).Times(2)
	r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(errors.New("temporary")).Times(2)
	blockUntilCancel(r)

	runAndCancel(t, newTestConsumer(r, h))
}

// Handler получает контекст с таймаутом обработки; зависшее сообщение не коммитится.
func TestRun_HandlerGetsProcessTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	h := mocks.NewMockframeHandler(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Value: []byte("slow")}, nil)
	h.EXPECT().HandleFrameMessage(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ []byte) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("handler context has no deadline")
			}
			<-ctx.Done()
			return ctx.Err()
		}).
		MinTimes(1)
	blockUntilCancel(r)

	runAndCancel(t, newTestConsumer(r, h))
}

// Сообщения одной сессии применяются в порядке чтения, даже если первое медленное.
func TestRun_SessionOrderPreserved(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	h := mocks.NewMockframeHandler(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	var calls []*gomock.Call
	for i := 0; i < 6; i++ {
		key := []string{"s-1", "s-2"}[i%2]
		msg := kafka.Message{Key: []byte(key), Offset: int64(i), Value: []byte(fmt.Sprint(i))}
		calls = append(calls, r.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil))
	}
	gomock.InOrder(calls...)
	r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	var (
		mu   sync.Mutex
		seen = map[string][]string{}
	)
	h.EXPECT().HandleFrameMessage(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sid string, raw []byte) error {
			if string(raw) == "0" {
				time.Sleep(20 * time.Millisecond)
			}
			mu.Lock()
			seen[sid] = append(seen[sid], string(raw))
			mu.Unlock()
			return nil
		}).
		Times(6)
	blockUntilCancel(r)

	runAndCancel(t, newTestConsumer(r, h))

	mu.Lock()
	defer mu.Unlock()
	if got := fmt.Sprint(seen["s-1"]); got != "[0 2 4]" {
		t.Fatalf("s-1 order: %s", got)
	}
	if got := fmt.Sprint(seen["s-2"]); got != "[1 3 5]" {
		t.Fatalf("s-2 order: %s", got)
	}
}

// Быстрая дорожка не коммитит оффсет раньше медленной в той же партиции.
func TestRun_CommitWaitsForSlowerLane(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	h := mocks.NewMockframeHandler(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	gomock.InOrder(
		r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Key: []byte("s-1"), Offset: 10, Value: []byte("slow")}, nil),
		r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Key: []byte("s-2"), Offset: 11, Value: []byte("fast")}, nil),
	)
	blockUntilCancel(r)

	release := make(chan struct{})
	fastDone := make(chan struct{})
	h.EXPECT().HandleFrameMessage(gomock.Any(), "s-1", gomock.Any()).
		DoAndReturn(func(context.Context, string, []byte) error { <-release; return nil })
	h.EXPECT().HandleFrameMessage(gomock.Any(), "s-2", gomock.Any()).
		DoAndReturn(func(context.Context, string, []byte) error { close(fastDone); return nil })

	committed := make(chan int64, 2)
	r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
			committed <- msgs[len(msgs)-1].Offset
			return nil
		}).
		Times(1)

	c := newTestConsumer(r, h)
	c.processTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()

	<-fastDone
	select {
	case off := <-committed:
		t.Fatalf("offset %d committed before earlier message finished", off)
	case <-time.After(30 * time.Millisecond):
	}

	close(release)
	select {
	case off := <-committed:
		if off != 11 {
			t.Fatalf("want commit up to 11, got %d", off)
		}
	case <-time.After(time.Second):
		t.Fatal("commit did not happen after slow message finished")
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestLaneFor(t *testing.T) {
	a := kafka.Message{Key: []byte("s-1"), Partition: 3}
	b := kafka.Message{Key: []byte("s-1"), Partition: 0}
	if laneFor(a, 4) != laneFor(b, 4) {
		t.Fatal("same session must map to the same lane")
	}
	if got := laneFor(kafka.Message{Partition: 5}, 4); got != 1 {
		t.Fatalf("unkeyed message must follow its partition, got lane %d", got)
	}
	if got := laneFor(a, 1); got != 0 {
		t.Fatalf("single lane: got %d", got)
	}
}

func TestOffsetTracker_ContiguousPrefix(t *testing.T) {
	tr := newOffsetTracker()
	for _, off := range []int64{5, 6, 9} {
		tr.track(kafka.Message{Partition: 0, Offset: off})
	}
	tr.track(kafka.Message{Partition: 1, Offset: 1})

	if _, ok := tr.done(kafka.Message{Partition: 0, Offset: 6}); ok {
		t.Fatal("6 must wait for 5")
	}
	if m, ok := tr.done(kafka.Message{Partition: 1, Offset: 1}); !ok || m.Offset != 1 {
		t.Fatalf("partitions are independent: %+v ok=%v", m, ok)
	}
	if m, ok := tr.done(kafka.Message{Partition: 0, Offset: 5}); !ok || m.Offset != 6 {
		t.Fatalf("want commit up to 6, got %+v ok=%v", m, ok)
	}
	if m, ok := tr.done(kafka.Message{Partition: 0, Offset: 9}); !ok || m.Offset != 9 {
		t.Fatalf("gaps in offsets are fine: %+v ok=%v", m, ok)
	}
	if _, ok := tr.done(kafka.Message{Partition: 7, Offset: 1}); ok {
		t.Fatal("untracked partition must be ignored")
	}
}

func TestClose_DelegatesToReaderOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	h := mocks.NewMockframeHandler(ctrl)

	r.EXPECT().Close().Return(nil).Times(1)

	c := newTestConsumer(r, h)
	if err := c.Close(); err != nil {
		t.Fatalf("expected nil from Close, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close must be a no-op, got %v", err)
	}
}

func TestBackoff(t *testing.T) {
	c := newTestConsumer(nil, nil)

	if got := c.nextBackoff(4 * time.Millisecond); got != 8*time.Millisecond {
		t.Fatalf("nextBackoff: got %v", got)
	}
	if got := c.nextBackoff(8 * time.Millisecond); got != c.retryMax {
		t.Fatalf("nextBackoff must cap at retryMax, got %v", got)
	}
	for i := 0; i < 50; i++ {
		d := c.withJitterEqual(10 * time.Millisecond)
		if d < 5*time.Millisecond || d > 10*time.Millisecond {
			t.Fatalf("jitter out of range: %v", d)
		}
	}
	if c.withJitterEqual(0) != 0 {
		t.Fatal("zero delay must stay zero")
	}
}

// ------ вспомогательные функции ------

func newTestConsumer(r reader, h frameHandler) *Consumer {
	return &Consumer{
		reader: r, handler: h, log: nopLogger{},
		lanes:          2,
		processTimeout: 30 * time.Millisecond,
		retryInitial:   5 * time.Millisecond,
		retryMax:       10 * time.Millisecond,
		jitterRand:     rand.New(rand.NewSource(1)),
	}
}

// offsetIs - матчер коммита по оффсету последнего сообщения.
func offsetIs(off int64) gomock.Matcher { return offsetMatcher(off) }

type offsetMatcher int64

func (m offsetMatcher) Matches(x any) bool {
	msg, ok := x.(kafka.Message)
	return ok && msg.Offset == int64(m)
}

func (m offsetMatcher) String() string { return fmt.Sprintf("message at offset %d", int64(m)) }

// blockUntilCancel - следующий FetchMessage ждёт отмены контекста.
func blockUntilCancel(r *mocks.Mockreader) {
	r.EXPECT().FetchMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, error) {
			<-ctx.Done()
			return kafka.Message{}, ctx.Err()
		})
}

func runAndCancel(t *testing.T, c *Consumer) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()

	time.Sleep(60 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for Run to stop")
	}
}
