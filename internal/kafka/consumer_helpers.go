package kafka

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/Gunvolt24/wf_cart/internal/session"
	"github.com/Gunvolt24/wf_cart/pkg/ctxmeta"
	"github.com/Gunvolt24/wf_cart/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

// laneFor - дорожка по ключу сообщения; без ключа - по партиции,
// так порядок внутри партиции всё равно сохраняется.
func laneFor(msg kafka.Message, lanes int) int {
	if lanes <= 1 {
		return 0
	}
	if len(msg.Key) == 0 {
		return msg.Partition % lanes
	}
	h := fnv.New32a()
	_, _ = h.Write(msg.Key)
	return int(h.Sum32() % uint32(lanes))
}

// runLane - сообщения одной дорожки по порядку. Временная ошибка повторяется
// с backoff, пока сообщение не применится или ctx не отменят: следующее сообщение
// той же сессии не должно обогнать предыдущее.
func (c *Consumer) runLane(ctx context.Context, topic string, lane <-chan kafka.Message, handled chan<- kafka.Message) {
	for msg := range lane {
		if !c.applyWithRetry(ctx, topic, msg) {
			continue // ctx отменён, оффсет не коммитим
		}
		select {
		case handled <- msg:
		case <-ctx.Done():
		}
	}
}

// applyWithRetry - true, если сообщение можно коммитить.
func (c *Consumer) applyWithRetry(ctx context.Context, topic string, msg kafka.Message) bool {
	sessionID := string(msg.Key)
	if sessionID != "" {
		ctx = ctxmeta.WithSessionID(ctx, sessionID)
	}

	retry := c.retryInitial
	for {
		if ctx.Err() != nil {
			return false
		}
		pctx, cancel := context.WithTimeout(ctx, c.processTimeout)
		err := c.handler.HandleFrameMessage(pctx, sessionID, msg.Value)
		cancel()

		switch {
		case err == nil:
			metrics.FrameMessagesProcessed.WithLabelValues(topic).Inc()
			return true
		case errors.Is(err, session.ErrInvalidFrameMessage):
			metrics.FrameMessagesFailed.WithLabelValues(topic).Inc()
			c.log.Warnf(ctx, "invalid frame message partition=%d offset=%d: %v (skipped)", msg.Partition, msg.Offset, err)
			return true
		}

		metrics.FrameMessagesFailed.WithLabelValues(topic).Inc()
		sleep := c.withJitterEqual(retry)
		c.log.Warnf(ctx, "frame message failed partition=%d offset=%d: %v (retry in %s)", msg.Partition, msg.Offset, err, sleep)
		if !c.sleepWithBackoff(ctx, sleep) {
			return false
		}
		retry = c.nextBackoff(retry)
	}
}

// runCommitter - коммит продвигается по партиции только через непрерывный
// префикс обработанных сообщений.
func (c *Consumer) runCommitter(ctx context.Context, offsets *offsetTracker, handled <-chan kafka.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-handled:
			upto, ok := offsets.done(msg)
			if !ok {
				continue
			}
			if err := c.reader.CommitMessages(ctx, upto); err != nil {
				c.log.Warnf(ctx, "commit failed partition=%d offset=%d: %v", upto.Partition, upto.Offset, err)
			}
		}
	}
}

// sleepWithBackoff - ждёт d или отмену ctx; false при отмене.
func (c *Consumer) sleepWithBackoff(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) nextBackoff(current time.Duration) time.Duration {
	current *= 2
	if current > c.retryMax {
		return c.retryMax
	}
	return current
}

// withJitterEqual - половина задержки фиксирована, вторая половина случайна.
func (c *Consumer) withJitterEqual(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2

	c.jitterMu.Lock()
	defer c.jitterMu.Unlock()
	return half + time.Duration(c.jitterRand.Int63n(int64(d-half)+1))
}

// offsetTracker - выданные в дорожки оффсеты по партициям в порядке чтения.
type offsetTracker struct {
	mu         sync.Mutex
	partitions map[int]*partitionOffsets
}

type partitionOffsets struct {
	pending []kafka.Message // по возрастанию оффсета
	done    map[int64]bool
}

func newOffsetTracker() *offsetTracker {
	return &offsetTracker{partitions: make(map[int]*partitionOffsets)}
}

func (t *offsetTracker) track(msg kafka.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.partitions[msg.Partition]
	if !ok {
		p = &partitionOffsets{done: make(map[int64]bool)}
		t.partitions[msg.Partition] = p
	}
	p.pending = append(p.pending, msg)
}

// done - отметить сообщение обработанным. Возвращает последнее сообщение
// непрерывного обработанного префикса партиции, если префикс вырос.
func (t *offsetTracker) done(msg kafka.Message) (kafka.Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.partitions[msg.Partition]
	if !ok {
		return kafka.Message{}, false
	}
	p.done[msg.Offset] = true

	var (
		upto     kafka.Message
		advanced bool
	)
	for len(p.pending) > 0 && p.done[p.pending[0].Offset] {
		upto = p.pending[0]
		delete(p.done, upto.Offset)
		p.pending = p.pending[1:]
		advanced = true
	}
	return upto, advanced
}
