package kafka

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/Gunvolt24/wf_cart/internal/ports"
	"github.com/Gunvolt24/wf_cart/pkg/metrics"
	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

var _ ports.MessageConsumer = (*Consumer)(nil)

const (
	defaultLanes      = 4
	laneBuffer        = 16
	defaultProcessTTL = 5 * time.Second
)

// reader - то, что Consumer берёт от kafka.Reader; в тестах подменяется моком.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// frameHandler - применяет FrameHello к сессии. sessionID берётся из ключа сообщения
// и может быть пустым, тогда сессию определяет сам payload.
type frameHandler interface {
	HandleFrameMessage(ctx context.Context, sessionID string, raw []byte) error
}

// Consumer - раздаёт сообщения шлюза страниц по дорожкам (lanes).
//
// Шлюз публикует FrameHello с ключом = session id, поэтому все сообщения сессии
// лежат в одной партиции. Consumer сохраняет этот порядок: сессия всегда попадает
// в одну и ту же дорожку, а дорожка обрабатывает сообщения строго по одному.
// Разные сессии идут параллельно. Оффсет партиции коммитится только до первого
// ещё не обработанного сообщения (at-least-once).
type Consumer struct {
	reader         reader
	handler        frameHandler
	log            ports.Logger
	lanes          int
	processTimeout time.Duration
	retryInitial   time.Duration
	retryMax       time.Duration

	jitterMu   sync.Mutex
	jitterRand *rand.Rand

	closeOnce sync.Once
}

func NewConsumer(cfg *ConsumerConfig, handler frameHandler, log ports.Logger) *Consumer {
	c := &Consumer{
		reader:         kafka.NewReader(cfg.ReaderConfig()),
		handler:        handler,
		log:            log,
		lanes:          cfg.Lanes,
		processTimeout: cfg.ProcessTimeout,
		retryInitial:   cfg.RetryInitial,
		retryMax:       cfg.RetryMax,
		jitterRand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if c.lanes <= 0 {
		c.lanes = defaultLanes
	}
	if c.processTimeout <= 0 {
		c.processTimeout = defaultProcessTTL
	}
	if c.retryInitial <= 0 {
		c.retryInitial = time.Second
	}
	if c.retryMax <= 0 {
		c.retryMax = 30 * time.Second
	}
	return c
}

// Run - читать топик до отмены ctx. Возвращает ctx.Err() после того,
// как все дорожки закончили текущие сообщения.
func (c *Consumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.log.Infof(ctx, "frame consumer started topic=%s group_id=%s lanes=%d", rc.Topic, rc.GroupID, c.lanes)

	g, gctx := errgroup.WithContext(ctx)
	offsets := newOffsetTracker()
	handled := make(chan kafka.Message, c.lanes*laneBuffer)

	lanes := make([]chan kafka.Message, c.lanes)
	for i := range lanes {
		lane := make(chan kafka.Message, laneBuffer)
		lanes[i] = lane
		g.Go(func() error {
			c.runLane(gctx, rc.Topic, lane, handled)
			return nil
		})
	}
	g.Go(func() error {
		c.runCommitter(gctx, offsets, handled)
		return nil
	})

	c.fetchLoop(gctx, rc.Topic, offsets, lanes)
	for _, lane := range lanes {
		close(lane)
	}
	_ = g.Wait()
	return ctx.Err()
}

// Close - закрывает reader один раз.
func (c *Consumer) Close() (retErr error) {
	c.closeOnce.Do(func() {
		retErr = c.reader.Close()
	})
	return retErr
}

// fetchLoop - читать и раскладывать по дорожкам; ошибки чтения ретраятся с backoff.
func (c *Consumer) fetchLoop(ctx context.Context, topic string, offsets *offsetTracker, lanes []chan kafka.Message) {
	retry := c.retryInitial
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			sleep := c.withJitterEqual(retry)
			c.log.Warnf(ctx, "fetch failed: %v (will retry in %s)", err, sleep)
			if !c.sleepWithBackoff(ctx, sleep) {
				return
			}
			retry = c.nextBackoff(retry)
			continue
		}
		retry = c.retryInitial
		metrics.FrameMessagesConsumed.WithLabelValues(topic).Inc()

		offsets.track(msg)
		select {
		case lanes[laneFor(msg, len(lanes))] <- msg:
		case <-ctx.Done():
			return
		}
	}
}
