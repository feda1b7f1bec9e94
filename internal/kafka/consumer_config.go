package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// FrameHello - маленький JSON, большие батчи не нужны.
const (
	maxMessageBytes = 1 << 20
	fetchMaxWait    = 500 * time.Millisecond
)

// ConsumerConfig - параметры чтения топика с сообщениями о фреймах страниц.
type ConsumerConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	StartOffset string // first|earliest или last|latest, по умолчанию last

	// Lanes - сколько сессий обрабатывается параллельно; сообщения одной сессии идут по порядку.
	Lanes          int
	ProcessTimeout time.Duration
	RetryInitial   time.Duration
	RetryMax       time.Duration
}

// ReaderConfig - конфиг kafka.Reader с ручным коммитом оффсетов.
func (c *ConsumerConfig) ReaderConfig() kafka.ReaderConfig {
	rc := kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          c.Topic,
		MinBytes:       1,
		MaxBytes:       maxMessageBytes,
		MaxWait:        fetchMaxWait,
		CommitInterval: 0,
		StartOffset:    kafka.LastOffset,
	}

	switch strings.ToLower(strings.TrimSpace(c.StartOffset)) {
	case "first", "earliest":
		rc.StartOffset = kafka.FirstOffset
	}
	return rc
}
