//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// UniqueTopicAndGroup - topic и group для одного теста: base + метка времени.
func UniqueTopicAndGroup(base string) (topic, group string) {
	stamp := strings.ReplaceAll(time.Now().UTC().Format("20060102T150405.000000000"), ".", "")
	name := fmt.Sprintf("%s-%s", base, stamp)
	return name, name + "-g"
}

// EnsureTopic - создать топик через контроллер кластера и дождаться его в метаданных.
// broker: "host:port", "PLAINTEXT://host:port" или список через запятую.
func EnsureTopic(ctx context.Context, broker, topic string) error {
	addr := bootstrapAddr(broker)

	conn, err := kafka.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctrl, err := conn.Controller()
	if err != nil {
		return err
	}

	admin, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	if err != nil {
		return err
	}
	defer admin.Close()

	err = admin.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) &&
		!strings.Contains(strings.ToLower(err.Error()), "already exists") {
		return err
	}

	return waitForPartitions(ctx, addr, topic, 5*time.Second)
}

// Frame - сообщение шлюза страниц: ключ = session id.
func Frame(sessionID string, payload []byte) kafka.Message {
	return kafka.Message{Key: []byte(sessionID), Value: payload}
}

// WriteFrames - опубликовать сообщения в топик и дождаться подтверждения.
// Hash-балансировщик кладёт сообщения одной сессии в одну партицию.
func WriteFrames(ctx context.Context, brokers []string, topic string, msgs ...kafka.Message) error {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.Hash{},
	}
	defer w.Close()

	return w.WriteMessages(ctx, msgs...)
}

// bootstrapAddr - первый адрес списка без схемы.
func bootstrapAddr(raw string) string {
	first := strings.TrimSpace(strings.Split(raw, ",")[0])
	if strings.Contains(first, "://") {
		if u, err := url.Parse(first); err == nil && u.Host != "" {
			return u.Host
		}
	}
	return first
}

func waitForPartitions(ctx context.Context, broker, topic string, wait time.Duration) error {
	deadline := time.Now().Add(wait)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c, err := kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			var parts []kafka.Partition
			parts, err = c.ReadPartitions(topic)
			_ = c.Close()
			if err == nil && len(parts) > 0 {
				return nil
			}
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("topic %q not ready: %v", topic, err)
		}
		time.Sleep(200 * time.Millisecond)
	}
}
