package notify

import (
	"context"
	"strings"

	"github.com/Gunvolt24/wf_cart/internal/domain"
	"github.com/Gunvolt24/wf_cart/internal/ports"
)

var (
	_ ports.NotificationPort = (*brandedSink)(nil)
	_ ports.NotificationPort = (*simpleSink)(nil)
	_ ports.NotificationPort = (*alertSink)(nil)
)

// brandedSink - фирменный компонент уведомлений: принимает тост целиком.
type brandedSink struct {
	target domain.FrameTarget
	out    ports.FrameOutbox
}

func (s *brandedSink) Notify(ctx context.Context, t domain.Toast) {
	toast := t
	s.out.Emit(ctx, domain.FrameCommand{
		Kind:   domain.CommandToast,
		Target: s.target,
		Sink:   domain.SinkBranded,
		Toast:  &toast,
	})
}

func (s *brandedSink) Tier() string { return string(s.target) + "." + string(domain.SinkBranded) }

// simpleSink - набор функций success/info/warning/error: заголовок не поддерживается,
// поэтому он склеивается с текстом.
type simpleSink struct {
	target domain.FrameTarget
	out    ports.FrameOutbox
}

func (s *simpleSink) Notify(ctx context.Context, t domain.Toast) {
	toast := domain.Toast{Level: t.Level, Message: joinTitle(t), DurationMs: t.DurationMs}
	s.out.Emit(ctx, domain.FrameCommand{
		Kind:   domain.CommandToast,
		Target: s.target,
		Sink:   domain.SinkSimple,
		Toast:  &toast,
	})
}

func (s *simpleSink) Tier() string { return string(s.target) + "." + string(domain.SinkSimple) }

// alertSink - последний уровень: блокирующий alert в текущем документе.
type alertSink struct {
	out ports.FrameOutbox
}

func (s *alertSink) Notify(ctx context.Context, t domain.Toast) {
	s.out.Emit(ctx, domain.FrameCommand{
		Kind:   domain.CommandAlert,
		Target: domain.FrameSelf,
		Sink:   domain.SinkAlert,
		Text:   joinTitle(t),
	})
}

func (s *alertSink) Tier() string { return string(domain.SinkAlert) }

func joinTitle(t domain.Toast) string {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return t.Message
	}
	return title + ": " + t.Message
}
