package notify

import (
	"github.com/Gunvolt24/wf_cart/internal/domain"
	"github.com/Gunvolt24/wf_cart/internal/ports"
	"github.com/Gunvolt24/wf_cart/pkg/metrics"
)

// Discover - выбор приёмника уведомлений по возможностям фреймов.
// Порядок: self, parent, top; в каждом документе фирменный приёмник важнее простого.
// Недоступный по origin или не объявленный документ молча пропускается.
// Если ничего не найдено, остаётся alert.
func Discover(hello *domain.FrameHello, out ports.FrameOutbox) ports.NotificationPort {
	port := discover(hello, out)
	metrics.NotificationTier.WithLabelValues(port.Tier()).Inc()
	return port
}

func discover(hello *domain.FrameHello, out ports.FrameOutbox) ports.NotificationPort {
	if hello == nil {
		return &alertSink{out: out}
	}
	for _, target := range domain.FrameOrder {
		caps, ok := hello.Frames[target]
		if !ok || caps.CrossOrigin {
			continue
		}
		if caps.Branded {
			return &brandedSink{target: target, out: out}
		}
		if caps.Simple {
			return &simpleSink{target: target, out: out}
		}
	}
	return &alertSink{out: out}
}

// Fallback - приёмник до первого FrameHello.
func Fallback(out ports.FrameOutbox) ports.NotificationPort {
	return &alertSink{out: out}
}
