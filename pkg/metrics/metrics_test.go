package metrics_test

import (
	"testing"

	"github.com/Gunvolt24/wf_cart/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMustRegister_IsIdempotent(t *testing.T) {
	// Повторная регистрация не должна паниковать.
	metrics.MustRegister()
	metrics.MustRegister()
}

func TestFrameCounters_Inc(t *testing.T) {
	metrics.MustRegister()

	beforeConsumed := testutil.ToFloat64(metrics.FrameMessagesConsumed.WithLabelValues("frames"))
	beforeProcessed := testutil.ToFloat64(metrics.FrameMessagesProcessed.WithLabelValues("frames"))
	beforeFailed := testutil.ToFloat64(metrics.FrameMessagesFailed.WithLabelValues("frames"))

	metrics.FrameMessagesConsumed.WithLabelValues("frames").Inc()
	metrics.FrameMessagesProcessed.WithLabelValues("frames").Inc()
	metrics.FrameMessagesFailed.WithLabelValues("frames").Inc()

	if got := testutil.ToFloat64(metrics.FrameMessagesConsumed.WithLabelValues("frames")); got != beforeConsumed+1 {
		t.Fatalf("FrameMessagesConsumed: got=%v want=%v", got, beforeConsumed+1)
	}
	if got := testutil.ToFloat64(metrics.FrameMessagesProcessed.WithLabelValues("frames")); got != beforeProcessed+1 {
		t.Fatalf("FrameMessagesProcessed: got=%v want=%v", got, beforeProcessed+1)
	}
	if got := testutil.ToFloat64(metrics.FrameMessagesFailed.WithLabelValues("frames")); got != beforeFailed+1 {
		t.Fatalf("FrameMessagesFailed: got=%v want=%v", got, beforeFailed+1)
	}
}

func TestCheckoutOutcomes_ByLabels(t *testing.T) {
	metrics.MustRegister()

	okBefore := testutil.ToFloat64(metrics.CheckoutOutcomes.WithLabelValues("redirected_receipt", ""))
	rejBefore := testutil.ToFloat64(metrics.CheckoutOutcomes.WithLabelValues("method_selection", "validation"))

	metrics.CheckoutOutcomes.WithLabelValues("redirected_receipt", "").Inc()
	metrics.CheckoutOutcomes.WithLabelValues("redirected_receipt", "").Inc()

	if got := testutil.ToFloat64(metrics.CheckoutOutcomes.WithLabelValues("redirected_receipt", "")); got != okBefore+2 {
		t.Fatalf("CheckoutOutcomes(ok): got=%v want=%v", got, okBefore+2)
	}
	if got := testutil.ToFloat64(metrics.CheckoutOutcomes.WithLabelValues("method_selection", "validation")); got != rejBefore {
		t.Fatalf("CheckoutOutcomes(rejected): got=%v want=%v", got, rejBefore)
	}
}

func TestSessionsActive_GaugeSet(t *testing.T) {
	metrics.MustRegister()

	cur := testutil.ToFloat64(metrics.SessionsActive)

	metrics.SessionsActive.Set(cur + 3)
	if got := testutil.ToFloat64(metrics.SessionsActive); got != cur+3 {
		t.Fatalf("SessionsActive after +3: got=%v want=%v", got, cur+3)
	}

	metrics.SessionsActive.Set(cur)
	if got := testutil.ToFloat64(metrics.SessionsActive); got != cur {
		t.Fatalf("SessionsActive restore: got=%v want=%v", got, cur)
	}
}
