package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/Gunvolt24/wf_cart/internal/domain"
)

func TestMoney_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Money
		wantErr bool
	}{
		{`9.99`, 999, false},
		{`"19.98"`, 1998, false},
		{`null`, 0, false},
		{`"NaN"`, 0, true},
		{`"Inf"`, 0, true},
		{`"-Infinity"`, 0, true},
		{`1e20`, 0, true},
		{`"abc"`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var m domain.Money
			err := json.Unmarshal([]byte(tt.in), &m)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", m)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m != tt.want {
				t.Fatalf("want %v, got %v", tt.want, m)
			}
		})
	}
}

func TestMoney_String(t *testing.T) {
	if got := domain.Money(2997).String(); got != "29.97" {
		t.Fatalf("got %q", got)
	}
	if got := domain.Money(-5).String(); got != "-0.05" {
		t.Fatalf("got %q", got)
	}
}
