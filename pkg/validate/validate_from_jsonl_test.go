package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Gunvolt24/wf_cart/internal/domain"
)

func TestValidateJSONLStream_Mixed(t *testing.T) {
	ctx := context.Background()
	validator := NewSnapshotValidator()

	input := strings.Join([]string{
		snapshotJSON("WF-TS-001", 2, 9.99),
		`{"items":[],"total":5,"count":0,"timestamp":1}`, // total не совпадает
		"",
		snapshotJSON("WF-HD-02", 1, 34.5),
		`{"items":`,
	}, "\n")

	var out bytes.Buffer
	rep, err := ValidateJSONLStream(ctx, validator, strings.NewReader(input), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Valid != 2 || len(rep.Invalid) != 2 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if !errors.Is(rep.Invalid[0].Err, ErrInvalidSnapshot) || rep.Invalid[0].Line != 2 {
		t.Fatalf("line 2 must fail validation: %v", rep.Invalid[0])
	}
	if rep.Invalid[1].Line != 5 || !strings.Contains(rep.Invalid[1].Error(), "invalid json") {
		t.Fatalf("line 5 must fail parsing: %v", rep.Invalid[1])
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	skus := map[string]bool{}
	for _, l := range lines {
		var snap domain.CartSnapshot
		if err := json.Unmarshal([]byte(l), &snap); err != nil {
			t.Fatalf("output line is not a snapshot: %v", err)
		}
		skus[snap.Items[0].SKU] = true
	}
	if len(skus) != 2 || !skus["WF-TS-001"] || !skus["WF-HD-02"] {
		t.Fatalf("unexpected output skus: %v", skus)
	}
}

func TestValidateJSONLStream_LargeLine(t *testing.T) {
	ctx := context.Background()
	validator := NewSnapshotValidator()

	bigName := strings.Repeat("X", 200_000) // > 64KB
	raw := `{"items":[{"sku":"big","name":"` + bigName + `","price":1,"quantity":1,"image":""}],"total":1,"count":1,"timestamp":1}`

	var out bytes.Buffer
	rep, err := ValidateJSONLStream(ctx, validator, strings.NewReader(raw+"\n"), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Valid != 1 || len(rep.Invalid) != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestValidateJSONLStream_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := ValidateJSONLStream(ctx, NewSnapshotValidator(), strings.NewReader(snapshotJSON("a", 1, 1)), &out)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
