package validate

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/wf_cart/internal/ports"
)

// maxSnapshotLine - верхняя граница одной строки JSONL (дамп большой корзины).
const maxSnapshotLine = 10 * 1024 * 1024

// LineError - причина отбраковки строки JSONL.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

// Report - итог проверки набора снимков.
type Report struct {
	Valid   int
	Invalid []LineError
}

// Summary - "N valid / M invalid".
func (r Report) Summary() string {
	return fmt.Sprintf("%d valid / %d invalid", r.Valid, len(r.Invalid))
}

// ValidateJSONLStream - построчная проверка снимков. Валидные снимки пишутся в ow
// компактным JSON, пустые строки пропускаются, невалидные попадают в Report.Invalid.
func ValidateJSONLStream(ctx context.Context, validator ports.SnapshotValidator, ir io.Reader, ow io.Writer) (Report, error) {
	var rep Report

	scanner := bufio.NewScanner(ir)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSnapshotLine)

	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		snap, err := SnapshotFromJSON(ctx, validator, raw)
		if err != nil {
			rep.Invalid = append(rep.Invalid, LineError{Line: line, Err: err})
			continue
		}
		if err := writeCompact(ow, snap); err != nil {
			return rep, err
		}
		rep.Valid++
	}
	if err := scanner.Err(); err != nil {
		return rep, fmt.Errorf("scan: %w", err)
	}
	return rep, nil
}

func writeCompact(ow io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := ow.Write(append(raw, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
