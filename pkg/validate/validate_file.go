package validate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/wf_cart/internal/ports"
)

// InputFormat - формат входного файла со снимками.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// DetectFormat - формат по расширению файла; всё, кроме .jsonl, считается JSON.
func DetectFormat(path string) InputFormat {
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return FormatJSONL
	}
	return FormatJSON
}

// ValidateFile - проверка файла со снимком (JSON) или дампом снимков (JSONL).
// Валидные снимки пишутся в ow. Для одиночного JSON ошибка валидации возвращается как error.
func ValidateFile(ctx context.Context, validator ports.SnapshotValidator, path string, format InputFormat, ow io.Writer) (Report, error) {
	if format == FormatAuto || format == "" {
		format = DetectFormat(path)
	}
	if format != FormatJSON && format != FormatJSONL {
		return Report{}, fmt.Errorf("unsupported format: %s", format)
	}

	file, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	if format == FormatJSONL {
		return ValidateJSONLStream(ctx, validator, file, ow)
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return Report{}, fmt.Errorf("read file: %w", err)
	}
	snap, err := SnapshotFromJSON(ctx, validator, raw)
	if err != nil {
		return Report{Invalid: []LineError{{Line: 1, Err: err}}}, err
	}
	if err := writeCompact(ow, snap); err != nil {
		return Report{}, err
	}
	return Report{Valid: 1}, nil
}
