package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Gunvolt24/wf_cart/internal/domain"
	"github.com/Gunvolt24/wf_cart/internal/repo/postgres"
	"github.com/Gunvolt24/wf_cart/pkg/validate"
)

// CLI-приложение для проверки снимков корзин: из файла/stdin или прямо из Postgres.
func main() {
	inputPath := flag.String("in", "", "path to input (.json or .jsonl). If empty, reads from stdin.")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl")
	dsn := flag.String("dsn", "", "postgres DSN; when set, stored cart snapshots are checked instead of a file")
	flag.Parse()

	ctx := context.Background()
	validator := validate.NewSnapshotValidator()

	if *dsn != "" {
		if err := checkStored(ctx, validator, *dsn); err != nil {
			fmt.Fprintf(os.Stderr, "validation: %v\n", err)
			os.Exit(1)
		}
		return
	}

	format := validate.InputFormat(*formatStr)
	path := *inputPath

	// stdin вариант: считаем, что jsonl
	if path == "" {
		path = "/dev/stdin"
		if format == validate.FormatAuto {
			format = validate.FormatJSONL
		}
	}

	report, err := validate.ValidateFile(ctx, validator, path, format, os.Stdout)
	for _, le := range report.Invalid {
		fmt.Fprintf(os.Stderr, "%v\n", le)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "validation: %v (%s)\n", err, report.Summary())
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "validation ok (%s)\n", report.Summary())
}

// checkStored - проверить снимки корзин всех сессий в Postgres.
func checkStored(ctx context.Context, validator *validate.SnapshotValidator, dsn string) error {
	pool, err := postgres.NewPool(ctx, dsn, 2)
	if err != nil {
		return err
	}
	defer pool.Close()

	storage := postgres.NewClientStorage(pool)

	var valid, invalid int
	err = storage.ScanKey(ctx, domain.StorageKey, func(scope, value string) error {
		if _, verr := validate.SnapshotFromJSON(ctx, validator, []byte(value)); verr != nil {
			invalid++
			fmt.Fprintf(os.Stderr, "session %s: %v\n", scope, verr)
			return nil
		}
		valid++
		fmt.Fprintln(os.Stdout, value)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "stored carts: %d valid / %d invalid\n", valid, invalid)
	if invalid > 0 {
		return fmt.Errorf("%d invalid cart snapshots", invalid)
	}
	return nil
}
