package migrate

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/example/turnover-report/internal/db"
)

//go:embed *.sql
var files embed.FS

// Up applies the embedded .sql files in name order, once each.
func Up(ctx context.Context, d *db.DB) error {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	if err := d.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	for _, name := range names {
		var applied bool
		if err := d.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version=$1)`, name).Scan(&applied); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		if applied {
			continue
		}
		b, err := files.ReadFile(name)
		if err != nil {
			return err
		}
		if err := d.Exec(ctx, strings.TrimSpace(string(b))); err != nil {
			return fmt.Errorf("migrate: apply %s: %w", name, err)
		}
		if err := d.Exec(ctx, `INSERT INTO schema_migrations(version) VALUES ($1)`, name); err != nil {
			return fmt.Errorf("migrate: record %s: %w", name, err)
		}
	}
	return nil
}
