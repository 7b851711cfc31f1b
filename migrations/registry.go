package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	crmconnect "github.com/goliatone/go-crm-connect"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	// SourceLabel identifies this module's migrations to the host registry.
	SourceLabel = "go-crm-connect"

	migrationsPath = "data/sql/migrations"
)

// FilesystemSpec pairs a dialect with the filesystem holding its
// migration files.
type FilesystemSpec struct {
	Dialect string
	Path    string
	FS      fs.FS
}

type Registration struct {
	SourceLabel       string
	ValidationTargets []string
	Filesystems       []FilesystemSpec
}

// RegisterFunc receives one dialect's migration filesystem; the host
// wires it into its own migration runner.
type RegisterFunc func(ctx context.Context, dialect string, sourceLabel string, fsys fs.FS) error

type Option func(*Registration)

// WithValidationTargets restricts registration to the given dialects.
func WithValidationTargets(targets ...string) Option {
	return func(r *Registration) {
		if len(targets) == 0 {
			return
		}
		next := dedupe(targets)
		if len(next) == 0 {
			return
		}
		r.ValidationTargets = next
	}
}

// Filesystems returns the embedded migration filesystems, one per
// supported dialect. Each must contain at least one *.up.sql file.
func Filesystems() ([]FilesystemSpec, error) {
	base, err := fs.Sub(crmconnect.GetCoreMigrationsFS(), migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve %s: %w", migrationsPath, err)
	}
	sqliteFS, err := fs.Sub(base, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve sqlite filesystem: %w", err)
	}

	filesystems := []FilesystemSpec{
		{
			Dialect: DialectPostgres,
			Path:    migrationsPath,
			FS:      base,
		},
		{
			Dialect: DialectSQLite,
			Path:    migrationsPath + "/sqlite",
			FS:      sqliteFS,
		},
	}

	for _, fsys := range filesystems {
		matches, globErr := fs.Glob(fsys.FS, "*.up.sql")
		if globErr != nil {
			return nil, fmt.Errorf("migrations: glob %s %s: %w", fsys.Dialect, fsys.Path, globErr)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("migrations: %s filesystem %q has no *.up.sql files", fsys.Dialect, fsys.Path)
		}
	}

	return filesystems, nil
}

// Register hands the embedded migrations to registerFn, one call per
// targeted dialect.
func Register(ctx context.Context, registerFn RegisterFunc, opts ...Option) (Registration, error) {
	reg := Registration{
		SourceLabel:       SourceLabel,
		ValidationTargets: []string{DialectPostgres, DialectSQLite},
	}

	filesystems, err := Filesystems()
	if err != nil {
		return reg, err
	}
	reg.Filesystems = filesystems

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&reg)
	}

	if len(reg.ValidationTargets) == 0 {
		return reg, fmt.Errorf("migrations: validation targets are required")
	}
	if registerFn == nil {
		return reg, fmt.Errorf("migrations: register function is required")
	}

	for _, fsys := range reg.Filesystems {
		if !slices.Contains(reg.ValidationTargets, fsys.Dialect) {
			continue
		}
		if err := registerFn(ctx, fsys.Dialect, reg.SourceLabel, fsys.FS); err != nil {
			return reg, fmt.Errorf("migrations: register %s (%s): %w", fsys.Dialect, fsys.Path, err)
		}
	}

	return reg, nil
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(strings.ToLower(value))
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
