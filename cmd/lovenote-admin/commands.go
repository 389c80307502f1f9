package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lovenote/lovenote-web/internal/adapters/healthprobe"
	"github.com/lovenote/lovenote-web/internal/bootstrap"
	"github.com/lovenote/lovenote-web/internal/core"
	"github.com/lovenote/lovenote-web/internal/data"
	domainauth "github.com/lovenote/lovenote-web/internal/domain/auth"
)

const (
	defaultMigrationTimeout = 5 * time.Minute
	defaultCommandTimeout   = time.Minute
)

type migrateOptions struct {
	Timeout time.Duration
	Status  bool
}

type grantOptions struct {
	Role       domainauth.Role
	Permission string
}

type healthOptions struct {
	URL     string
	Timeout time.Duration
}

var knownRoles = []domainauth.Role{domainauth.RoleAdmin, domainauth.RolePremium, domainauth.RoleUser}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args, cmdCtx.Out)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	return withDB(ctx, cmdCtx, func(db *sql.DB) error {
		if !opts.Status {
			return bootstrap.RunMigrations(ctx, db, cmdCtx.Logger)
		}
		statuses, err := data.MigrationStatus(ctx, db)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
		if err := writef(tw, "VERSION\tAPPLIED\n"); err != nil {
			return err
		}
		for _, st := range statuses {
			if err := writef(tw, "%s\t%t\n", st.Version, st.Applied); err != nil {
				return err
			}
		}
		return tw.Flush()
	})
}

func runSeedCatalog(cmdCtx *commandContext, _ []string) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	static := data.NewStaticCatalog()
	cats, err := static.ListCategories(ctx)
	if err != nil {
		return err
	}
	tpls := static.Templates()

	err = withDB(ctx, cmdCtx, func(db *sql.DB) error {
		return data.NewTemplateRepo(db, cmdCtx.Config.Catalog.Limit).SeedCatalog(ctx, cats, tpls)
	})
	if err != nil {
		return err
	}

	rdb, err := bootstrap.ConnectRedis(ctx, bootstrap.DatabaseConfig{RedisConfig: cmdCtx.Config.Redis, Logger: cmdCtx.Logger})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rdb.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()
	cache := core.NewCategoryCache(core.CategoryCacheOptions{Cache: data.NewRedisCacheRepo(rdb, ""), Logger: cmdCtx.Logger})
	if ierr := cache.Invalidate(ctx); ierr != nil {
		cmdCtx.Logger.Warn("category cache not invalidated", "error", ierr)
	}

	return writef(cmdCtx.Out, "Seeded %d categories and %d templates\n", len(cats), len(tpls))
}

func runGrantPermission(cmdCtx *commandContext, args []string) error {
	return changePermission(cmdCtx, args, "grant-permission", (*data.PermissionRepo).Grant)
}

func runRevokePermission(cmdCtx *commandContext, args []string) error {
	return changePermission(cmdCtx, args, "revoke-permission", (*data.PermissionRepo).Revoke)
}

func changePermission(
	cmdCtx *commandContext,
	args []string,
	name string,
	apply func(*data.PermissionRepo, context.Context, string, string) (bool, error),
) error {
	opts, err := parseGrantFlags(name, args, cmdCtx.Out)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	var changed bool
	err = withDB(ctx, cmdCtx, func(db *sql.DB) error {
		var aerr error
		changed, aerr = apply(data.NewPermissionRepo(db), ctx, string(opts.Role), opts.Permission)
		return aerr
	})
	if err != nil {
		return err
	}
	if !changed {
		return writef(cmdCtx.Out, "No change: %s / %s\n", opts.Role, opts.Permission)
	}
	return writef(cmdCtx.Out, "%s: %s / %s\n", name, opts.Role, opts.Permission)
}

func runListPermissions(cmdCtx *commandContext, _ []string) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	return withDB(ctx, cmdCtx, func(db *sql.DB) error {
		repo := data.NewPermissionRepo(db)
		tw := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
		if err := writef(tw, "ROLE\tPERMISSIONS\n"); err != nil {
			return err
		}
		for _, role := range knownRoles {
			perms, err := repo.PermissionsForRoles(ctx, []domainauth.Role{role})
			if err != nil {
				return err
			}
			if err := writef(tw, "%s\t%s\n", role, strings.Join(perms, ", ")); err != nil {
				return err
			}
		}
		return tw.Flush()
	})
}

func runCheckHealth(cmdCtx *commandContext, args []string) error {
	opts, err := parseHealthFlags(args, cmdCtx.Config.HTTP.BaseURL+bootstrap.HealthCheckPath, cmdCtx.Out)
	if err != nil {
		return err
	}
	prober, err := healthprobe.NewHTTPProber(healthprobe.Options{URL: opts.URL, Timeout: opts.Timeout})
	if err != nil {
		return err
	}
	if err := prober.Probe(cmdCtx.Ctx); err != nil {
		return fmt.Errorf("probe %s: %w", opts.URL, err)
	}
	return writef(cmdCtx.Out, "%s is healthy\n", opts.URL)
}

// withDB connects to Postgres, failing fast when it is unreachable.
func withDB(ctx context.Context, cmdCtx *commandContext, fn func(*sql.DB) error) error {
	dbCfg := cmdCtx.Config.Postgres
	dbCfg.Required = true
	db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{DBConfig: dbCfg, Logger: cmdCtx.Logger})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()
	return fn(db)
}

func parseMigrateFlags(args []string, out io.Writer) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(out)

	opts := migrateOptions{}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "Maximum duration to wait for migrations to complete")
	fs.BoolVar(&opts.Status, "status", false, "List migrations and whether they are applied instead of running them")
	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}
	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseGrantFlags(name string, args []string, out io.Writer) (grantOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)

	var role, perm string
	fs.StringVar(&role, "role", "", "Role name (admin, premium, user)")
	fs.StringVar(&perm, "permission", "", "Permission name, e.g. guests.read")
	if err := fs.Parse(args); err != nil {
		return grantOptions{}, err
	}

	r := domainauth.Role(strings.ToLower(strings.TrimSpace(role)))
	if !slices.Contains(knownRoles, r) {
		return grantOptions{}, fmt.Errorf("--role must be one of admin, premium, user (got %q)", role)
	}
	perm = strings.TrimSpace(perm)
	if perm == "" {
		return grantOptions{}, errors.New("--permission is required")
	}
	return grantOptions{Role: r, Permission: perm}, nil
}

func parseHealthFlags(args []string, defaultURL string, out io.Writer) (healthOptions, error) {
	fs := flag.NewFlagSet("check-health", flag.ContinueOnError)
	fs.SetOutput(out)

	opts := healthOptions{}
	fs.StringVar(&opts.URL, "url", defaultURL, "Health-check URL to probe")
	fs.DurationVar(&opts.Timeout, "timeout", healthprobe.DefaultTimeout, "Probe timeout")
	if err := fs.Parse(args); err != nil {
		return healthOptions{}, err
	}
	if opts.URL == "" {
		return healthOptions{}, errors.New("--url is required")
	}
	return opts, nil
}
