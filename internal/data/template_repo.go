package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lovenote/lovenote-web/internal/data/pgxutil"
	"github.com/lovenote/lovenote-web/internal/domain/model"
	apperrors "github.com/lovenote/lovenote-web/internal/errors"
)

// DefaultTemplateLimit caps a template listing when the filter sets no limit.
const DefaultTemplateLimit = 50

// TemplateRepo is the live template catalog backed by Postgres.
type TemplateRepo struct {
	DB           *sql.DB
	defaultLimit int
}

// NewTemplateRepo creates a TemplateRepo. A non-positive defaultLimit selects DefaultTemplateLimit.
func NewTemplateRepo(db *sql.DB, defaultLimit int) *TemplateRepo {
	if defaultLimit <= 0 {
		defaultLimit = DefaultTemplateLimit
	}
	return &TemplateRepo{DB: db, defaultLimit: defaultLimit}
}

// Ping checks that the database answers.
func (r *TemplateRepo) Ping(ctx context.Context) error {
	if err := r.DB.PingContext(ctx); err != nil {
		return apperrors.MapDBError(fmt.Errorf("ping catalog database: %w", err))
	}
	return nil
}

// ListTemplates returns active templates matching filter, most used first.
func (r *TemplateRepo) ListTemplates(ctx context.Context, filter model.TemplateFilter) ([]model.Template, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = r.defaultLimit
	}
	query, args := buildTemplateListQuery(filter, limit)

	var out []model.Template
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, scanTemplate)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

// GetTemplate returns a template by id regardless of its active flag.
func (r *TemplateRepo) GetTemplate(ctx context.Context, id string) (model.Template, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Template{}, ErrTemplateNotFound
	}

	var out model.Template
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, templateSelect+` WHERE t.id = $1`, id)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, scanTemplate)
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Template{}, ErrTemplateNotFound
	}
	if err != nil {
		return model.Template{}, fmt.Errorf("get template: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

// ListTemplateImages returns the gallery of a template by display order.
func (r *TemplateRepo) ListTemplateImages(ctx context.Context, templateID string) ([]model.TemplateImage, error) {
	if _, err := uuid.Parse(templateID); err != nil {
		return []model.TemplateImage{}, nil
	}

	var out []model.TemplateImage
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id::text, template_id::text, image_url, alt_text, display_order
			FROM template_images
			WHERE template_id = $1
			ORDER BY display_order ASC, id ASC`, templateID)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByPos[model.TemplateImage])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list template images: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

// ListCategories returns active categories by display order.
func (r *TemplateRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id::text, name, slug, icon, description, is_active, display_order, created_at, updated_at
			FROM template_categories
			WHERE is_active = TRUE
			ORDER BY display_order ASC, name ASC`)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByPos[model.Category])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

// SeedCatalog upserts categories and templates by slug in one transaction.
// Templates reference their category through CategorySlug.
func (r *TemplateRepo) SeedCatalog(ctx context.Context, cats []model.Category, tpls []model.Template) error {
	err := pgxutil.WithPgxTx(ctx, r.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, c := range cats {
			batch.Queue(`
				INSERT INTO template_categories (name, slug, icon, description, is_active, display_order)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (slug) DO UPDATE SET
					name = EXCLUDED.name, icon = EXCLUDED.icon, description = EXCLUDED.description,
					is_active = EXCLUDED.is_active, display_order = EXCLUDED.display_order, updated_at = now()`,
				c.Name, c.Slug, c.Icon, c.Description, c.IsActive, c.DisplayOrder)
		}
		for _, t := range tpls {
			batch.Queue(`
				INSERT INTO templates (
					name, slug, category_id, is_premium, is_active, preview_image_url, description,
					color_primary, color_secondary, color_accent
				) VALUES (
					$1, $2, (SELECT id FROM template_categories WHERE slug = $3), $4, $5, $6, $7, $8, $9, $10
				)
				ON CONFLICT (slug) DO UPDATE SET
					name = EXCLUDED.name, category_id = EXCLUDED.category_id, is_premium = EXCLUDED.is_premium,
					is_active = EXCLUDED.is_active, preview_image_url = EXCLUDED.preview_image_url,
					description = EXCLUDED.description, color_primary = EXCLUDED.color_primary,
					color_secondary = EXCLUDED.color_secondary, color_accent = EXCLUDED.color_accent,
					updated_at = now()`,
				t.Name, t.Slug, t.CategorySlug, t.IsPremium, t.IsActive, t.PreviewImageURL, t.Description,
				t.ColorPalette.Primary, t.ColorPalette.Secondary, t.ColorPalette.Accent)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("seed catalog: %w", apperrors.MapDBError(err))
	}
	return nil
}

// AddTemplateImage appends an image to a template gallery.
func (r *TemplateRepo) AddTemplateImage(ctx context.Context, img model.TemplateImage) (model.TemplateImage, error) {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			INSERT INTO template_images (template_id, image_url, alt_text, display_order)
			VALUES ($1, $2, $3, $4)
			RETURNING id::text`,
			img.TemplateID, img.ImageURL, img.AltText, img.DisplayOrder).Scan(&img.ID)
	})
	if err != nil {
		return model.TemplateImage{}, fmt.Errorf("add template image: %w", apperrors.MapDBError(err))
	}
	return img, nil
}

const templateSelect = `
	SELECT t.id::text, t.name, t.slug,
	       COALESCE(c.id::text, ''), COALESCE(c.name, ''), COALESCE(c.slug, ''),
	       t.is_premium, t.is_active, t.preview_image_url, t.description,
	       t.color_primary, t.color_secondary, t.color_accent,
	       t.usage_count, t.unique_users, t.total_views, t.created_at, t.updated_at
	FROM templates t
	LEFT JOIN template_categories c ON c.id = t.category_id`

func scanTemplate(row pgx.CollectableRow) (model.Template, error) {
	var t model.Template
	err := row.Scan(
		&t.ID, &t.Name, &t.Slug,
		&t.CategoryID, &t.CategoryName, &t.CategorySlug,
		&t.IsPremium, &t.IsActive, &t.PreviewImageURL, &t.Description,
		&t.ColorPalette.Primary, &t.ColorPalette.Secondary, &t.ColorPalette.Accent,
		&t.UsageCount, &t.UniqueUsers, &t.TotalViews, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// buildTemplateListQuery renders the filtered listing with positional args.
func buildTemplateListQuery(filter model.TemplateFilter, limit int) (string, []any) {
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	where := []string{"t.is_active = TRUE"}
	if filter.HasCategory() {
		where = append(where, "c.slug = "+arg(strings.TrimSpace(filter.CategorySlug)))
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		p := arg("%" + escapeLike(q) + "%")
		where = append(where, "(t.name ILIKE "+p+" OR t.description ILIKE "+p+")")
	}
	if filter.PremiumOnly {
		where = append(where, "t.is_premium = TRUE")
	}

	query := templateSelect +
		" WHERE " + strings.Join(where, " AND ") +
		" ORDER BY t.usage_count DESC, t.created_at DESC" +
		" LIMIT " + arg(limit)
	return query, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
