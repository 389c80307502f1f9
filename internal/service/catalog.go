package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/lovenote/lovenote-web/internal/core"
	"github.com/lovenote/lovenote-web/internal/domain/model"
	apperrors "github.com/lovenote/lovenote-web/internal/errors"
	"github.com/lovenote/lovenote-web/internal/observability/metrics"
	"github.com/lovenote/lovenote-web/internal/ports"
	"golang.org/x/sync/singleflight"
)

// Catalog errors.
var (
	// ErrNotReady is returned while the session or the connection check is unresolved.
	ErrNotReady = errors.New("catalog not ready")
	// ErrTemplateNotFound is returned when a template id matches nothing.
	ErrTemplateNotFound = ports.ErrTemplateNotFound
)

// AdvisoryLiveUnavailable is shown alongside fallback data when the live source failed.
const AdvisoryLiveUnavailable = "Impossible de charger les modèles depuis le serveur. Affichage du catalogue hors ligne."

const (
	defaultProbeTimeout     = 3 * time.Second
	defaultRecommendedLimit = 6
)

// CatalogServiceOptions groups dependencies for CatalogService.
type CatalogServiceOptions struct {
	Live         ports.TemplateSource
	Fallback     ports.TemplateSource
	Categories   *core.CategoryCache // optional
	ProbeTimeout time.Duration
	Limit        int
	Logger       *slog.Logger
	// Score draws a recommendation score in [0,1). Defaults to math/rand.
	Score   func() float64
	Metrics metrics.Sink // optional
}

// CatalogService serves the template catalog from the live source when it is
// reachable, and from the built-in fallback otherwise.
type CatalogService struct {
	live       ports.TemplateSource
	fallback   ports.TemplateSource
	categories *core.CategoryCache
	timeout    time.Duration
	limit      int
	score      func() float64
	logger     *slog.Logger
	metrics    metrics.Sink

	probes singleflight.Group
	mu     sync.RWMutex
	status model.ConnectionStatus
}

// NewCatalogService constructs a CatalogService in the checking state.
func NewCatalogService(opts CatalogServiceOptions) *CatalogService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.ProbeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	score := opts.Score
	if score == nil {
		score = rand.Float64
	}
	return &CatalogService{
		live:       opts.Live,
		fallback:   opts.Fallback,
		categories: opts.Categories,
		timeout:    timeout,
		limit:      opts.Limit,
		score:      score,
		logger:     logger.With("component", "catalog_service"),
		metrics:    opts.Metrics,
		status:     model.ConnectionChecking,
	}
}

// Status returns the current connection status.
func (s *CatalogService) Status() model.ConnectionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *CatalogService) setStatus(st model.ConnectionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
}

// Recheck probes the live source and records the outcome. Concurrent calls share one probe.
func (s *CatalogService) Recheck(ctx context.Context) model.ConnectionStatus {
	v, _, _ := s.probes.Do("ping", func() (any, error) {
		probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		st := model.ConnectionConnected
		if s.live == nil {
			st = model.ConnectionFailed
		} else {
			start := time.Now()
			err := s.live.Ping(probeCtx)
			metrics.Since(s.metrics, metrics.CatalogProbe, start, metrics.Tags{"result": metrics.Result(err)})
			if err != nil {
				s.logger.WarnContext(ctx, "live catalog unreachable, serving fallback", "error", err)
				st = model.ConnectionFailed
			}
		}
		s.setStatus(st)
		live := 0.0
		if st == model.ConnectionConnected {
			live = 1
		}
		metrics.Gauge(s.metrics, metrics.CatalogSource, live, nil)
		return st, nil
	})
	st, _ := v.(model.ConnectionStatus)
	return st
}

// TemplateList is the result of a catalog listing.
type TemplateList struct {
	Templates []model.Template       `json:"templates"`
	Status    model.ConnectionStatus `json:"connection_status"`
	Error     string                 `json:"error,omitempty"`
}

// RefreshTemplates lists templates visible to viewer. Live failures degrade to the
// fallback catalog with an advisory message; they are never returned as errors.
func (s *CatalogService) RefreshTemplates(
	ctx context.Context,
	viewer model.Viewer,
	filter model.TemplateFilter,
) (TemplateList, error) {
	st := s.Status()
	if viewer.Loading || st == model.ConnectionChecking {
		return TemplateList{Status: st}, ErrNotReady
	}
	if filter.Limit <= 0 {
		filter.Limit = s.limit
	}

	if st == model.ConnectionConnected {
		ts, err := s.live.ListTemplates(ctx, filter)
		if err == nil {
			return TemplateList{Templates: model.VisibleTo(viewer, ts), Status: st}, nil
		}
		s.logger.WarnContext(ctx, "live template listing failed", "error", err)
		out, _ := s.fallbackList(ctx, viewer, filter)
		out.Status = st
		out.Error = AdvisoryLiveUnavailable
		return out, nil
	}

	return s.fallbackList(ctx, viewer, filter)
}

func (s *CatalogService) fallbackList(
	ctx context.Context,
	viewer model.Viewer,
	filter model.TemplateFilter,
) (TemplateList, error) {
	ts, err := s.fallback.ListTemplates(ctx, filter)
	if err != nil {
		return TemplateList{}, fmt.Errorf("list fallback templates: %w", err)
	}
	return TemplateList{Templates: model.VisibleTo(viewer, ts), Status: s.Status()}, nil
}

// GetTemplateDetails returns one template. When connected and the live source
// fails, the fallback catalog is consulted before reporting the live error.
func (s *CatalogService) GetTemplateDetails(ctx context.Context, id string) (model.Template, error) {
	if s.Status() != model.ConnectionConnected {
		return s.fallback.GetTemplate(ctx, id)
	}

	t, err := s.live.GetTemplate(ctx, id)
	if err == nil || errors.Is(err, ErrTemplateNotFound) {
		return t, err
	}
	s.logger.WarnContext(ctx, "live template lookup failed", "template_id", id, "error", err)
	if fb, fbErr := s.fallback.GetTemplate(ctx, id); fbErr == nil {
		return fb, nil
	}
	return model.Template{}, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "template lookup failed")
}

// GetTemplateImages returns the gallery of a template. Disconnected or failed reads yield an empty list.
func (s *CatalogService) GetTemplateImages(ctx context.Context, id string) []model.TemplateImage {
	if s.Status() != model.ConnectionConnected {
		return []model.TemplateImage{}
	}
	imgs, err := s.live.ListTemplateImages(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "template images unavailable", "template_id", id, "error", err)
		return []model.TemplateImage{}
	}
	return imgs
}

// GetRecommendedTemplates scores up to limit visible templates at random, best first.
// Anonymous viewers get nothing.
func (s *CatalogService) GetRecommendedTemplates(
	ctx context.Context,
	viewer model.Viewer,
	limit int,
) ([]model.RecommendedTemplate, error) {
	if !viewer.Authenticated {
		return []model.RecommendedTemplate{}, nil
	}
	if limit <= 0 {
		limit = defaultRecommendedLimit
	}

	list, err := s.RefreshTemplates(ctx, viewer, model.TemplateFilter{Limit: limit})
	if err != nil {
		return nil, err
	}

	out := make([]model.RecommendedTemplate, len(list.Templates))
	for i, t := range list.Templates {
		out[i] = model.RecommendedTemplate{Template: t, Score: s.score()}
	}
	slices.SortStableFunc(out, func(a, b model.RecommendedTemplate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return out, nil
}

// ListCategories returns active categories, cached when connected.
func (s *CatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	if s.Status() != model.ConnectionConnected {
		return s.fallback.ListCategories(ctx)
	}

	load := s.live.ListCategories
	var (
		cats []model.Category
		err  error
	)
	if s.categories != nil {
		cats, err = s.categories.Categories(ctx, load)
	} else {
		cats, err = load(ctx)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "live categories unavailable, serving fallback", "error", err)
		return s.fallback.ListCategories(ctx)
	}
	return cats, nil
}
