package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"popcheck/frontend/branch"
	"popcheck/infrastructure/metrics"
	"popcheck/models"
)

const maxSourceBytes = 10 << 20

// Service holds the merged in-memory catalog. Reloads replace the
// whole catalog; a failed reload keeps the previous one so a flaky
// sheet endpoint degrades the service instead of emptying it.
type Service struct {
	client  *http.Client
	sources map[models.Category]string

	mu       sync.RWMutex
	items    []models.CatalogItem
	branches []string
	ready    bool
	loadedAt time.Time
}

func NewService(client *http.Client, sources map[models.Category]string) *Service {
	if client == nil {
		client = http.DefaultClient
	}
	return &Service{client: client, sources: sources}
}

// LoadAll fetches every configured category source in parallel and
// replaces the catalog with the merged result. Any fetch failure
// aborts the whole load and retains the previous catalog. The last
// load to complete wins.
func (s *Service) LoadAll(ctx context.Context) error {
	texts := make(map[models.Category]string, len(s.sources))
	var textsMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for category, url := range s.sources {
		category, url := category, url
		g.Go(func() error {
			text, err := s.fetchSource(gctx, url)
			if err != nil {
				return fmt.Errorf("fetch %s source: %w", category, err)
			}
			textsMu.Lock()
			texts[category] = text
			textsMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.CatalogLoads.WithLabelValues("failed").Inc()
		s.mu.Lock()
		s.ready = false
		s.mu.Unlock()
		return err
	}

	merged := make([]models.CatalogItem, 0)
	branchSet := make(map[string]struct{})
	branches := make([]string, 0)
	for _, category := range models.Categories {
		text, ok := texts[category]
		if !ok {
			continue
		}
		items, names := Ingest(text, category)
		merged = append(merged, items...)
		for _, name := range names {
			if _, seen := branchSet[name]; seen {
				continue
			}
			branchSet[name] = struct{}{}
			branches = append(branches, name)
		}
	}

	s.mu.Lock()
	s.items = merged
	s.branches = branches
	s.ready = true
	s.loadedAt = time.Now()
	s.mu.Unlock()

	metrics.CatalogLoads.WithLabelValues("ok").Inc()
	metrics.CatalogItems.Set(float64(len(merged)))
	slog.Info("catalog reloaded", slog.Int("items", len(merged)), slog.Int("branches", len(branches)))
	return nil
}

func (s *Service) fetchSource(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Ready reports whether the most recent load completed successfully.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// LoadedAt returns the completion time of the last successful load.
func (s *Service) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Items returns a copy of the current catalog.
func (s *Service) Items() []models.CatalogItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CatalogItem, len(s.items))
	copy(out, s.items)
	return out
}

// SourceBranches returns the raw branch labels seen across all sheets,
// in first-seen order.
func (s *Service) SourceBranches() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.branches))
	copy(out, s.branches)
	return out
}

// ItemsForBranch filters the catalog to one canonical branch, matching
// sheet labels through the normalized key. An empty category means all
// categories.
func (s *Service) ItemsForBranch(canonicalLabel string, category models.Category) []models.CatalogItem {
	key := branch.NormalizeKey(canonicalLabel)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CatalogItem, 0)
	for _, item := range s.items {
		if branch.NormalizeKey(item.Branch) != key {
			continue
		}
		if category != "" && item.Category != category {
			continue
		}
		out = append(out, item)
	}
	return out
}
