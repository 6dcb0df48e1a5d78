package directory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"

	pkgLog "jira-telegram-bridge/pkg/log"
)

type sheetsResolver struct {
	store SheetStore
	cfg   Config
	l     pkgLog.Logger

	mu    sync.Mutex
	cache *expirable.LRU[string, map[string]string] // single entry: the whole table
}

// NewSheets creates a Resolver backed by a spreadsheet. The table is read at
// most once per CacheTTL.
func NewSheets(store SheetStore, cfg Config, l pkgLog.Logger) Resolver {
	if cfg.SheetRange == "" {
		cfg.SheetRange = DefaultSheetRange
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	return &sheetsResolver{
		store: store,
		cfg:   cfg,
		l:     l,
		cache: expirable.NewLRU[string, map[string]string](1, nil, cfg.CacheTTL),
	}
}

func (r *sheetsResolver) ResolveTarget(ctx context.Context, issueKey string) (string, error) {
	table, err := r.table(ctx)
	if err != nil {
		if r.cfg.DefaultTarget != "" {
			r.l.Warnf(ctx, "directory: sheet unavailable, using default target: %v", err)
			return r.cfg.DefaultTarget, nil
		}
		return "", err
	}
	return lookup(table, issueKey, r.cfg.DefaultTarget)
}

func (r *sheetsResolver) Register(ctx context.Context, key, target string) error {
	key = normalizeKey(key)
	target = strings.TrimSpace(target)
	if key == "" || target == "" {
		return ErrEmptyKey
	}

	if err := r.store.AppendRow(ctx, r.cfg.SpreadsheetID, r.cfg.SheetRange, key, target); err != nil {
		return fmt.Errorf("directory: register %s: %w", key, err)
	}

	r.mu.Lock()
	r.cache.Purge()
	r.mu.Unlock()

	r.l.Infof(ctx, "directory: registered %s -> %s", key, target)
	return nil
}

func (r *sheetsResolver) table(ctx context.Context) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.cache.Get(r.cfg.SpreadsheetID); ok {
		return t, nil
	}

	rows, err := r.store.ReadRows(ctx, r.cfg.SpreadsheetID, r.cfg.SheetRange)
	if err != nil {
		return nil, fmt.Errorf("directory: read sheet: %w", err)
	}

	t := make(map[string]string, len(rows))
	for _, row := range rows {
		key, target := normalizeKey(row.Cell(0)), row.Cell(1)
		if key == "" || target == "" {
			continue
		}
		// Later rows win so Register can override an older mapping.
		t[key] = target
	}
	r.cache.Add(r.cfg.SpreadsheetID, t)
	return t, nil
}

func lookup(table map[string]string, issueKey, fallback string) (string, error) {
	key := normalizeKey(issueKey)
	if target, ok := table[key]; ok {
		return target, nil
	}
	if i := strings.LastIndex(key, "-"); i > 0 {
		if target, ok := table[key[:i]]; ok {
			return target, nil
		}
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", fmt.Errorf("%w %s", ErrNoTarget, issueKey)
}

func normalizeKey(k string) string {
	return strings.ToUpper(strings.TrimSpace(k))
}
