package feed

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

// FetchReport summarizes one weekly fetch: how many pairs were saved,
// skipped as closed, or failed outright.
type FetchReport struct {
	Saved  int
	Closed int
	Failed int
}

// Fetcher downloads one week of menus for every configured (hall, meal)
// pair. All pairs are fetched concurrently; results are handled
// independently so one slow or closed hall never delays the rest.
type Fetcher struct {
	client *Client
	store  *RawStore
	halls  []string
	meals  []string
	logger *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetcherLogger sets a custom logger. Default is slog.Default().
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a weekly fetcher for the given halls and meals.
func NewFetcher(client *Client, store *RawStore, halls, meals []string, opts ...FetcherOption) (*Fetcher, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if len(halls) == 0 {
		return nil, ErrNoHalls
	}
	if len(meals) == 0 {
		return nil, ErrNoMeals
	}

	f := &Fetcher{
		client: client,
		store:  store,
		halls:  halls,
		meals:  meals,
		logger: slog.Default().With("component", "fetcher"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// FetchWeek fetches every (hall, meal) pair for the given week start and
// persists the open ones. The pool is sized to the pair count, so every
// request is in flight at once. Per-pair failures are logged and counted
// but never abort sibling fetches.
func (f *Fetcher) FetchWeek(ctx context.Context, weekStart time.Time) (*FetchReport, error) {
	pairs := len(f.halls) * len(f.meals)

	pool, err := ants.NewPool(pairs)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report FetchReport
	)

	for _, hall := range f.halls {
		for _, meal := range f.meals {
			wg.Add(1)
			err := pool.Submit(func() {
				defer wg.Done()
				outcome := f.fetchPair(ctx, hall, meal, weekStart)
				mu.Lock()
				switch outcome {
				case pairSaved:
					report.Saved++
				case pairClosed:
					report.Closed++
				default:
					report.Failed++
				}
				mu.Unlock()
			})
			if err != nil {
				wg.Done()
				mu.Lock()
				report.Failed++
				mu.Unlock()
				f.logger.Error("error submitting fetch task", "hall", hall, "meal", meal, "err", err)
			}
		}
	}

	wg.Wait()

	f.logger.Info("weekly fetch complete",
		"week", weekStart.Format("2006-01-02"),
		"saved", report.Saved, "closed", report.Closed, "failed", report.Failed)

	return &report, nil
}

type pairOutcome int

const (
	pairSaved pairOutcome = iota
	pairClosed
	pairFailed
)

// fetchPair downloads and persists one (hall, meal) week. Closed detection:
// non-success status, a week with no populated food items, or a fallback
// response identifying a different hall.
func (f *Fetcher) fetchPair(ctx context.Context, hall, meal string, weekStart time.Time) pairOutcome {
	log := f.logger.With("hall", hall, "meal", meal)

	week, body, err := f.client.FetchWeek(ctx, hall, meal, weekStart)
	if err != nil {
		if errors.Is(err, ErrClosed) {
			log.Info("closed", "reason", err)
			return pairClosed
		}
		log.Error("error fetching week", "err", err)
		return pairFailed
	}

	if week.Empty() {
		log.Info("closed", "reason", "no menu items")
		return pairClosed
	}

	if week.SchoolSlug != "" && week.SchoolSlug != hall {
		log.Info("closed", "reason", "feed fell back to another hall", "returned", week.SchoolSlug)
		return pairClosed
	}

	path, err := f.store.Save(hall, meal, weekStart, body)
	if err != nil {
		log.Error("error saving raw payload", "err", err)
		return pairFailed
	}

	log.Info("saved raw payload", "path", path)
	return pairSaved
}
