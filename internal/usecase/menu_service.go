package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/menulens/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// MenuServiceConfig holds configuration for the menu service
type MenuServiceConfig struct {
	Locations []domain.Location

	// MaxConcurrency caps in-flight item fetches during Load; zero means no cap.
	MaxConcurrency int
}

// MenuService assembles a day's menu across every configured location and
// meal period. Results accumulate across Load calls: keys are overwritten
// but never removed.
type MenuService struct {
	client         domain.MenuClient
	locations      []domain.Location
	maxConcurrency int

	mu      sync.RWMutex
	periods map[int][]domain.MealPeriod
	items   map[domain.MenuKey][]domain.MealItem
}

// NewMenuService creates a new menu service with dependencies
func NewMenuService(client domain.MenuClient, config MenuServiceConfig) *MenuService {
	locations := make([]domain.Location, len(config.Locations))
	copy(locations, config.Locations)

	return &MenuService{
		client:         client,
		locations:      locations,
		maxConcurrency: config.MaxConcurrency,
		periods:        make(map[int][]domain.MealPeriod),
		items:          make(map[domain.MenuKey][]domain.MealItem),
	}
}

// fetchTask is one (location, period) item fetch of a Load call
type fetchTask struct {
	key   domain.MenuKey
	items []domain.MealItem
}

// Load fetches the menu for the calendar day of date.
//
// Periods are fetched one location at a time; a failing location gets an
// empty period list. Items are then fetched concurrently, one task per
// (location, period) pair, and a failing task yields an empty list. Load
// returns once every task has finished and never fails. In-flight fetches
// are not cancelled when ctx is.
func (s *MenuService) Load(ctx context.Context, date time.Time) {
	ctx = context.WithoutCancel(ctx)

	periodsByLocation := make(map[int][]domain.MealPeriod, len(s.locations))
	for _, loc := range s.locations {
		periods, err := s.client.GetMealPeriods(ctx, loc.ID)
		if err != nil {
			log.Printf("[MENU] periods for location %d (%s) failed: %v", loc.ID, loc.Name, err)
			periods = []domain.MealPeriod{}
		}
		periodsByLocation[loc.ID] = periods
	}

	s.mu.Lock()
	for id, periods := range periodsByLocation {
		s.periods[id] = periods
	}
	s.mu.Unlock()

	var tasks []*fetchTask
	for _, loc := range s.locations {
		for _, p := range periodsByLocation[loc.ID] {
			tasks = append(tasks, &fetchTask{key: domain.NewMenuKey(loc.ID, p.ID, date)})
		}
	}

	from, to := monthRange(date)
	_, zoneOffset := date.Zone()

	g := new(errgroup.Group)
	if s.maxConcurrency > 0 {
		g.SetLimit(s.maxConcurrency)
	}
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			items, err := s.client.GetMealItems(ctx, domain.ItemsQuery{
				LocationID:      task.key.LocationID,
				PeriodID:        task.key.PeriodID,
				Date:            date,
				From:            from,
				To:              to,
				TZOffsetMinutes: zoneOffset / 60,
			})
			if err != nil {
				log.Printf("[MENU] items for %+v failed: %v", task.key, err)
				items = []domain.MealItem{}
			}
			task.items = items
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	for _, task := range tasks {
		s.items[task.key] = task.items
	}
	s.mu.Unlock()

	log.Printf("[MENU] loaded %s: %d locations, %d menu slots", date.Format(domain.DateLayout), len(s.locations), len(tasks))
}

// Locations returns the configured locations in configuration order
func (s *MenuService) Locations() []domain.Location {
	out := make([]domain.Location, len(s.locations))
	copy(out, s.locations)
	return out
}

// Periods returns a copy of the per-location period map
func (s *MenuService) Periods() map[int][]domain.MealPeriod {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int][]domain.MealPeriod, len(s.periods))
	for id, periods := range s.periods {
		out[id] = append([]domain.MealPeriod{}, periods...)
	}
	return out
}

// Items returns a copy of the aggregate result map
func (s *MenuService) Items() map[domain.MenuKey][]domain.MealItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[domain.MenuKey][]domain.MealItem, len(s.items))
	for key, items := range s.items {
		out[key] = append([]domain.MealItem{}, items...)
	}
	return out
}

// ItemsFor returns the aggregate entries of a single calendar day
func (s *MenuService) ItemsFor(date time.Time) map[domain.MenuKey][]domain.MealItem {
	day := date.Format(domain.DateLayout)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[domain.MenuKey][]domain.MealItem)
	for key, items := range s.items {
		if key.Date == day {
			out[key] = append([]domain.MealItem{}, items...)
		}
	}
	return out
}

// monthRange returns the first and last day of date's month
func monthRange(date time.Time) (time.Time, time.Time) {
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	last := first.AddDate(0, 1, -1)
	return first, last
}
