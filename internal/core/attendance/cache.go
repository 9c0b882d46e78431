package attendance

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"attendance.service/internal/core/model"
)

// SnapshotFunc fetches the organization-wide attendance list for a date.
type SnapshotFunc func(ctx context.Context, date string) ([]model.DailyAttendance, error)

// SnapshotCache memoizes daily attendance snapshots and employee names for
// the lifetime of one aggregation call. Concurrent lookups of the same date
// share a single fetch. Failed fetches are not stored.
// The zero value is not usable; call NewSnapshotCache.
type SnapshotCache struct {
	group singleflight.Group

	mu     sync.RWMutex
	byDate map[string]map[string]model.DailyAttendance
	names  map[string]string
}

func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{
		byDate: map[string]map[string]model.DailyAttendance{},
		names:  map[string]string{},
	}
}

// Get returns the snapshot of date indexed by employee id.
func (c *SnapshotCache) Get(ctx context.Context, date string, fetch SnapshotFunc) (map[string]model.DailyAttendance, error) {
	c.mu.RLock()
	rows, ok := c.byDate[date]
	c.mu.RUnlock()
	if ok {
		return rows, nil
	}

	v, err, _ := c.group.Do(date, func() (interface{}, error) {
		c.mu.RLock()
		rows, ok := c.byDate[date]
		c.mu.RUnlock()
		if ok {
			return rows, nil
		}

		// The fetch is shared by every waiter, so one caller giving up must
		// not fail the others. fetch applies its own timeout.
		list, err := fetch(context.WithoutCancel(ctx), date)
		if err != nil {
			return nil, err
		}
		indexed := make(map[string]model.DailyAttendance, len(list))
		c.mu.Lock()
		defer c.mu.Unlock()
		for _, row := range list {
			if row.EmployeeID == "" {
				continue
			}
			indexed[row.EmployeeID] = row
			if row.Name != "" {
				c.names[row.EmployeeID] = row.Name
			}
		}
		c.byDate[date] = indexed
		return indexed, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]model.DailyAttendance), nil
}

// Name returns the employee name seen in any cached snapshot.
func (c *SnapshotCache) Name(employeeID string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.names[employeeID]
}

// Len reports how many dates are cached.
func (c *SnapshotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byDate)
}

// Clear drops everything cached.
func (c *SnapshotCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byDate = map[string]map[string]model.DailyAttendance{}
	c.names = map[string]string{}
}

func normalizeStatusText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
