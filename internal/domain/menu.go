package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for result keys and day filtering.
const DateLayout = "2006-01-02"

// ParseDay parses a whole yyyy-MM-dd or yyyy/MM/dd value as midnight in loc.
// Anything else, including trailing text, is ErrInvalidRequest.
func ParseDay(raw string, loc *time.Location) (time.Time, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), "/", "-")
	day, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidRequest, raw)
	}
	return day, nil
}

// Location is a statically configured dining location
type Location struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MealPeriod is a named service window at a location (breakfast, lunch, ...)
type MealPeriod struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MealItem is a single normalized menu entry.
// Optional fields are nil when the payload did not carry them.
type MealItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Station     *string  `json:"station,omitempty"`
	Description *string  `json:"description,omitempty"`
	Calories    *int     `json:"calories,omitempty"`
	Allergens   []string `json:"allergens,omitempty"`
	Attributes  []string `json:"attributes,omitempty"`
}

// MenuKey identifies one (location, period, day) slot of the aggregate result
type MenuKey struct {
	LocationID int    `json:"locationId"`
	PeriodID   int    `json:"periodId"`
	Date       string `json:"date"` // yyyy-MM-dd
}

// NewMenuKey builds a MenuKey for the calendar date of t
func NewMenuKey(locationID, periodID int, t time.Time) MenuKey {
	return MenuKey{
		LocationID: locationID,
		PeriodID:   periodID,
		Date:       t.Format(DateLayout),
	}
}

// ItemsQuery carries the parameters of a meal item request.
// Date selects the day returned to the caller; From/To bound the remote range.
type ItemsQuery struct {
	LocationID      int
	PeriodID        int
	Date            time.Time
	From            time.Time
	To              time.Time
	TZOffsetMinutes int
}
