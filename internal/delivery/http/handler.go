package http

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/menulens/backend/internal/domain"
)

// MenuService is the part of the menu aggregator the handlers depend on
type MenuService interface {
	Load(ctx context.Context, date time.Time)
	Locations() []domain.Location
	Periods() map[int][]domain.MealPeriod
	ItemsFor(date time.Time) map[domain.MenuKey][]domain.MealItem
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	menuService MenuService
	now         func() time.Time
}

// NewHandler creates a new HTTP handler
func NewHandler(menuService MenuService) *Handler {
	return &Handler{
		menuService: menuService,
		now:         time.Now,
	}
}

// PeriodMenu is one meal period of a location with its items for the day
type PeriodMenu struct {
	ID     int               `json:"id"`
	Name   string            `json:"name"`
	Loaded bool              `json:"loaded"`
	Items  []domain.MealItem `json:"items"`
}

// LocationMenu is the day's menu of one location
type LocationMenu struct {
	ID      int          `json:"id"`
	Name    string       `json:"name"`
	Periods []PeriodMenu `json:"periods"`
}

// MenuResponse is the day's menu across all locations
type MenuResponse struct {
	Date      string         `json:"date"`
	Locations []LocationMenu `json:"locations"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "menulens-backend",
		"version": "1.0.0",
	})
}

// ListLocations returns the configured dining locations
func (h *Handler) ListLocations(c *gin.Context) {
	if h.menuService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "menu service not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": h.menuService.Locations()})
}

// LoadMenu fetches the menu for the requested day and returns it
func (h *Handler) LoadMenu(c *gin.Context) {
	if h.menuService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "menu service not configured"})
		return
	}

	date, err := h.parseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.menuService.Load(c.Request.Context(), date)
	c.JSON(http.StatusOK, h.buildMenu(date))
}

// GetMenu returns what has been loaded for the requested day without fetching
func (h *Handler) GetMenu(c *gin.Context) {
	if h.menuService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "menu service not configured"})
		return
	}

	date, err := h.parseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.buildMenu(date))
}

// GetPeriods returns the meal periods known per location
func (h *Handler) GetPeriods(c *gin.Context) {
	if h.menuService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "menu service not configured"})
		return
	}

	type locationPeriods struct {
		LocationID int                 `json:"locationId"`
		Periods    []domain.MealPeriod `json:"periods"`
	}

	periods := h.menuService.Periods()
	out := make([]locationPeriods, 0, len(periods))
	for id, list := range periods {
		out = append(out, locationPeriods{LocationID: id, Periods: list})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })

	c.JSON(http.StatusOK, gin.H{"locations": out})
}

// parseDate accepts yyyy-MM-dd or yyyy/MM/dd; empty means today
func (h *Handler) parseDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		now := h.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}

	return domain.ParseDay(raw, time.Local)
}

func (h *Handler) buildMenu(date time.Time) MenuResponse {
	periods := h.menuService.Periods()
	items := h.menuService.ItemsFor(date)

	resp := MenuResponse{
		Date:      date.Format(domain.DateLayout),
		Locations: []LocationMenu{},
	}
	for _, loc := range h.menuService.Locations() {
		lm := LocationMenu{ID: loc.ID, Name: loc.Name, Periods: []PeriodMenu{}}
		for _, p := range periods[loc.ID] {
			list, ok := items[domain.NewMenuKey(loc.ID, p.ID, date)]
			if list == nil {
				list = []domain.MealItem{}
			}
			lm.Periods = append(lm.Periods, PeriodMenu{ID: p.ID, Name: p.Name, Loaded: ok, Items: list})
		}
		resp.Locations = append(resp.Locations, lm)
	}
	return resp
}
