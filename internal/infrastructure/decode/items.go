package decode

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/menulens/backend/internal/domain"
)

// Keys of the day-envelope shape: {"result": [{<date>, "menuRecipiesData": [...]}]}
const (
	envelopeResultKey  = "result"
	envelopeRecipesKey = "menuRecipiesData"
)

// itemFields is the set of alias rules used to build a MealItem.
type itemFields struct {
	id          field[string]
	name        field[string]
	station     field[string]
	description field[string]
	calories    field[int]
	allergens   field[[]string]
	attributes  field[[]string]
}

var (
	dayDate = stringField("strMenuForDate", "menuForDate")

	envelopeItem = itemFields{
		id:          idField("id", "recipeId", "componentId"),
		name:        stringField("englishAlternateName", "componentName"),
		station:     stringField("category", "menuTypeName"),
		description: stringField("englishDescription", "spanishDescription"),
		calories:    caloriesField("calories"),
		allergens:   listField(true, "allergens"),
		attributes:  listField(true, "attributes"),
	}

	genericItem = itemFields{
		id:          idField("id", "itemId", "menuItemId", "recipeId", "componentId"),
		name:        stringField("name", "itemName", "menuItemName", "recipeName", "englishAlternateName", "componentName", "displayName", "title"),
		station:     stringField("station", "stationName", "category", "categoryName", "menuTypeName"),
		description: stringField("description", "itemDescription", "englishDescription", "desc", "spanishDescription"),
		calories:    caloriesField("calories", "calorie", "kcal", "energy", "caloriesKcal"),
		allergens:   listField(false, "allergens", "allergenList", "allergenNames"),
		attributes:  listField(false, "attributes", "dietaryAttributes", "dietary", "tags", "icons"),
	}
)

// build resolves a MealItem from obj. Objects without a usable name are rejected.
func (f itemFields) build(obj map[string]any) (domain.MealItem, bool) {
	name, ok := f.name.resolve(obj)
	if !ok {
		return domain.MealItem{}, false
	}

	item := domain.MealItem{Name: name}
	if id, ok := f.id.resolve(obj); ok {
		item.ID = id
	} else {
		item.ID = uuid.NewString()
	}
	if station, ok := f.station.resolve(obj); ok {
		item.Station = &station
	}
	if desc, ok := f.description.resolve(obj); ok {
		item.Description = &desc
	}
	if kcal, ok := f.calories.resolve(obj); ok {
		item.Calories = &kcal
	}
	if allergens, ok := f.allergens.resolve(obj); ok {
		item.Allergens = allergens
	}
	if attributes, ok := f.attributes.resolve(obj); ok {
		item.Attributes = attributes
	}
	return item, true
}

// NormalizeDate converts a yyyy/MM/dd date into the dashed yyyy-MM-dd form.
// Time suffixes such as "T00:00:00" are dropped.
func NormalizeDate(date string) string {
	date = strings.ReplaceAll(strings.TrimSpace(date), "/", "-")
	if len(date) > len(domain.DateLayout) {
		date = date[:len(domain.DateLayout)]
	}
	return date
}

// MealItems decodes a meal item payload for selectedDate (yyyy/MM/dd or yyyy-MM-dd).
//
// When the payload is a day envelope only the recipes of the matching day are
// returned, possibly none. Otherwise every array in the tree is searched for
// item-shaped objects and ErrParse is returned if none is found.
func MealItems(data []byte, selectedDate string) ([]domain.MealItem, error) {
	root, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: meal items: %v", domain.ErrParse, err)
	}

	if days, ok := envelopeDays(root); ok {
		return envelopeItems(days, NormalizeDate(selectedDate)), nil
	}

	var items []domain.MealItem
	walkArrayObjects(root, func(obj map[string]any) {
		if item, ok := genericItem.build(obj); ok {
			items = append(items, item)
		}
	})

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no meal items found", domain.ErrParse)
	}
	return items, nil
}

func envelopeDays(root any) ([]any, bool) {
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, false
	}
	days, ok := obj[envelopeResultKey].([]any)
	if !ok {
		return nil, false
	}
	// An empty result is a month without menus; a non-empty one must hold days.
	if len(days) == 0 {
		return days, true
	}
	for _, d := range days {
		if isDay(d) {
			return days, true
		}
	}
	return nil, false
}

// isDay reports whether node looks like one day of the envelope.
func isDay(node any) bool {
	day, ok := node.(map[string]any)
	if !ok {
		return false
	}
	if _, ok := dayDate.resolve(day); ok {
		return true
	}
	_, ok = day[envelopeRecipesKey].([]any)
	return ok
}

func envelopeItems(days []any, date string) []domain.MealItem {
	items := []domain.MealItem{}
	for _, d := range days {
		day, ok := d.(map[string]any)
		if !ok {
			continue
		}
		dayValue, ok := dayDate.resolve(day)
		if !ok || NormalizeDate(dayValue) != date {
			continue
		}

		recipes, _ := day[envelopeRecipesKey].([]any)
		for _, r := range recipes {
			recipe, ok := r.(map[string]any)
			if !ok {
				continue
			}
			if item, ok := envelopeItem.build(recipe); ok {
				items = append(items, item)
			}
		}
	}
	return items
}
