package decode

import (
	"fmt"
	"strings"

	"github.com/menulens/backend/internal/domain"
)

// mealPeriod resolves a period from one of the two known id/name pairs.
var mealPeriod = field[domain.MealPeriod]{
	periodPair("id", "name"),
	periodPair("mealPeriodId", "mealPeriodName"),
}

func periodPair(idKeyName, nameKeyName string) rule[domain.MealPeriod] {
	id := intKey(idKeyName)
	name := stringKey(nameKeyName)
	return rule[domain.MealPeriod]{
		name: idKeyName + "/" + nameKeyName,
		resolve: func(obj map[string]any) (domain.MealPeriod, bool) {
			pid, ok := id.resolve(obj)
			if !ok {
				return domain.MealPeriod{}, false
			}
			pname, ok := name.resolve(obj)
			if !ok {
				return domain.MealPeriod{}, false
			}
			return domain.MealPeriod{ID: pid, Name: pname}, true
		},
	}
}

// MealPeriods decodes a meal period payload.
// A top-level array whose every element resolves is taken as-is; anything
// else falls back to collecting resolvable objects from every array in the
// tree. ErrParse is returned when nothing resolves.
func MealPeriods(data []byte) ([]domain.MealPeriod, error) {
	root, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: meal periods: %v", domain.ErrParse, err)
	}

	if periods, ok := strictMealPeriods(root); ok {
		return periods, nil
	}

	var periods []domain.MealPeriod
	walkArrayObjects(root, func(obj map[string]any) {
		if p, ok := mealPeriod.resolve(obj); ok {
			periods = append(periods, p)
		}
	})

	if len(periods) == 0 {
		return nil, fmt.Errorf("%w: no meal periods found (tried %s)", domain.ErrParse, strings.Join(mealPeriod.names(), ", "))
	}
	return periods, nil
}

func strictMealPeriods(root any) ([]domain.MealPeriod, bool) {
	arr, ok := root.([]any)
	if !ok {
		return nil, false
	}

	periods := make([]domain.MealPeriod, 0, len(arr))
	for _, el := range arr {
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, false
		}
		p, ok := mealPeriod.resolve(obj)
		if !ok {
			return nil, false
		}
		periods = append(periods, p)
	}
	return periods, true
}
