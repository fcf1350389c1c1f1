package calculator

import (
	"context"
	"strings"
)

// DefaultCaloriesPer100 is the last-resort estimate for unknown foods.
const DefaultCaloriesPer100 = 150.0

// CalorieSource tells which resolver step produced a value
type CalorieSource string

const (
	SourceLocal    CalorieSource = "local"
	SourceLookup   CalorieSource = "lookup"
	SourceCategory CalorieSource = "category"
	SourceDefault  CalorieSource = "default"
)

// FoodLookup resolves kcal per 100 g of a food. ok is false when the food is
// unknown or the service failed.
type FoodLookup interface {
	CaloriesPer100(ctx context.Context, foodName string) (kcal float64, ok bool)
}

// FoodLookups tries each lookup in order and returns the first hit.
type FoodLookups []FoodLookup

// CaloriesPer100 implements FoodLookup
func (l FoodLookups) CaloriesPer100(ctx context.Context, foodName string) (float64, bool) {
	for _, lookup := range l {
		if kcal, ok := lookup.CaloriesPer100(ctx, foodName); ok {
			return kcal, true
		}
	}
	return 0, false
}

type foodRule struct {
	match func(name string) bool
	kcal  float64
}

func either(key string) func(string) bool {
	return func(name string) bool {
		return strings.Contains(name, key) || strings.Contains(key, name)
	}
}

func contains(key string) func(string) bool {
	return func(name string) bool {
		return strings.Contains(name, key)
	}
}

// localFoods match by substring in either direction
var localFoods = []foodRule{
	{either("яблоко"), 52},
	{either("банан"), 96},
	{either("апельсин"), 47},
	{either("курица"), 165},
	{either("говядина"), 250},
	{either("хлеб"), 265},
	{either("рис"), 360},
	{either("шоколад"), 550},
}

// foodCategories match when the keyword occurs in the food name
var foodCategories = []foodRule{
	{contains("овощи"), 30},
	{contains("фрукты"), 50},
	{contains("мясо"), 250},
	{contains("рыба"), 200},
	{contains("курица"), 165},
	{contains("индейка"), 135},
	{contains("свинина"), 242},
	{contains("говядина"), 250},
	{contains("хлеб"), 265},
	{contains("макароны"), 370},
	{contains("рис"), 360},
	{contains("картофель"), 77},
	{contains("яйцо"), 155},
	{contains("молоко"), 60},
	{contains("сыр"), 350},
	{contains("творог"), 120},
	{contains("йогурт"), 60},
	{contains("кефир"), 40},
	{contains("сметана"), 200},
	{contains("масло"), 750},
	{contains("орехи"), 600},
	{contains("шоколад"), 550},
	{contains("печенье"), 450},
	{contains("торт"), 400},
	{contains("салат"), 100},
	{contains("суп"), 80},
	{contains("бутерброд"), 300},
	{contains("пицца"), 250},
	{contains("бургер"), 350},
}

func firstMatch(rules []foodRule, name string) (float64, bool) {
	for _, r := range rules {
		if r.match(name) {
			return r.kcal, true
		}
	}
	return 0, false
}

// FoodCalorieResolver estimates calorie density of a food by name
type FoodCalorieResolver struct {
	lookup FoodLookup
}

// NewFoodCalorieResolver creates a resolver. lookup may be nil.
func NewFoodCalorieResolver(lookup FoodLookup) *FoodCalorieResolver {
	return &FoodCalorieResolver{lookup: lookup}
}

// Resolve returns kcal per 100 g. It never fails: the local table, the
// external lookup, the category keywords and the default are tried in order.
func (r *FoodCalorieResolver) Resolve(ctx context.Context, foodName string) (float64, CalorieSource) {
	name := strings.ToLower(strings.TrimSpace(foodName))
	if name == "" {
		return DefaultCaloriesPer100, SourceDefault
	}

	if kcal, ok := firstMatch(localFoods, name); ok {
		return kcal, SourceLocal
	}

	if r.lookup != nil {
		if kcal, ok := r.lookup.CaloriesPer100(ctx, foodName); ok && kcal > 0 {
			return kcal, SourceLookup
		}
	}

	if kcal, ok := firstMatch(foodCategories, name); ok {
		return kcal, SourceCategory
	}

	return DefaultCaloriesPer100, SourceDefault
}

// FoodCalories returns the kcal of a portion given its density per 100 g.
func FoodCalories(kcalPer100 float64, grams int) float64 {
	return kcalPer100 * float64(grams) / 100
}
