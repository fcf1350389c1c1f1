package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
	"golang.org/x/time/rate"
)

// FoodLookupService searches Open Food Facts for the energy value of a food
type FoodLookupService struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	limiter *rate.Limiter
}

type foodSearchResponse struct {
	Products []struct {
		Nutriments map[string]json.RawMessage `json:"nutriments"`
	} `json:"products"`
}

func NewFoodLookupService(baseURL string, timeout time.Duration) *FoodLookupService {
	return &FoodLookupService{
		baseURL: baseURL,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		// Open Food Facts allows 10 search requests per minute
		limiter: rate.NewLimiter(rate.Every(6*time.Second), 3),
	}
}

// CaloriesPer100 returns kcal per 100 g of the first matching product.
// Any failure is reported as not found.
func (s *FoodLookupService) CaloriesPer100(ctx context.Context, foodName string) (float64, bool) {
	kcal, err := s.search(ctx, foodName)
	if err != nil {
		logger.WithContext(ctx).Warn("Food lookup failed", "food", foodName, "error", err)
		return 0, false
	}
	return kcal, kcal > 0
}

func (s *FoodLookupService) search(ctx context.Context, foodName string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return 0, apperrors.NewTimeoutError("food lookup")
	}

	q := url.Values{}
	q.Set("search_terms", foodName)
	q.Set("json", "1")
	q.Set("page_size", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	req.Header.Set("User-Agent", "health-tracker-bot/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, apperrors.NewExternalAPIError(err, "openfoodfacts")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, apperrors.NewExternalAPIError(fmt.Errorf("unexpected status %d", resp.StatusCode), "openfoodfacts")
	}

	var body foodSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, apperrors.NewExternalAPIError(err, "openfoodfacts")
	}
	if len(body.Products) == 0 {
		return 0, nil
	}
	return parseEnergy(body.Products[0].Nutriments["energy-kcal_100g"]), nil
}

// parseEnergy accepts the value as a JSON number or a numeric string
func parseEnergy(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return 0
}
