package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
	"golang.org/x/time/rate"
)

// DefaultTemperature is used whenever the weather service cannot answer
const DefaultTemperature = 20.0

// WeatherService resolves the current temperature of a city through the
// OpenWeatherMap current weather API.
type WeatherService struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  *http.Client
	limiter *rate.Limiter
}

type weatherResponse struct {
	Main struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
}

func NewWeatherService(apiKey, baseURL string, timeout time.Duration) *WeatherService {
	return &WeatherService{
		apiKey:  apiKey,
		baseURL: baseURL,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(10), 5),
	}
}

// AmbientTemp returns the temperature in °C, or DefaultTemperature on any failure
func (s *WeatherService) AmbientTemp(ctx context.Context, city string) float64 {
	if s.apiKey == "" {
		return DefaultTemperature
	}

	temp, err := s.fetch(ctx, city)
	if err != nil {
		logger.WithContext(ctx).Warn("Weather lookup failed, using default temperature",
			"city", city,
			"default", DefaultTemperature,
			"error", err,
		)
		return DefaultTemperature
	}
	return temp
}

func (s *WeatherService) fetch(ctx context.Context, city string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return 0, apperrors.NewTimeoutError("weather lookup")
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", s.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, apperrors.NewExternalAPIError(err, "openweathermap")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, apperrors.NewExternalAPIError(fmt.Errorf("unexpected status %d", resp.StatusCode), "openweathermap")
	}

	var body weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, apperrors.NewExternalAPIError(err, "openweathermap")
	}
	if body.Main.Temp == nil {
		return 0, apperrors.NewExternalAPIError(fmt.Errorf("response has no temperature"), "openweathermap")
	}
	return *body.Main.Temp, nil
}
