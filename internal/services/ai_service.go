package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
	"google.golang.org/api/option"
)

// AIService estimates the energy value of a food by name with a language
// model. Gemini is preferred when both providers are configured.
type AIService struct {
	geminiClient *genai.Client
	geminiModel  string
	openaiClient *openai.Client
	openaiModel  string
	timeout      time.Duration
}

type calorieEstimate struct {
	KcalPer100g float64 `json:"kcal_per_100g"`
}

const calorieEstimatePrompt = `You are a nutrition expert. Estimate the energy value of the food below.

FOOD: %s

REQUIREMENTS:
- The food name may be in Russian
- Use standard nutritional databases
- Estimate kilocalories per 100 grams of the food as usually served
- If the text is not a food, return 0

CRITICAL JSON FORMAT REQUIREMENTS:
- Your response MUST be a valid JSON object
- Do not include any explanatory text before or after the JSON
- The JSON must have exactly this field:
  {"kcal_per_100g": 123.4}`

func NewAIService(geminiAPIKey, geminiModel, openaiAPIKey, openaiModel string, timeout time.Duration) (*AIService, error) {
	s := &AIService{
		geminiModel: geminiModel,
		openaiModel: openaiModel,
		timeout:     timeout,
	}

	if geminiAPIKey != "" {
		client, err := genai.NewClient(context.Background(), option.WithAPIKey(geminiAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.geminiClient = client
	}
	if openaiAPIKey != "" {
		s.openaiClient = openai.NewClient(openaiAPIKey)
	}
	return s, nil
}

// Enabled reports whether any provider is configured
func (s *AIService) Enabled() bool {
	return s != nil && (s.geminiClient != nil || s.openaiClient != nil)
}

// CaloriesPer100 returns the model's estimate of kcal per 100 g.
// Any failure is reported as not found.
func (s *AIService) CaloriesPer100(ctx context.Context, foodName string) (float64, bool) {
	if !s.Enabled() {
		return 0, false
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		text string
		err  error
	)
	if s.geminiClient != nil {
		text, err = s.askGemini(ctx, foodName)
	} else {
		text, err = s.askOpenAI(ctx, foodName)
	}
	if err == nil {
		var kcal float64
		kcal, err = parseCalorieEstimate(text)
		if err == nil {
			return kcal, kcal > 0
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		err = apperrors.NewTimeoutError("calorie estimate")
	}
	logger.WithContext(ctx).Warn("AI calorie estimate failed", "food", foodName, "error", err)
	return 0, false
}

func (s *AIService) askGemini(ctx context.Context, foodName string) (string, error) {
	model := s.geminiClient.GenerativeModel(s.geminiModel)
	model.SetTemperature(0.1)

	resp, err := model.GenerateContent(ctx, genai.Text(fmt.Sprintf(calorieEstimatePrompt, foodName)))
	if err != nil {
		return "", apperrors.NewExternalAPIError(err, "gemini")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.NewExternalAPIError(errors.New("empty response"), "gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", apperrors.NewExternalAPIError(errors.New("response is not text"), "gemini")
	}
	return string(text), nil
}

func (s *AIService) askOpenAI(ctx context.Context, foodName string) (string, error) {
	resp, err := s.openaiClient.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       s.openaiModel,
			Temperature: 0.1,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf(calorieEstimatePrompt, foodName),
				},
			},
		},
	)
	if err != nil {
		return "", apperrors.NewExternalAPIError(err, "openai")
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewExternalAPIError(errors.New("empty response"), "openai")
	}
	return resp.Choices[0].Message.Content, nil
}

// Close releases the Gemini client
func (s *AIService) Close() error {
	if s == nil || s.geminiClient == nil {
		return nil
	}
	return s.geminiClient.Close()
}

// parseCalorieEstimate reads the model answer. A bare number is accepted
// when the model ignores the JSON instructions.
func parseCalorieEstimate(text string) (float64, error) {
	if jsonStr := extractJSON(text); jsonStr != "" {
		var est calorieEstimate
		if err := json.Unmarshal([]byte(jsonStr), &est); err != nil {
			return 0, fmt.Errorf("failed to parse response: %w", err)
		}
		return est.KcalPer100g, nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("no valid JSON found in response")
	}
	return v, nil
}

// extractJSON attempts to extract a JSON object from the given string.
// It handles cases where the JSON is wrapped in code blocks (```json ... ```) or other text.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
