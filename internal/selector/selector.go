// Package selector recommends models and generation parameters from the
// length of the user's latest message. It never calls a provider.
package selector

import (
	"slices"
	"strings"

	"github.com/aimichat/llmrouter/pkg/types"
)

// Category classifies a message by length.
type Category string

const (
	CategoryShort Category = "short"
	CategoryLong  Category = "long"
)

// LongFormThreshold is the word count at which a message becomes long-form.
const LongFormThreshold = 100

// ParseCategory accepts "short" or "long", case-insensitively.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryShort:
		return CategoryShort, true
	case CategoryLong:
		return CategoryLong, true
	}
	return "", false
}

// Quality is a coarse rating of a model's Vietnamese output.
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityOK        Quality = "ok"
)

// ModelConfig describes one recommended model.
type ModelConfig struct {
	Provider      types.ProviderID `json:"provider"`
	Model         string           `json:"model"`
	DisplayName   string           `json:"display_name"`
	MaxTokens     int              `json:"max_tokens"`
	ContextWindow int              `json:"context_window"`
	Quality       Quality          `json:"vietnamese_quality"`
	Free          bool             `json:"free"`
	Priority      int              `json:"priority"`
}

var longFormModels = []ModelConfig{
	{
		Provider:      types.Silicon,
		Model:         "Qwen/Qwen2.5-32B-Instruct",
		DisplayName:   "Qwen 2.5 32B (SiliconFlow)",
		MaxTokens:     4000,
		ContextWindow: 32768,
		Quality:       QualityExcellent,
		Free:          true,
		Priority:      1,
	},
	{
		Provider:      types.Silicon,
		Model:         "deepseek-ai/DeepSeek-V3",
		DisplayName:   "DeepSeek V3 (SiliconFlow)",
		MaxTokens:     4000,
		ContextWindow: 65536,
		Quality:       QualityExcellent,
		Free:          true,
		Priority:      2,
	},
	{
		Provider:      types.Gemini,
		Model:         "gemini-2.5-flash",
		DisplayName:   "Gemini 2.5 Flash",
		MaxTokens:     8000,
		ContextWindow: 1000000,
		Quality:       QualityGood,
		Free:          true,
		Priority:      3,
	},
	{
		Provider:      types.Moonshot,
		Model:         "moonshot-v1-128k",
		DisplayName:   "Moonshot V1 128K",
		MaxTokens:     4000,
		ContextWindow: 131072,
		Quality:       QualityOK,
		Free:          true,
		Priority:      4,
	},
}

var shortFormModels = []ModelConfig{
	{
		Provider:      types.Silicon,
		Model:         "deepseek-ai/DeepSeek-V3",
		DisplayName:   "DeepSeek V3 (SiliconFlow)",
		MaxTokens:     800,
		ContextWindow: 65536,
		Quality:       QualityExcellent,
		Free:          true,
		Priority:      1,
	},
	{
		Provider:      types.Silicon,
		Model:         "Qwen/Qwen2.5-7B-Instruct",
		DisplayName:   "Qwen 2.5 7B (SiliconFlow)",
		MaxTokens:     800,
		ContextWindow: 32768,
		Quality:       QualityExcellent,
		Free:          true,
		Priority:      2,
	},
	{
		Provider:      types.Gemini,
		Model:         "gemini-2.5-flash",
		DisplayName:   "Gemini 2.5 Flash",
		MaxTokens:     800,
		ContextWindow: 1000000,
		Quality:       QualityGood,
		Free:          true,
		Priority:      3,
	},
	{
		Provider:      types.OpenRouter,
		Model:         "openai/gpt-oss-120b",
		DisplayName:   "GPT OSS 120B (OpenRouter)",
		MaxTokens:     800,
		ContextWindow: 8192,
		Quality:       QualityOK,
		Free:          true,
		Priority:      4,
	},
}

// WordCount counts whitespace-separated words.
func WordCount(message string) int {
	return len(strings.Fields(message))
}

// DetectCategory returns CategoryLong for messages of at least
// LongFormThreshold words.
func DetectCategory(message string) Category {
	if WordCount(message) >= LongFormThreshold {
		return CategoryLong
	}
	return CategoryShort
}

// Models returns the category's models sorted by ascending priority. The
// result is a copy and may be modified by the caller.
func Models(category Category) []ModelConfig {
	src := shortFormModels
	if category == CategoryLong {
		src = longFormModels
	}
	out := slices.Clone(src)
	slices.SortStableFunc(out, func(a, b ModelConfig) int { return a.Priority - b.Priority })
	return out
}

// Selection is the outcome of Select.
type Selection struct {
	Category  Category      `json:"category"`
	Models    []ModelConfig `json:"models"`
	WordCount int           `json:"word_count"`
}

// Select classifies message and returns the matching models. A non-empty
// force overrides the detected category.
func Select(message string, force Category) Selection {
	category := force
	if category == "" {
		category = DetectCategory(message)
	}
	return Selection{
		Category:  category,
		Models:    Models(category),
		WordCount: WordCount(message),
	}
}

// MaxTokens is the recommended completion budget for a category.
func MaxTokens(category Category) int {
	if category == CategoryLong {
		return 4000
	}
	return 800
}

// Temperature is the recommended sampling temperature for a category.
func Temperature(category Category) float64 {
	if category == CategoryLong {
		return 0.8
	}
	return 0.7
}
