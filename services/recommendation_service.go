package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"CafeMaemi/models"

	openai "github.com/sashabaranov/go-openai"
)

const DefaultRecommendationModel = openai.GPT4oMini

// RecommendationService is the AI waiter. It never fails outward: every
// problem turns into a localized fallback text.
type RecommendationService struct {
	Client *openai.Client
	Model  string
	Logger *slog.Logger
}

// NewRecommendationService builds the client. An empty apiKey leaves Client
// nil and every call answers with the key-missing fallback.
func NewRecommendationService(apiKey, model, baseURL string, logger *slog.Logger) *RecommendationService {
	if model == "" {
		model = DefaultRecommendationModel
	}
	s := &RecommendationService{Model: model, Logger: logger}
	if apiKey == "" {
		return s
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	s.Client = openai.NewClientWithConfig(cfg)
	return s
}

func menuContext(menu []models.MenuItem) string {
	var b strings.Builder
	for _, item := range menu {
		fmt.Fprintf(&b, "%s (%s): %s - Price: ¥%d\n", item.NameEn, item.NameJa, item.DescriptionEn, item.Price)
	}
	return b.String()
}

func recommendationPrompt(query string, menu []models.MenuItem, lang models.Language) string {
	return fmt.Sprintf(
		"You are an expert waiter at an Indian & Nepalese restaurant called \"Cafe Maemi\".\n\n"+
			"Here is our menu:\n%s\n"+
			"The customer asks: %q\n\n"+
			"Please recommend 1-2 specific dishes from the menu that match their request.\n"+
			"Be polite, professional, and enthusiastic.\n"+
			"Answer in %s.\n"+
			"Keep the response short (under 100 words).",
		menuContext(menu), query, lang.Name(),
	)
}

func insightsPrompt(reviews []models.Review, lang models.Language) string {
	var b strings.Builder
	for _, r := range reviews {
		fmt.Fprintf(&b, "Rating: %d/5, Comment: %q\n", r.Rating, lang.Pick(r.TextEn, r.TextJa))
	}
	return fmt.Sprintf(
		"Here are some recent reviews for Cafe Maemi:\n%s\n"+
			"Please provide a concise summary of what customers love about the restaurant and any areas for improvement.\n"+
			"Write the summary in %s.\n"+
			"Use bullet points.",
		b.String(), lang.Name(),
	)
}

func (s *RecommendationService) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Recommend suggests one or two dishes from menu for the guest's query.
func (s *RecommendationService) Recommend(ctx context.Context, query string, menu []models.MenuItem, lang models.Language) string {
	if s.Client == nil {
		return recommendationKeyMissing(lang)
	}
	text, err := s.complete(ctx, recommendationPrompt(query, menu, lang))
	if err != nil {
		s.Logger.Error("recommendation failed", "error", err)
		return recommendationUnavailable(lang)
	}
	if text == "" {
		return recommendationEmpty(lang)
	}
	return text
}

// SummarizeReviews writes a bullet-point summary of the reviews for the dashboard.
func (s *RecommendationService) SummarizeReviews(ctx context.Context, reviews []models.Review, lang models.Language) string {
	if s.Client == nil {
		return insightsKeyMissing(lang)
	}
	text, err := s.complete(ctx, insightsPrompt(reviews, lang))
	if err != nil {
		s.Logger.Error("review analysis failed", "error", err)
		return insightsUnavailable(lang)
	}
	return text
}

// StreamRecommendation sends the answer to chunks piece by piece and closes
// chunks when done. On failure the fallback text is sent as a single chunk.
func (s *RecommendationService) StreamRecommendation(ctx context.Context, chunks chan<- string, query string, menu []models.MenuItem, lang models.Language) {
	defer close(chunks)

	send := func(text string) bool {
		select {
		case chunks <- text:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if s.Client == nil {
		send(recommendationKeyMissing(lang))
		return
	}

	stream, err := s.Client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: recommendationPrompt(query, menu, lang)},
		},
		Stream: true,
	})
	if err != nil {
		s.Logger.Error("recommendation stream failed", "error", err)
		send(recommendationUnavailable(lang))
		return
	}
	defer stream.Close()

	sent := false
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.Logger.Error("recommendation stream interrupted", "error", err)
			if !sent {
				send(recommendationUnavailable(lang))
			}
			return
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
			continue
		}
		if !send(resp.Choices[0].Delta.Content) {
			return
		}
		sent = true
	}
	if !sent {
		send(recommendationEmpty(lang))
	}
}
