package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"CafeMaemi/models"
)

func testMenu() []models.MenuItem {
	return []models.MenuItem{
		{NameEn: "Butter Chicken", NameJa: "バターチキン", DescriptionEn: "Mild and creamy", Price: 1200, Category: models.CategoryCurry},
		{NameEn: "Mango Lassi", NameJa: "マンゴーラッシー", DescriptionEn: "Sweet yogurt drink", Price: 450, Category: models.CategoryDrinks},
	}
}

// fakeOpenAI answers chat completions with reply and records the last prompt.
func fakeOpenAI(t *testing.T, status int, reply string) (*httptest.Server, *string) {
	t.Helper()
	var prompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Stream   bool `json:"stream"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		if len(body.Messages) > 0 {
			prompt = body.Messages[0].Content
		}

		if status != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error":{"message":"upstream failure","type":"server_error"}}`)
			return
		}

		if body.Stream {
			w.Header().Set("Content-Type", "text/event-stream")
			for _, word := range strings.SplitAfter(reply, " ") {
				if word == "" {
					continue
				}
				chunk, _ := json.Marshal(map[string]interface{}{
					"id":      "chatcmpl-test",
					"object":  "chat.completion.chunk",
					"choices": []map[string]interface{}{{"index": 0, "delta": map[string]string{"content": word}}},
				})
				fmt.Fprintf(w, "data: %s\n\n", chunk)
			}
			fmt.Fprint(w, "data: [DONE]\n\n")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"choices": []map[string]interface{}{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": reply},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &prompt
}

func TestRecommend(t *testing.T) {
	srv, prompt := fakeOpenAI(t, http.StatusOK, "Try the Butter Chicken!")
	s := NewRecommendationService("test-key", "", srv.URL+"/v1", testLogger())

	got := s.Recommend(context.Background(), "something mild", testMenu(), models.LanguageJA)
	if got != "Try the Butter Chicken!" {
		t.Errorf("Recommend() = %q", got)
	}
	for _, want := range []string{
		"Butter Chicken (バターチキン): Mild and creamy - Price: ¥1200",
		"Mango Lassi (マンゴーラッシー): Sweet yogurt drink - Price: ¥450",
		`"something mild"`,
		"Answer in Japanese.",
		"under 100 words",
	} {
		if !strings.Contains(*prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, *prompt)
		}
	}
}

func TestRecommend_Fallbacks(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		status int
		reply  string
		lang   models.Language
		want   string
	}{
		{
			name: "missing key en",
			lang: models.LanguageEN,
			want: "API Key missing. Please configure the environment.",
		},
		{
			name: "missing key ja",
			lang: models.LanguageJA,
			want: "APIキーが設定されていません。",
		},
		{
			name:   "upstream error",
			key:    "test-key",
			status: http.StatusInternalServerError,
			lang:   models.LanguageEN,
			want:   "Sorry, I'm having trouble thinking right now. Please ask a human staff member!",
		},
		{
			name:   "upstream error ja",
			key:    "test-key",
			status: http.StatusInternalServerError,
			lang:   models.LanguageJA,
			want:   "申し訳ありません、現在AIが応答できません。スタッフにお尋ねください。",
		},
		{
			name:   "empty reply",
			key:    "test-key",
			status: http.StatusOK,
			reply:  "  ",
			lang:   models.LanguageEN,
			want:   "I couldn't find a recommendation.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseURL := ""
			if tt.key != "" {
				srv, _ := fakeOpenAI(t, tt.status, tt.reply)
				baseURL = srv.URL + "/v1"
			}
			s := NewRecommendationService(tt.key, "", baseURL, testLogger())
			if got := s.Recommend(context.Background(), "spicy?", testMenu(), tt.lang); got != tt.want {
				t.Errorf("Recommend() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummarizeReviews(t *testing.T) {
	srv, prompt := fakeOpenAI(t, http.StatusOK, "- Friendly staff")
	s := NewRecommendationService("test-key", "", srv.URL+"/v1", testLogger())

	reviews := []models.Review{{Author: "A", Rating: 5, TextEn: "Great naan", TextJa: "ナンが最高"}}
	if got := s.SummarizeReviews(context.Background(), reviews, models.LanguageEN); got != "- Friendly staff" {
		t.Errorf("SummarizeReviews() = %q", got)
	}
	if !strings.Contains(*prompt, `Rating: 5/5, Comment: "Great naan"`) || !strings.Contains(*prompt, "Use bullet points.") {
		t.Errorf("prompt = %s", *prompt)
	}

	noKey := NewRecommendationService("", "", "", testLogger())
	if got := noKey.SummarizeReviews(context.Background(), reviews, models.LanguageJA); got != "APIキーがありません。" {
		t.Errorf("SummarizeReviews() without key = %q", got)
	}
}

func TestStreamRecommendation(t *testing.T) {
	srv, _ := fakeOpenAI(t, http.StatusOK, "Try the Mango Lassi")
	s := NewRecommendationService("test-key", "", srv.URL+"/v1", testLogger())

	chunks := make(chan string)
	go s.StreamRecommendation(context.Background(), chunks, "a drink", testMenu(), models.LanguageEN)

	var parts []string
	for chunk := range chunks {
		parts = append(parts, chunk)
	}
	if len(parts) < 2 {
		t.Errorf("got %d chunks, want the reply streamed in pieces", len(parts))
	}
	if got := strings.Join(parts, ""); got != "Try the Mango Lassi" {
		t.Errorf("streamed text = %q", got)
	}
}

func TestStreamRecommendation_MissingKey(t *testing.T) {
	s := NewRecommendationService("", "", "", testLogger())
	chunks := make(chan string, 1)
	go s.StreamRecommendation(context.Background(), chunks, "a drink", testMenu(), models.LanguageEN)

	var parts []string
	for chunk := range chunks {
		parts = append(parts, chunk)
	}
	if len(parts) != 1 || parts[0] != "API Key missing. Please configure the environment." {
		t.Errorf("chunks = %q", parts)
	}
}
