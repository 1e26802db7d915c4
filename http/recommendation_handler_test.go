package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"finance-advisor/config"
	"finance-advisor/domain"
	"finance-advisor/service"
)

const validSnapshot = `{
	"userId": "u-1",
	"accounts": [{"id": "a1", "type": "checking", "balance": 2500}],
	"transactions": [
		{"id": "t1", "date": "2024-01-10", "amount": 900, "category": "groceries", "type": "out"},
		{"id": "t2", "date": "2024-02-10", "amount": 1000, "category": "groceries", "type": "out"},
		{"id": "t3", "date": "2024-03-10", "amount": 1500, "category": "rent", "type": "out"},
		{"id": "t4", "date": "2024-03-01", "amount": 3000, "category": "salary", "type": "in"}
	],
	"monthlyIncome": 3000,
	"savingsGoal": 10000
}`

func newTestHandler() *RecommendationHandler {
	return NewRecommendationHandler(service.NewRecommendationService(config.Default(), nil, nil))
}

func postJSON(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/recommendations", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRecommendHandler_OK(t *testing.T) {
	handler := newTestHandler()

	w := httptest.NewRecorder()
	handler.Recommend(w, postJSON(validSnapshot))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp domain.RecommendationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.OverallScore < 0 || resp.OverallScore > 100 {
		t.Errorf("score out of range: %d", resp.OverallScore)
	}
	if len(resp.Predictions) != 3 {
		t.Errorf("expected 3 predictions, got %d", len(resp.Predictions))
	}
	if resp.LLMEnhanced {
		t.Errorf("expected deterministic response")
	}
}

func TestRecommendHandler_MethodNotAllowed(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/recommendations", nil)
	w := httptest.NewRecorder()

	handler.Recommend(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestRecommendHandler_UnsupportedMediaType(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/recommendations", bytes.NewBufferString(validSnapshot))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()

	handler.Recommend(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", w.Code)
	}
}

func TestRecommendHandler_BadRequest(t *testing.T) {
	cases := map[string]string{
		"invalid json":   `{invalid-json}`,
		"missing user":   `{"accounts": [], "transactions": []}`,
		"bad direction":  `{"userId": "u", "transactions": [{"id": "t", "date": "2024-01-01", "amount": 5, "type": "up"}]}`,
		"bad date":       `{"userId": "u", "transactions": [{"id": "t", "date": "yesterday", "amount": 5, "type": "out"}]}`,
		"negative spend": `{"userId": "u", "transactions": [{"id": "t", "date": "2024-01-01", "amount": -5, "type": "out"}]}`,
	}

	handler := newTestHandler()
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Recommend(w, postJSON(body))

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}

			var payload map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil || payload["error"] == "" {
				t.Errorf("expected JSON error body, got %q", w.Body.String())
			}
		})
	}
}
