package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/harshitmangtani02/aitf/internal/chat"
	"github.com/harshitmangtani02/aitf/internal/llm"
	"github.com/harshitmangtani02/aitf/internal/nlu"
	"github.com/harshitmangtani02/aitf/internal/session"
	"github.com/harshitmangtani02/aitf/internal/weather"
	"github.com/harshitmangtani02/aitf/internal/weather/openmeteo"
)

type stubLLM struct{}

func (stubLLM) Analyze(context.Context, llm.AnalyzeRequest) (*llm.Analysis, error) {
	return &llm.Analysis{}, nil
}

func (stubLLM) Compose(context.Context, llm.ComposeRequest) (string, error) {
	return "Weather Summary\nAll clear.", nil
}

type stubWeather struct {
	geocodeErr error
	fetchErr   error
}

func (s stubWeather) Geocode(_ context.Context, name string) (weather.Location, error) {
	if s.geocodeErr != nil {
		return weather.Location{}, s.geocodeErr
	}
	return weather.Location{City: name, Country: "Japan", Latitude: 35.6, Longitude: 139.7}, nil
}

func (s stubWeather) Fetch(_ context.Context, loc weather.Location, spec nlu.DateSpec) (weather.Record, error) {
	if s.fetchErr != nil {
		return weather.Record{}, s.fetchErr
	}
	return weather.Record{City: loc.City, Country: loc.Country, DateType: spec.Type}, nil
}

func newTestApp(w stubWeather) *fiber.App {
	app := fiber.New()
	svc := chat.NewService(stubLLM{}, w, session.NewMemoryStore(time.Hour))
	RegisterRoutes(app, svc)
	return app
}

// TestChatValidation verifies the request body checks on the chat endpoint.
func TestChatValidation(t *testing.T) {
	app := newTestApp(stubWeather{})

	// Unsupported language tag should return 400.
	body := strings.NewReader(`{"messages":[],"language":"fr"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// Malformed JSON should return 400.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

// TestChatWelcome verifies that an empty conversation gets the greeting as
// plain text, with the language defaulting to English.
func TestChatWelcome(t *testing.T) {
	app := newTestApp(stubWeather{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"messages":[]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q, want text/plain", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), "weather assistant") {
		t.Errorf("body = %q, want the greeting", data)
	}
}

// TestChatReply verifies a full round trip through the pipeline.
func TestChatReply(t *testing.T) {
	app := newTestApp(stubWeather{})

	body := strings.NewReader(`{"messages":[{"role":"user","content":"weather in Tokyo"}],"language":"en"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), "Weather Summary") {
		t.Errorf("body = %q, want the composed narrative", data)
	}
}

func TestWeatherQueryValidation(t *testing.T) {
	app := newTestApp(stubWeather{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestWeatherQuery(t *testing.T) {
	app := newTestApp(stubWeather{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?query=weather+in+Tokyo", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var rec weather.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if rec.City != "Tokyo" {
		t.Errorf("city = %q, want Tokyo", rec.City)
	}
}

func TestWeatherQueryErrorMapping(t *testing.T) {
	// Unknown city maps to 404.
	app := newTestApp(stubWeather{geocodeErr: openmeteo.ErrCityNotFound})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?query=Xyzzy", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}

	// Out-of-horizon date maps to 400.
	app = newTestApp(stubWeather{fetchErr: nlu.ErrForecastLimit})
	req = httptest.NewRequest(http.MethodGet, "/api/v1/weather?query=Tokyo", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}
