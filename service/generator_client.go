package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"finance-advisor/config"
)

// Outcome classifies a generator call.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeUnavailable
	OutcomeTimeout
	OutcomeMalformed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeMalformed:
		return "malformed"
	}
	return "unknown"
}

// GenerateResult is what a generator call produced. Text is only set when
// Outcome is OutcomeOK; Err describes any other outcome.
type GenerateResult struct {
	Outcome Outcome
	Text    string
	Err     error
}

func (r GenerateResult) OK() bool {
	return r.Outcome == OutcomeOK
}

// TextGenerator is the narrow contract of the external text-generation backend.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) GenerateResult
	Ping(ctx context.Context) bool
}

const maxGeneratorBody = 1 << 20

// textPaths are the reply fields that may carry the generated text, tried in
// order: Ollama style, Hugging Face pipeline style, then OpenAI style.
var textPaths = []string{
	"response",
	"generated_text",
	"choices.0.message.content",
	"choices.0.text",
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict  int     `json:"num_predict"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// GeneratorClient talks to a locally hosted LLM service over HTTP.
type GeneratorClient struct {
	baseURL      string
	model        string
	temperature  float64
	timeout      time.Duration
	probeTimeout time.Duration
	httpClient   *http.Client
}

func NewGeneratorClient(cfg *config.Config) *GeneratorClient {
	return &GeneratorClient{
		baseURL:      strings.TrimRight(cfg.GeneratorURL, "/"),
		model:        cfg.GeneratorModel,
		temperature:  cfg.GeneratorTemperature,
		timeout:      cfg.GeneratorTimeout,
		probeTimeout: cfg.GeneratorProbeTimeout,
		httpClient: &http.Client{
			Timeout: cfg.GeneratorTimeout + cfg.GeneratorProbeTimeout,
		},
	}
}

func (c *GeneratorClient) URL() string {
	return c.baseURL
}

func (c *GeneratorClient) Model() string {
	return c.model
}

// Generate submits prompt with a token budget. The call never outlives the
// configured timeout.
func (c *GeneratorClient) Generate(ctx context.Context, prompt string, maxTokens int) GenerateResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			NumPredict:  maxTokens,
			Temperature: c.temperature,
			TopP:        0.9,
		},
	})
	if err != nil {
		return GenerateResult{Outcome: OutcomeMalformed, Err: errors.Wrap(err, "encode request")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return GenerateResult{Outcome: OutcomeUnavailable, Err: errors.Wrap(err, "build request")}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failure(ctx, errors.Wrap(err, "generator request"))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return GenerateResult{
			Outcome: OutcomeUnavailable,
			Err:     errors.Errorf("generator error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGeneratorBody))
	if err != nil {
		return failure(ctx, errors.Wrap(err, "read generator reply"))
	}

	text, ok := extractText(body)
	if !ok {
		return GenerateResult{Outcome: OutcomeMalformed, Err: errors.New("generator reply has no text")}
	}
	return GenerateResult{Outcome: OutcomeOK, Text: text}
}

// Ping is the lightweight reachability probe.
func (c *GeneratorClient) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

func failure(ctx context.Context, err error) GenerateResult {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return GenerateResult{Outcome: OutcomeTimeout, Err: err}
	}
	return GenerateResult{Outcome: OutcomeUnavailable, Err: err}
}

func extractText(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	for _, path := range textPaths {
		res := gjson.GetBytes(body, path)
		if res.Type != gjson.String {
			continue
		}
		if text := strings.TrimSpace(res.String()); text != "" {
			return text, true
		}
	}
	return "", false
}
