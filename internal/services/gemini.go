package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"google.golang.org/genai"
)

type OutputMode int

const (
	OutputText OutputMode = iota
	OutputJSON
)

type ClientStatus int

const (
	ClientUninitialized ClientStatus = iota
	ClientReady
)

func (s ClientStatus) String() string {
	if s == ClientReady {
		return "ready"
	}
	return "uninitialized"
}

// GeminiService sends a single prompt to the model and returns its raw text.
type GeminiService interface {
	Status() ClientStatus
	Generate(ctx context.Context, prompt string, mode OutputMode) (string, error)
}

// ContentGenerator is the subset of the genai Models API the service uses.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiService struct {
	models    ContentGenerator
	status    ClientStatus
	modelName string
	timeout   time.Duration
}

// NewGeminiService never fails: a missing key or a client construction
// error yields a service in the ClientUninitialized state.
func NewGeminiService(apiKey, modelName string, timeout time.Duration) GeminiService {
	if apiKey == "" {
		log.Println("⚠️  GEMINI_API_KEY is not set, AI client disabled")
		return &geminiService{status: ClientUninitialized, modelName: modelName, timeout: timeout}
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Printf("❌ Failed to initialize Gemini client: %v", err)
		return &geminiService{status: ClientUninitialized, modelName: modelName, timeout: timeout}
	}

	return NewGeminiServiceWithGenerator(client.Models, modelName, timeout)
}

func NewGeminiServiceWithGenerator(models ContentGenerator, modelName string, timeout time.Duration) GeminiService {
	status := ClientReady
	if models == nil {
		status = ClientUninitialized
	}
	return &geminiService{
		models:    models,
		status:    status,
		modelName: modelName,
		timeout:   timeout,
	}
}

// Status implements GeminiService.
func (g *geminiService) Status() ClientStatus {
	return g.status
}

// Generate implements GeminiService.
func (g *geminiService) Generate(ctx context.Context, prompt string, mode OutputMode) (string, error) {
	if g.status != ClientReady {
		return "", ErrClientNotInitialized
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var config *genai.GenerateContentConfig
	if mode == OutputJSON {
		config = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		}
	}

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		log.Printf("❌ Gemini API error: %v", err)
		return "", classifyError(ctx, err)
	}

	if resp == nil {
		return "", fmt.Errorf("%w (nil response)", ErrEmptyResponse)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}

func classifyError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out: %v", ErrTransient, err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError {
			return fmt.Errorf("%w: %v", ErrTransient, err)
		}
	}

	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
