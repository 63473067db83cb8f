// Package transcribe sends recorded audio to an OpenAI-compatible
// speech-to-text endpoint and optionally refines the transcript with a
// chat model.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/text/language"
)

const (
	// DefaultBaseURL targets Groq's OpenAI-compatible API.
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel is the transcription model.
	DefaultModel = "whisper-large-v3"

	// DefaultRefinementModel cleans up transcripts when refinement is
	// enabled.
	DefaultRefinementModel = "qwen/qwen3-32b"
)

// Config selects the endpoint, models and language hint.
type Config struct {
	APIKey  string
	BaseURL string // DefaultBaseURL when empty
	Model   string // DefaultModel when empty

	// Language is an optional BCP-47 hint. Empty or "auto" lets the
	// model detect the language.
	Language string
}

// Client wraps the OpenAI-compatible API for the two calls the app
// makes: audio transcription and transcript refinement.
type Client struct {
	api   openai.Client
	model string
	lang  string
}

// New validates cfg and builds a Client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("transcribe: missing API key")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	var lang string
	if cfg.Language != "" && !strings.EqualFold(cfg.Language, "auto") {
		tag, err := language.Parse(cfg.Language)
		if err != nil {
			return nil, fmt.Errorf("transcribe: invalid language hint %q: %w", cfg.Language, err)
		}
		// The endpoint takes a bare ISO 639-1 code, not a full tag.
		base, _ := tag.Base()
		lang = base.String()
	}

	return &Client{
		api:   openai.NewClient(option.WithAPIKey(cfg.APIKey), option.WithBaseURL(baseURL)),
		model: model,
		lang:  lang,
	}, nil
}

// Transcribe uploads the WAV file at path and returns its transcript.
func (c *Client) Transcribe(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		File:  f,
		Model: openai.AudioModel(c.model),
	}
	if c.lang != "" {
		params.Language = openai.String(c.lang)
	}

	resp, err := c.api.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	return resp.Text, nil
}

// RefineOptions tune the refinement call.
type RefineOptions struct {
	// Prompt holds the user's style or language preferences, verbatim.
	Prompt string

	// Model overrides DefaultRefinementModel.
	Model string
}

const refineSystemPrompt = "You are a helpful assistant that refines " +
	"and improves text transcripts."

const refineInstruction = "Please improve the following transcript by " +
	"fixing grammar, punctuation, and making it more readable while " +
	"preserving the original meaning. Apply any style or language " +
	"preferences specified in the next section. Return only the " +
	"improved transcript without any commentary."

// Refine asks a chat model to clean up a raw transcript. The caller
// decides what to do when this fails; the raw transcript is always a
// valid fallback.
func (c *Client) Refine(ctx context.Context, transcript string, opts RefineOptions) (string, error) {
	model := opts.Model
	if model == "" {
		model = DefaultRefinementModel
	}

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(refineSystemPrompt),
			openai.UserMessage(buildRefinePrompt(transcript, opts.Prompt)),
		},
		// Low temperature keeps the model from rewriting content.
		Temperature: openai.Float(0.1),
	})
	if err != nil {
		return "", fmt.Errorf("refinement request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("transcribe: refinement response has no choices")
	}
	refined := strings.TrimSpace(resp.Choices[0].Message.Content)
	if refined == "" {
		return "", errors.New("transcribe: refinement produced empty text")
	}
	return refined, nil
}

func buildRefinePrompt(transcript, stylePrompt string) string {
	style := strings.TrimSpace(stylePrompt)
	if style == "" {
		style = "No specific style preferences."
	}
	return fmt.Sprintf("%s\n\nStyle/Language Preferences:\n%s\n\nOriginal Transcript:\n<transcript>\n%s\n</transcript>",
		refineInstruction, style, transcript)
}
