// Package llm wraps langchaingo for the bot's four generation concerns:
// concierge answers, rolling summary updates, translation, and the yes/no
// places-intent judgment.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sancris/concierge/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Model wraps a langchaingo LLM.
type Model struct {
	llm       llms.Model
	modelName string
}

// NewModel creates an LLM model based on configuration.
func NewModel(cfg config.Config) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:       model,
		modelName: cfg.LLMModel,
	}, nil
}

// Model returns the LLM model name.
func (m *Model) Model() string {
	return m.modelName
}

// GenerateWithSystem generates text with a system prompt.
func (m *Model) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	response, err := m.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate with system: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}

const conciergeSystemPrompt = `You are a knowledgeable and reliable concierge for San Cristóbal de las Casas. ` +
	`When answering a query, first check the provided conversation history. If the requested information is ` +
	`not found, you may supplement your answer with data from reputable sources such as official tourism ` +
	`websites, recognized travel guides, and local government resources, but only when it is confirmed by ` +
	`at least two authoritative sources. If the data remains ambiguous or incomplete, ask the user for ` +
	`clarification rather than speculating.

Format your answers with clear headings, bullet points, and numbered lists where appropriate, separated by ` +
	`ample newlines for readability. Use <b> for section titles (e.g. Description:, Price:, Details:) and ` +
	`<i> for the actual content. Feel free to add emojis (like 😊 or 👍) to enhance the tone. Maintain a ` +
	`friendly and informative tone throughout.

If a user's query is ambiguous or lacks sufficient detail, prompt the user with a clarifying question ` +
	`instead of guessing.`

// Answer generates a concierge answer for a history-bearing prompt, hinting
// the target language.
func (m *Model) Answer(ctx context.Context, prompt, targetLanguage string) (string, error) {
	system := conciergeSystemPrompt + "\n\nAnswer in " + languageName(targetLanguage) + "."
	return m.GenerateWithSystem(ctx, system, prompt)
}

// UpdateSummary folds new turns into the previous summary, or seeds a fresh
// summary when there is none. The result is always English; callers translate
// for the session language.
func (m *Model) UpdateSummary(ctx context.Context, prevSummary string, turns []string) (string, error) {
	newText := strings.Join(turns, "\n")
	var prompt string
	if prevSummary != "" {
		prompt = fmt.Sprintf(
			"Update the following conversation summary using the previous summary and new messages.\n\n"+
				"Previous summary: %s\n\nNew messages: %s\n\n"+
				"Provide an updated, concise summary that preserves key details.",
			prevSummary, newText)
	} else {
		prompt = fmt.Sprintf(
			"Summarize the following conversation concisely, preserving key details:\n\n%s", newText)
	}

	return m.GenerateWithSystem(ctx,
		"You condense conversations into short summaries. Reply with the summary only.", prompt)
}

// Translate renders text into the target language. On failure it returns the
// input unchanged along with the error, so callers can log and keep going.
func (m *Model) Translate(ctx context.Context, text, targetLang string) (string, error) {
	out, err := m.GenerateWithSystem(ctx,
		fmt.Sprintf("Translate the user's text into %s. Preserve all ⟦n⟧ placeholders and line breaks "+
			"exactly as they appear. Reply with the translation only.", languageName(targetLang)),
		text)
	if err != nil {
		return text, fmt.Errorf("translate: %w", err)
	}
	return out, nil
}

// IsPlacesQuery asks for a yes/no judgment: does the text express an intent
// to search for venues or places?
func (m *Model) IsPlacesQuery(ctx context.Context, text string) (bool, error) {
	out, err := m.GenerateWithSystem(ctx,
		"Answer strictly yes or no: does the user's message ask to find, list, or recommend places or "+
			"venues (restaurants, hotels, bars, cafes, shops, attractions)?",
		text)
	if err != nil {
		return false, fmt.Errorf("places judgment: %w", err)
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(out)), "yes"), nil
}

func languageName(code string) string {
	switch strings.ToLower(code) {
	case "es":
		return "Spanish"
	case "ru":
		return "Russian"
	default:
		return "English"
	}
}
