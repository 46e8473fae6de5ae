package ports

import "context"

// GenerateInput is one chat-completion request.
type GenerateInput struct {
	System    string
	User      string
	Model     string
	MaxTokens int
}

// GenerateOutput is the text returned by the model, verbatim.
type GenerateOutput struct {
	Text  string
	Model string
}

// Generator produces an explanation via a hosted LLM.
type Generator interface {
	Generate(ctx context.Context, in GenerateInput) (GenerateOutput, error)
}
