package domain

import "errors"

var (
	ErrMissingCredential = errors.New("MISTRAL_API_KEY is not set")
	ErrInvalidCredential = errors.New("API key rejected by upstream")
	ErrUpstreamLLM       = errors.New("upstream LLM failure")
	ErrEmptyCatalog      = errors.New("style catalog is empty")
	ErrInvalidCatalog    = errors.New("invalid style catalog")
	ErrIndexOutOfRange   = errors.New("style index out of range")
	ErrEmptyTopic        = errors.New("topic must not be empty")
	ErrTopicTooLong      = errors.New("topic is too long")
	ErrInvalidTransition = errors.New("event not allowed in current state")
)
