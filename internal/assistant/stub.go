package assistant

import "context"

// StubLLMClient is used when no LLM provider is configured. Every message
// falls through to the canned reply.
type StubLLMClient struct{}

func (StubLLMClient) Complete(_ context.Context, _ LLMRequest) (LLMResponse, error) {
	return LLMResponse{Text: "The assistant is offline right now. Please use the booking form instead."}, nil
}
