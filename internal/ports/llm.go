package ports

import (
	"context"
	"iter"
)

// ChatClient sends a single user-turn prompt to a chat-completion model.
type ChatClient interface {
	// Stream yields text fragments in arrival order until the upstream
	// closes the stream. The sequence cannot be restarted; a retry needs a
	// new call. A non-nil error ends the sequence.
	Stream(ctx context.Context, prompt string) iter.Seq2[string, error]

	// Complete waits for the whole reply and returns it as one string.
	Complete(ctx context.Context, prompt string) (string, error)
}

// ChatConnector builds a ChatClient bound to one API credential.
type ChatConnector interface {
	Connect(ctx context.Context, apiKey string) (ChatClient, error)
}
