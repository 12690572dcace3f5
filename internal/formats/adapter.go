package formats

import (
	"context"
	"io"

	"github.com/quizmesh/giftbridge/internal/quiz"
)

// Adapter defines import/export for a given interchange profile (GIFT, JSON).
type Adapter interface {
	// Import parses a format-specific payload into format-neutral questions.
	Import(ctx context.Context, r io.Reader) ([]quiz.Question, error)
	// Export renders a bank into the format-specific payload.
	Export(ctx context.Context, b BankLike) (io.ReadCloser, error)
	// ContentType is the media type of exported payloads.
	ContentType() string
}

// BankLike is the minimal surface adapters need from the bank model.
// (Prevents import cycles: the formats layer doesn't depend on the store.)
type BankLike interface {
	GetID() string
	GetTitle() string
	GetQuestions() []quiz.Question
}

// Registry of adapters by profile key (e.g., "gift.v1", "json.v1")
var registry = map[string]Adapter{}

// Register a profile adapter. Call from init() in subpackages.
func Register(profile string, a Adapter) { registry[profile] = a }

// Lookup returns a registered adapter for a profile.
func Lookup(profile string) (Adapter, bool) { a, ok := registry[profile]; return a, ok }

// Profiles lists registered profile keys (for error messages).
func Profiles() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	return out
}
