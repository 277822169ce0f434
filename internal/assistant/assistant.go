/*
Package assistant turns a user message into a reply. It runs safety triage
first, answers safety-relevant messages with fixed text, and only otherwise
asks the chat model, degrading to a canned apology when the model cannot help.
*/
package assistant

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"MediBot/internal/apperr"
	"MediBot/internal/triage"
)

// ErrEmptyMessage is returned for blank input.
var ErrEmptyMessage = apperr.New(apperr.KindValidation, "assistant.handle", "Empty message")

// Reply is the body of a /chat response.
type Reply struct {
	Reply  string `json:"reply"`
	Source Source `json:"source"`
}

// Completer asks a hosted model for a single completion.
type Completer interface {
	Complete(ctx context.Context, message string) (string, error)
}

// Classifier maps a message to a triage category.
type Classifier interface {
	Classify(text string) triage.Category
}

// Service is the response dispatcher. A nil completer means the chat
// provider is disabled and every untriaged message gets a fallback.
type Service struct {
	classifier Classifier
	completer  Completer
	fallback   *Selector
}

func New(classifier Classifier, completer Completer, fallback *Selector) *Service {
	if classifier == nil {
		classifier = triage.New(triage.MatchSubstring)
	}
	if fallback == nil {
		fallback = NewSelector(nil, nil)
	}
	return &Service{
		classifier: classifier,
		completer:  completer,
		fallback:   fallback,
	}
}

// Handle answers one message. The only error it returns is ErrEmptyMessage;
// model failures are logged and turned into a fallback reply.
func (s *Service) Handle(ctx context.Context, message string) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, ErrEmptyMessage
	}

	logger := zerolog.Ctx(ctx)

	category := s.classifier.Classify(message)
	if reply, ok := cannedReply(category); ok {
		logger.Info().Str("triage", category.String()).Msg("Safety trigger matched, returning canned reply")
		return reply, nil
	}

	if s.completer == nil {
		logger.Debug().Msg("Chat provider disabled, using fallback reply")
		return Reply{Reply: s.fallback.Pick(), Source: SourceFallback}, nil
	}

	text, err := s.completer.Complete(ctx, message)
	if err != nil {
		logger.Warn().Err(err).Msg("Chat completion failed, using fallback reply")
		return Reply{Reply: s.fallback.Pick(), Source: SourceFallback}, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		logger.Warn().Msg("Chat completion returned empty text, using fallback reply")
		return Reply{Reply: s.fallback.Pick(), Source: SourceFallback}, nil
	}

	return Reply{Reply: text, Source: SourceAIModel}, nil
}
