package assistant

import "math/rand/v2"

// Selector picks one canned apology when the model cannot answer.
type Selector struct {
	messages []string
	intn     func(n int) int
}

// NewSelector returns a Selector over messages. intn must return a value in
// [0, n); nil uses math/rand/v2. An empty messages slice uses FallbackMessages.
func NewSelector(messages []string, intn func(n int) int) *Selector {
	if len(messages) == 0 {
		messages = FallbackMessages
	}
	if intn == nil {
		intn = rand.IntN
	}
	return &Selector{
		messages: append([]string(nil), messages...),
		intn:     intn,
	}
}

// Pick returns one of the configured messages.
func (s *Selector) Pick() string {
	i := s.intn(len(s.messages))
	if i < 0 || i >= len(s.messages) {
		i = 0
	}
	return s.messages[i]
}
