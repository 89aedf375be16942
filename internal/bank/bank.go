// Package bank loads and validates the question bank. The bank is an
// external read-only data source; every record is validated on
// ingestion so the engine never meets a malformed question later.
package bank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/reteihq/attest-backend/internal/model"
)

// LoadError reports an unreachable or malformed question bank. It is
// fatal to starting an attestation and distinct from user validation
// errors.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("question bank %q: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader fetches the question bank from a local JSON file or an HTTP
// endpoint, depending on the configured source.
type Loader struct {
	source string
	client *http.Client
	log    zerolog.Logger
}

// NewLoader creates a Loader for the given source. A source starting
// with http:// or https:// is fetched over the network, anything else
// is treated as a file path.
func NewLoader(source string, log zerolog.Logger) *Loader {
	return &Loader{
		source: source,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log.With().Str("component", "bank_loader").Logger(),
	}
}

// Load fetches, decodes and validates the question bank. The returned
// slice preserves the source order; shuffling happens per attempt, not
// here.
func (l *Loader) Load(ctx context.Context) ([]model.Question, error) {
	raw, err := l.fetch(ctx)
	if err != nil {
		return nil, &LoadError{Source: l.source, Err: err}
	}

	var questions []model.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, &LoadError{Source: l.source, Err: fmt.Errorf("decode: %w", err)}
	}

	if err := Validate(questions); err != nil {
		return nil, &LoadError{Source: l.source, Err: err}
	}

	l.log.Info().Int("questions", len(questions)).Msg("Question bank loaded")
	return questions, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(l.source)
}

// Validate checks the bank invariants: at least one question, unique
// non-empty ids, non-empty texts, two or more options per question
// with unique texts, and exactly one correct option.
func Validate(questions []model.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("bank is empty")
	}

	seenIDs := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			return fmt.Errorf("question %d: missing id", i)
		}
		if _, dup := seenIDs[q.ID]; dup {
			return fmt.Errorf("question %q: duplicate id", q.ID)
		}
		seenIDs[q.ID] = struct{}{}

		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("question %q: missing text", q.ID)
		}
		if len(q.Answers) < 2 {
			return fmt.Errorf("question %q: needs at least 2 answer options", q.ID)
		}

		seenTexts := make(map[string]struct{}, len(q.Answers))
		correct := 0
		for _, a := range q.Answers {
			if strings.TrimSpace(a.Text) == "" {
				return fmt.Errorf("question %q: empty answer text", q.ID)
			}
			if _, dup := seenTexts[a.Text]; dup {
				return fmt.Errorf("question %q: duplicate answer text %q", q.ID, a.Text)
			}
			seenTexts[a.Text] = struct{}{}
			if a.Correct {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("question %q: expected exactly 1 correct answer, got %d", q.ID, correct)
		}
	}
	return nil
}
