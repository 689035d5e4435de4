// Package chat runs queries through the extract, filter and render pipeline and keeps
// each client's transcript.
package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/lapbot/internal/catalog"
	"github.com/hyperjump/lapbot/internal/intent"
	"github.com/hyperjump/lapbot/internal/metrics"
	"github.com/hyperjump/lapbot/internal/models"
	"github.com/hyperjump/lapbot/internal/query"
	"github.com/hyperjump/lapbot/internal/render"
)

// ErrUnhandled wraps any failure other than a data load error or an empty result,
// including panics recovered from the pipeline.
var ErrUnhandled = errors.New("internal error")

// Runner filters and sorts a working set. *query.Engine implements it.
type Runner interface {
	Run(working []*models.Listing, d models.Directive) ([]*models.Listing, error)
}

// Bot answers queries against one store.
type Bot struct {
	store     *catalog.Store
	extractor *intent.Extractor
	runner    Runner
	renderer  *render.Renderer
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// BotOption configures a Bot.
type BotOption func(*Bot)

// WithLogger sets the logger for query outcomes.
func WithLogger(l *zap.Logger) BotOption {
	return func(b *Bot) { b.logger = l }
}

// WithMetrics records query metrics.
func WithMetrics(m *metrics.Metrics) BotOption {
	return func(b *Bot) { b.metrics = m }
}

// WithRunner replaces the default query engine.
func WithRunner(r Runner) BotOption {
	return func(b *Bot) { b.runner = r }
}

// NewBot creates a Bot over store. A nil renderer uses render defaults.
func NewBot(store *catalog.Store, renderer *render.Renderer, opts ...BotOption) *Bot {
	if renderer == nil {
		renderer = render.NewRenderer(render.Options{})
	}
	b := &Bot{
		store:     store,
		extractor: intent.NewExtractor(),
		runner:    query.NewEngine(query.DefaultLimit),
		renderer:  renderer,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Store returns the bot's store.
func (b *Bot) Store() *catalog.Store {
	return b.store
}

// Answer runs text through the pipeline. On success the Answer carries the rendered cards.
// Errors match catalog.ErrDataLoad, query.ErrEmptyResult or ErrUnhandled.
func (b *Bot) Answer(text string) (ans *models.Answer, err error) {
	start := time.Now()
	mode := "unknown"
	defer func() {
		if r := recover(); r != nil {
			ans = nil
			err = fmt.Errorf("%w: %v", ErrUnhandled, r)
		}
		b.observe(text, mode, ans, err, time.Since(start))
	}()

	if err := b.store.Err(); err != nil {
		return nil, err
	}
	working := b.store.Working()
	d := b.extractor.Extract(text, catalog.Manufacturers(working))
	mode = d.Mode.String()

	listings, err := b.runner.Run(working, d)
	if errors.Is(err, query.ErrEmptyResult) {
		return &models.Answer{Directive: d}, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnhandled, err)
	}

	ranked := !d.Mode.Superlative()
	return &models.Answer{
		Directive: d,
		Listings:  listings,
		Ranked:    ranked,
		HTML:      b.renderer.Cards(listings, ranked),
	}, nil
}

func (b *Bot) observe(text, mode string, ans *models.Answer, err error, elapsed time.Duration) {
	outcome := metrics.OutcomeOK
	results := 0
	switch {
	case err == nil:
		results = len(ans.Listings)
	case errors.Is(err, catalog.ErrDataLoad):
		outcome = metrics.OutcomeDataError
	case errors.Is(err, query.ErrEmptyResult):
		outcome = metrics.OutcomeEmpty
	default:
		outcome = metrics.OutcomeInternal
		b.logger.Error("query failed", zap.String("query", text), zap.Error(err))
	}
	b.metrics.ObserveQuery(mode, outcome, results, elapsed)
	b.logger.Debug("query answered",
		zap.String("query", text),
		zap.String("mode", mode),
		zap.String("outcome", outcome),
		zap.Int("results", results),
		zap.Duration("elapsed", elapsed),
	)
}

// Rendered is a full transcript ready for display.
type Rendered struct {
	HTML    string `json:"html"`
	Entries int    `json:"entries"`
	// ScrollTo is the element id the client should scroll into view.
	ScrollTo string `json:"scroll_to"`
}

// Submit appends the escaped user echo and the answer (or an error entry) to s,
// and returns the whole transcript.
func (b *Bot) Submit(s *Session, text string) Rendered {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.append(render.UserEcho(text))
	ans, err := b.Answer(text)
	if err != nil {
		s.append(ErrorFragment(err))
	} else {
		s.append(ans.HTML)
	}
	return s.renderLocked()
}

// Reset clears s and returns the empty transcript.
func (b *Bot) Reset(s *Session) Rendered {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.touch()
	b.metrics.ObserveReset()
	return s.renderLocked()
}

// Render returns the transcript of s without changing it.
func (b *Bot) Render(s *Session) Rendered {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderLocked()
}

// ErrorFragment renders err as an inline transcript entry.
func ErrorFragment(err error) string {
	return render.ErrorEntry(ErrorMessage(err))
}

// ErrorMessage returns the icon and user-facing message for a query error.
func ErrorMessage(err error) (icon, message string) {
	switch {
	case errors.Is(err, catalog.ErrDataLoad):
		return "⚠️", "Error loading data: " + err.Error()
	case errors.Is(err, query.ErrEmptyResult):
		return "⚠️", "No laptops matched your query."
	default:
		return "❌", "Internal error: " + strings.TrimPrefix(err.Error(), ErrUnhandled.Error()+": ")
	}
}
