package fetcher

import (
	"context"
	"io"

	"github.com/pevans/newsharvest/scraper"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// Outcome says how a full text was resolved.
type Outcome int

const (
	// OutcomeStatic means the static document matched a rule.
	OutcomeStatic Outcome = iota
	// OutcomeRendered means the rendered document matched a rule.
	OutcomeRendered
	// OutcomeRequestFailed means the static fetch failed; no render was
	// attempted.
	OutcomeRequestFailed
	// OutcomeNotFound means neither document matched, or rendering failed.
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStatic:
		return "static"
	case OutcomeRendered:
		return "rendered"
	case OutcomeRequestFailed:
		return "request_failed"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Resolution is the result of resolving one article body. Text is never
// empty: it holds either extracted text or a sentinel. Err explains a
// sentinel. Escalated is set once a render was attempted.
type Resolution struct {
	Text      string
	Outcome   Outcome
	Rule      string
	Escalated bool
	Err       error
}

type resolveState int

const (
	stateStatic resolveState = iota
	stateRendered
)

// Resolver fetches an article body with a static request and escalates to a
// headless render only when the static document yields no text.
type Resolver struct {
	static    Static
	renderer  Renderer
	renderSem *semaphore.Weighted
	log       logrus.FieldLogger
}

// NewResolver creates a resolver. renderer may be nil, in which case pages
// without static text resolve to the not-found sentinel. renderConcurrency
// caps simultaneous renders independently of the static fetches.
func NewResolver(static Static, renderer Renderer, renderConcurrency int, log logrus.FieldLogger) *Resolver {
	if renderConcurrency < 1 {
		renderConcurrency = 1
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	return &Resolver{
		static:    static,
		renderer:  renderer,
		renderSem: semaphore.NewWeighted(int64(renderConcurrency)),
		log:       log,
	}
}

// ResolveFullText returns the article body at rawURL, or a sentinel.
func (r *Resolver) ResolveFullText(ctx context.Context, rawURL string, rules scraper.Rules) string {
	return r.Resolve(ctx, rawURL, rules).Text
}

// Resolve runs the static-then-rendered state machine. A failed static fetch
// ends in OutcomeRequestFailed without rendering, because a fetch failure is
// no evidence that rendering would help. Both states use the same rules.
func (r *Resolver) Resolve(ctx context.Context, rawURL string, rules scraper.Rules) Resolution {
	state := stateStatic

	for {
		switch state {
		case stateStatic:
			doc, err := r.static.Fetch(ctx, rawURL, nil)
			if err != nil {
				return Resolution{Text: scraper.RequestFailed, Outcome: OutcomeRequestFailed, Err: err}
			}
			if text, rule := scraper.MatchBody(doc, rules); text != "" {
				return Resolution{Text: text, Outcome: OutcomeStatic, Rule: rule}
			}
			state = stateRendered

		case stateRendered:
			return r.render(ctx, rawURL, rules)
		}
	}
}

// render is the terminal state.
func (r *Resolver) render(ctx context.Context, rawURL string, rules scraper.Rules) Resolution {
	notFound := Resolution{
		Text:    scraper.NotFound,
		Outcome: OutcomeNotFound,
		Err:     &scraper.LayoutError{What: "article body"},
	}

	if r.renderer == nil {
		return notFound
	}

	r.log.WithField("url", rawURL).Info("No static match, escalating to headless render")
	notFound.Escalated = true

	if err := r.renderSem.Acquire(ctx, 1); err != nil {
		notFound.Err = &RenderError{URL: rawURL, Err: err}
		return notFound
	}
	defer r.renderSem.Release(1)

	doc, err := r.renderer.Render(ctx, rawURL)
	if err != nil {
		notFound.Err = err
		return notFound
	}

	if text, rule := scraper.MatchBody(doc, rules); text != "" {
		return Resolution{Text: text, Outcome: OutcomeRendered, Rule: rule, Escalated: true}
	}

	return notFound
}
