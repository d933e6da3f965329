package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mspro-labs/bean-thinking/internal/feedback"
	"mspro-labs/bean-thinking/internal/logging"
	"mspro-labs/bean-thinking/internal/matcher"
	"mspro-labs/bean-thinking/internal/metrics"
	"mspro-labs/bean-thinking/internal/models"
	"mspro-labs/bean-thinking/internal/session"
)

const feedbackThanks = "Thanks for your feedback!"

// FeedbackSender forwards a feedback record to wherever it is collected.
type FeedbackSender interface {
	Submit(ctx context.Context, rec feedback.Record) error
}

// Options configures a Server.
type Options struct {
	Venues    []models.Venue
	Sessions  *session.Manager
	Sender    FeedbackSender
	RateLimit int // feedback posts per IP per minute; 0 disables the limit
	Now       func() time.Time
}

// Server renders the questionnaire and handles matches and feedback.
type Server struct {
	venues    []models.Venue
	sessions  *session.Manager
	sender    FeedbackSender
	rateLimit int
	now       func() time.Time
	pages     *Pages
}

// NewServer parses the templates and returns a ready Server.
func NewServer(opts Options) (*Server, error) {
	if len(opts.Venues) == 0 {
		return nil, errors.New("web: catalog is empty")
	}
	if opts.Sender == nil {
		return nil, errors.New("web: no feedback sender")
	}
	pages, err := ParsePages()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewManager("", false)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{
		venues:    opts.Venues,
		sessions:  opts.Sessions,
		sender:    opts.Sender,
		rateLimit: opts.RateLimit,
		now:       opts.Now,
		pages:     pages,
	}, nil
}

// Routes returns the HTTP handler for the whole site.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Post("/match", s.handleMatch)
	r.With(s.feedbackLimit()).Post("/feedback", s.handleFeedback)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) feedbackLimit() func(http.Handler) http.Handler {
	if s.rateLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(s.rateLimit, time.Minute)
}

// page is the data passed to every template.
type page struct {
	FlavourOptions  []string
	BrewStyles      []string
	AdventureLevels []string
	Ratings         []string
	MaxFlavours     int

	Selection models.UserSelection
	Nickname  string
	Warning   string

	Result        models.Result
	Rating        string
	Comments      string
	FeedbackOK    string
	FeedbackError string
}

func newPage() page {
	return page{
		FlavourOptions:  models.FlavourOptions,
		BrewStyles:      models.BrewStyles,
		AdventureLevels: models.AdventureLevels,
		Ratings:         models.FeedbackRatings,
		MaxFlavours:     models.MaxFlavours,
		// Radio groups start on their first option.
		Selection: models.UserSelection{
			BrewStyle:      models.BrewStyles[0],
			AdventureLevel: models.AdventureLevels[0],
		},
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.sessions.Load(w, r)
	s.render(w, s.pages.Home, http.StatusOK, newPage())
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	s.sessions.Load(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form data", http.StatusBadRequest)
		return
	}

	p := newPage()
	p.Selection = selectionFromForm(r)
	p.Nickname = strings.TrimSpace(r.PostFormValue("nickname"))

	result, ok := s.match(w, p, "questionnaire")
	if !ok {
		return
	}
	p.Result = result
	s.render(w, s.pages.Results, http.StatusOK, p)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Load(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form data", http.StatusBadRequest)
		return
	}

	p := newPage()
	p.Selection = selectionFromForm(r)
	p.Nickname = strings.TrimSpace(r.PostFormValue("nickname"))

	// The ranking is recomputed rather than trusted from the form.
	result, ok := s.match(w, p, "feedback")
	if !ok {
		return
	}
	p.Result = result

	in := feedback.Input{
		Nickname: p.Nickname,
		Rating:   r.PostFormValue("rating"),
		Comments: r.PostFormValue("comments"),
	}
	p.Rating, p.Comments = in.Rating, in.Comments

	if err := in.Validate(); err != nil {
		var ierr *feedback.InputError
		if !errors.As(err, &ierr) {
			logging.Error().Err(err).Msg("feedback validation failed")
			http.Error(w, "Feedback failed", http.StatusInternalServerError)
			return
		}
		metrics.ValidationFailuresTotal.WithLabelValues("feedback").Inc()
		p.FeedbackError = ierr.Message()
		s.render(w, s.pages.Results, http.StatusUnprocessableEntity, p)
		return
	}

	rec := feedback.Build(result, sess, in, s.now())
	if err := s.sender.Submit(r.Context(), rec); err != nil {
		metrics.FeedbackTotal.WithLabelValues("failed").Inc()
		logging.Warn().Err(err).Str("session", sess.ID.String()).Msg("feedback submission failed")
		p.FeedbackError = feedback.FailureMessage
		s.render(w, s.pages.Results, http.StatusOK, p)
		return
	}

	metrics.FeedbackTotal.WithLabelValues("ok").Inc()
	logging.Info().Str("session", sess.ID.String()).Str("rating", rec.Rating).Msg("feedback submitted")
	p.FeedbackOK = feedbackThanks
	p.Rating, p.Comments = "", ""
	s.render(w, s.pages.Results, http.StatusOK, p)
}

// match runs the matcher and renders the questionnaire with a warning when
// the answers are incomplete. It reports whether the caller should go on.
func (s *Server) match(w http.ResponseWriter, p page, form string) (models.Result, bool) {
	result, err := matcher.Match(s.venues, p.Selection)
	if err != nil {
		var verr *matcher.ValidationError
		if !errors.As(err, &verr) {
			logging.Error().Err(err).Msg("match failed")
			http.Error(w, "Match failed", http.StatusInternalServerError)
			return models.Result{}, false
		}
		metrics.ValidationFailuresTotal.WithLabelValues(form).Inc()
		logging.Debug().Strs("fields", verr.Fields).Str("form", form).Msg("rejected submission")
		p.Warning = verr.Message()
		s.render(w, s.pages.Home, http.StatusUnprocessableEntity, p)
		return models.Result{}, false
	}

	metrics.MatchesTotal.Inc()
	if len(result.Ranked) > 0 {
		metrics.TopScore.Observe(float64(result.Ranked[0].Score))
	}
	logging.Debug().Strs("flavours", p.Selection.Flavours).Strs("matches", result.Names()).Msg("matched")
	return result, true
}

func selectionFromForm(r *http.Request) models.UserSelection {
	var flavours []string
	for _, f := range r.PostForm["flavour"] {
		if f = strings.TrimSpace(f); f != "" {
			flavours = append(flavours, f)
		}
	}
	return models.UserSelection{
		Flavours:       flavours,
		BrewStyle:      r.PostFormValue("style"),
		AdventureLevel: r.PostFormValue("adventure"),
		Postcode:       strings.TrimSpace(r.PostFormValue("postcode")),
	}
}

// render executes into a buffer first so a template error can still
// become a clean 500.
func (s *Server) render(w http.ResponseWriter, t *template.Template, status int, data page) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base.html", data); err != nil {
		logging.Error().Err(err).Msg("template error")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
