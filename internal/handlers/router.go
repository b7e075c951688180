package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"hekaya/internal/logger"
)

// Handlers bundles every handler the router mounts
type Handlers struct {
	Members      *MemberHandler
	Stats        *StatsHandler
	Achievements *AchievementHandler
	Ranking      *RankingHandler
	Stories      *StoryHandler
	Health       *HealthHandler
}

// NewRouter mounts all routes.
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", h.Stats.RecordSession)

		r.Post("/members", h.Members.Create)
		r.Route("/members/{memberID}", func(r chi.Router) {
			r.Get("/", h.Members.Get)
			r.Get("/stats", h.Stats.MemberStats)
			r.Get("/streak", h.Stats.Streak)
			r.Get("/efficiency", h.Stats.Efficiency)
			r.Get("/rank", h.Ranking.MemberRank)

			r.Get("/achievements", h.Achievements.List)
			r.Get("/achievements/progress", h.Achievements.Progress)
			r.Post("/achievements/{achievementID}/claim", h.Achievements.Claim)
		})

		r.Get("/leaderboard", h.Ranking.Leaderboard)
		r.Get("/stats/global", h.Ranking.GlobalStats)

		r.Post("/stories", h.Stories.Create)
		r.Post("/stories/analyze", h.Stories.Analyze)
		r.Route("/stories/{storyID}", func(r chi.Router) {
			r.Get("/", h.Stories.Get)
			r.Put("/", h.Stories.Update)
		})
	})

	return r
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
