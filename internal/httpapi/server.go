package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"horse.fit/discovr/internal/db"
	"horse.fit/discovr/internal/globaltime"
	"horse.fit/discovr/internal/pipeline"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server serves the read-only events API on top of the upserted rows.
type Server struct {
	store  *db.EventStore
	cities *pipeline.CityTable
	logger zerolog.Logger
	opts   Options
}

type venueView struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Region  string `json:"region,omitempty"`
}

type eventView struct {
	IdentityKey string     `json:"identity_key"`
	SourceID    string     `json:"source_id"`
	SourceRank  int        `json:"source_rank"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Venue       venueView  `json:"venue"`
	City        string     `json:"city"`
	Category    string     `json:"category,omitempty"`
	URL         *string    `json:"url,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	LastSeenAt  time.Time  `json:"last_seen_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type cityView struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Events  int64    `json:"events"`
}

type statsView struct {
	TotalEvents   int64      `json:"total_events"`
	UpcomingCount int64      `json:"upcoming_count"`
	UndatedCount  int64      `json:"undated_count"`
	LastSeenAt    *time.Time `json:"last_seen_at,omitempty"`
}

func NewServer(store *db.EventStore, cities *pipeline.CityTable, logger zerolog.Logger, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "0.0.0.0"
	}
	port := opts.Port
	if port <= 0 {
		port = 8090
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	if cities == nil {
		cities = pipeline.DefaultCityTable()
	}

	return &Server{
		store:  store,
		cities: cities,
		logger: logger,
		opts: Options{
			Host:            host,
			Port:            port,
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       3600,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Err(v.Error).
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("remote_ip", v.RemoteIP).
					Str("request_id", v.RequestID).
					Msg("http request failed")
				return nil
			}

			s.logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	api := e.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.GET("/stats", s.handleStats)
	api.GET("/cities", s.handleCities)
	api.GET("/events", s.handleEvents)
	api.GET("/events/:identity_key", s.handleEventDetail)

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("discovr api server started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("discovr api server stopped")
	return nil
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		switch v := he.Message.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				message = v
			}
		default:
			if text := strings.TrimSpace(http.StatusText(status)); text != "" {
				message = text
			}
		}
	} else if err != nil {
		message = err.Error()
	}

	if status >= 500 {
		_ = internalError(c, "Internal server error")
		return
	}
	_ = fail(c, status, message, nil)
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service": "discovr",
		"time":    globaltime.UTC(),
	})
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.store.Stats(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("load stats failed")
		return internalError(c, "Failed to load stats")
	}
	return success(c, statsView{
		TotalEvents:   stats.TotalEvents,
		UpcomingCount: stats.UpcomingCount,
		UndatedCount:  stats.UndatedCount,
		LastSeenAt:    stats.LastSeenAt,
	})
}

func (s *Server) handleCities(c echo.Context) error {
	counts, err := s.store.CityCounts(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("load city counts failed")
		return internalError(c, "Failed to load cities")
	}

	countByCity := make(map[string]int64, len(counts))
	for _, cc := range counts {
		countByCity[cc.City] = cc.Count
	}

	entries := s.cities.Entries()
	views := make([]cityView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, cityView{
			Name:    entry.Name,
			Aliases: entry.Aliases,
			Events:  countByCity[entry.Name],
		})
	}
	return success(c, map[string]any{"cities": views})
}

func (s *Server) handleEvents(c echo.Context) error {
	opts := db.EventListOptions{Limit: defaultListLimit}

	if city := strings.TrimSpace(c.QueryParam("city")); city != "" {
		canonical, ok := s.cities.Canonical(city)
		if !ok {
			return fail(c, http.StatusBadRequest, fmt.Sprintf("unknown city %q", city), nil)
		}
		opts.City = canonical
	}
	if raw := strings.TrimSpace(c.QueryParam("from")); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "from must be YYYY-MM-DD", nil)
		}
		opts.From = &from
	}
	if raw := strings.TrimSpace(c.QueryParam("to")); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "to must be YYYY-MM-DD", nil)
		}
		opts.To = &to
	}
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > maxListLimit {
			return fail(c, http.StatusBadRequest,
				fmt.Sprintf("limit must be between 1 and %d", maxListLimit), nil)
		}
		opts.Limit = limit
	}

	events, err := s.store.ListEvents(c.Request().Context(), opts)
	if err != nil {
		s.logger.Error().Err(err).Msg("list events failed")
		return internalError(c, "Failed to list events")
	}

	views := make([]eventView, 0, len(events))
	for i := range events {
		views = append(views, toEventView(&events[i]))
	}
	return success(c, map[string]any{
		"events": views,
		"count":  len(views),
	})
}

func (s *Server) handleEventDetail(c echo.Context) error {
	identityKey := strings.TrimSpace(c.Param("identity_key"))
	if identityKey == "" {
		return fail(c, http.StatusBadRequest, "identity_key is required", nil)
	}

	ev, err := s.store.GetEvent(c.Request().Context(), identityKey)
	if err != nil {
		if db.IsNoRows(err) {
			return failNotFound(c, "Event not found")
		}
		s.logger.Error().Err(err).Str("identity_key", identityKey).Msg("get event failed")
		return internalError(c, "Failed to load event")
	}

	return success(c, toEventView(ev))
}

func toEventView(ev *db.Event) eventView {
	return eventView{
		IdentityKey: ev.IdentityKey,
		SourceID:    ev.SourceID,
		SourceRank:  ev.SourceRank,
		Title:       ev.Title,
		Description: ev.Description,
		StartDate:   ev.StartDate,
		EndDate:     ev.EndDate,
		Venue: venueView{
			Name:    ev.VenueName,
			Address: ev.VenueAddress,
			City:    ev.VenueCity,
			Region:  ev.VenueRegion,
		},
		City:       ev.City,
		Category:   ev.Category,
		URL:        ev.URL,
		ImageURL:   ev.ImageURL,
		LastSeenAt: ev.LastSeenAt,
		CreatedAt:  ev.CreatedAt,
		UpdatedAt:  ev.UpdatedAt,
	}
}
