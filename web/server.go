// Package web exposes the assistant over HTTP: login, chat-style queries,
// structured filters, a calendar feed and the registration request flow.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	sbercal "github.com/sbercal/sbercal"
	"github.com/sbercal/sbercal/calendar"
	"github.com/sbercal/sbercal/core"
	"github.com/sbercal/sbercal/storage"
)

const sessionCookie = "sbercal_session"

// processing failures are reported like the original UI expects: success
// stays true and the response text carries the apology.
const (
	msgQueryFailed  = "Ошибка при обработке запроса."
	msgFilterFailed = "Ошибка при обработке фильтров."
)

// messageRequest is the chat query payload.
type messageRequest struct {
	Message string `json:"message"`
}

// filtersRequest is the structured filter payload.
type filtersRequest struct {
	Filters struct {
		Type     string `json:"type"`
		City     string `json:"city"`
		Date     string `json:"date"`
		Guests   string `json:"guests"`
		Speakers string `json:"speakers"`
	} `json:"filters"`
}

// queryResponse mirrors the original API shape.
type queryResponse struct {
	Success  bool                 `json:"success"`
	Response string               `json:"response"`
	Events   []core.CalendarEvent `json:"events"`
}

// Server serves the assistant web application.
type Server struct {
	assistant *sbercal.Assistant
	users     storage.UserRepository
	requests  storage.RequestRepository
	topK      int
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[string]string // token -> login
}

// Option configures a Server.
type Option func(*Server)

// WithTopK sets how many events a query returns.
// Default is 3.
func WithTopK(topK int) Option {
	return func(s *Server) {
		if topK > 0 {
			s.topK = topK
		}
	}
}

// WithLogger sets the logger for request handling.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger.With("component", "web")
	}
}

// NewServer creates the assistant web server.
func NewServer(assistant *sbercal.Assistant, users storage.UserRepository, requests storage.RequestRepository, opts ...Option) *Server {
	s := &Server{
		assistant: assistant,
		users:     users,
		requests:  requests,
		topK:      3,
		logger:    slog.Default().With("component", "web"),
		sessions:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin handler tree.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/login", s.handleLogin)

	authed := router.Group("/", s.requireAuth)
	authed.POST("/send_message", s.handleSendMessage)
	authed.POST("/send_filters", s.handleSendFilters)
	authed.GET("/calendar.ics", s.handleCalendar)
	authed.POST("/requests", s.handleCreateRequest)
	authed.GET("/requests", s.handleListRequests)
	authed.POST("/requests/:id/approve", s.handleDecideRequest(core.RequestStatusApproved))
	authed.POST("/requests/:id/reject", s.handleDecideRequest(core.RequestStatusRejected))

	return router
}

// handleLogin checks form credentials and issues a session cookie.
func (s *Server) handleLogin(c *gin.Context) {
	login := c.PostForm("login")
	password := c.PostForm("password")

	user, err := s.users.GetUser(c.Request.Context(), login)
	if err != nil || user.PasswordDigest != core.PasswordDigest(login, password) {
		s.logger.Info("login rejected", "login", login)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный логин или пароль"})
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = login
	s.mu.Unlock()

	c.SetCookie(sessionCookie, token, int((24 * time.Hour).Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// requireAuth resolves the session cookie to a login.
func (s *Server) requireAuth(c *gin.Context) {
	token, err := c.Cookie(sessionCookie)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется вход"})
		return
	}

	s.mu.Lock()
	login, ok := s.sessions[token]
	s.mu.Unlock()
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется вход"})
		return
	}

	c.Set("login", login)
	c.Next()
}

// currentUser loads the authenticated account.
func (s *Server) currentUser(c *gin.Context) (*core.User, error) {
	login := c.GetString("login")
	return s.users.GetUser(c.Request.Context(), login)
}

// handleSendMessage answers a free-text query.
func (s *Server) handleSendMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, queryResponse{Success: true, Response: msgQueryFailed, Events: []core.CalendarEvent{}})
		return
	}

	answer, err := s.assistant.Answer(c.Request.Context(), req.Message, time.Now().UTC(), s.topK)
	if err != nil {
		s.logger.Error("query processing failed", "err", err)
		c.JSON(http.StatusOK, queryResponse{Success: true, Response: msgQueryFailed, Events: []core.CalendarEvent{}})
		return
	}

	c.JSON(http.StatusOK, queryResponse{Success: true, Response: answer.Response, Events: answer.Events})
}

// handleSendFilters answers a structured filter form.
func (s *Server) handleSendFilters(c *gin.Context) {
	var req filtersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, queryResponse{Success: true, Response: msgFilterFailed, Events: []core.CalendarEvent{}})
		return
	}

	query, ok := sbercal.BuildFilterQuery(sbercal.Filters{
		Type:     req.Filters.Type,
		City:     req.Filters.City,
		Date:     req.Filters.Date,
		Guests:   req.Filters.Guests,
		Speakers: req.Filters.Speakers,
	})
	if !ok {
		c.JSON(http.StatusOK, queryResponse{Success: true, Response: sbercal.NoFiltersMessage(), Events: []core.CalendarEvent{}})
		return
	}

	answer, err := s.assistant.Answer(c.Request.Context(), query, time.Now().UTC(), s.topK)
	if err != nil {
		s.logger.Error("filter processing failed", "err", err)
		c.JSON(http.StatusOK, queryResponse{Success: true, Response: msgFilterFailed, Events: []core.CalendarEvent{}})
		return
	}

	c.JSON(http.StatusOK, queryResponse{Success: true, Response: answer.Response, Events: answer.Events})
}

// handleCalendar renders the query's upcoming events as an ICS feed.
func (s *Server) handleCalendar(c *gin.Context) {
	query := c.Query("q")

	answer, err := s.assistant.Answer(c.Request.Context(), query, time.Now().UTC(), s.topK)
	if err != nil {
		s.logger.Error("calendar query failed", "err", err)
		c.String(http.StatusInternalServerError, msgQueryFailed)
		return
	}

	feed := calendar.Feed(answer.Events, time.Now().UTC())
	c.Header("Content-Disposition", `attachment; filename="sbercal.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

// handleCreateRequest files a registration request for the current employee.
func (s *Server) handleCreateRequest(c *gin.Context) {
	var req struct {
		EventDate string `json:"date"`
		EventText string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.EventText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "не указано мероприятие"})
		return
	}

	user, err := s.currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "требуется вход"})
		return
	}
	if user.Type != core.UserTypeEmployee || user.ManagerLogin == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "заявки доступны только сотрудникам"})
		return
	}

	added, err := s.requests.AddRequests(c.Request.Context(), &core.RegistrationRequest{
		UserLogin:    user.Login,
		ManagerLogin: user.ManagerLogin,
		EventDate:    req.EventDate,
		EventText:    req.EventText,
		Status:       core.RequestStatusPending,
	})
	if err != nil {
		s.logger.Error("failed to file registration request", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось сохранить заявку"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": added[0].Id})
}

// handleListRequests lists requests: a manager sees the queue routed to
// them, an employee sees their own submissions.
func (s *Server) handleListRequests(c *gin.Context) {
	user, err := s.currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "требуется вход"})
		return
	}

	var requests []*core.RegistrationRequest
	switch user.Type {
	case core.UserTypeManager:
		status := core.RequestStatus(0)
		if raw := c.Query("status"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный статус"})
				return
			}
			status = core.RequestStatus(parsed)
		}
		requests, err = s.requests.GetRequestsByManager(c.Request.Context(), user.Login, status)
	default:
		requests, err = s.requests.GetRequestsByUser(c.Request.Context(), user.Login)
	}
	if err != nil {
		s.logger.Error("failed to list registration requests", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось получить заявки"})
		return
	}

	if requests == nil {
		requests = []*core.RegistrationRequest{}
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// handleDecideRequest lets the routed manager approve or reject a request.
func (s *Server) handleDecideRequest(decision core.RequestStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.currentUser(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "требуется вход"})
			return
		}
		if user.Type != core.UserTypeManager {
			c.JSON(http.StatusForbidden, gin.H{"error": "решение принимает руководитель"})
			return
		}

		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор"})
			return
		}

		request, err := s.requests.GetRequest(c.Request.Context(), core.ID(id))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "заявка не найдена"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось получить заявку"})
			return
		}
		if request.ManagerLogin != user.Login {
			c.JSON(http.StatusForbidden, gin.H{"error": "заявка адресована другому руководителю"})
			return
		}

		request.Status = decision
		if _, err := s.requests.UpdateRequests(c.Request.Context(), request); err != nil {
			s.logger.Error("failed to update registration request", "err", err, "id", id)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось обновить заявку"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
