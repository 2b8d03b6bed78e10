// Package admin is the account management panel: it creates, lists and
// deletes users, generating logins and initial passwords on the way.
package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sbercal/sbercal/core"
	"github.com/sbercal/sbercal/storage"
)

// protectedLogin is the bootstrap account that cannot be deleted.
const protectedLogin = "admin"

const sessionCookie = "sbercal_admin_session"

// WelcomeSender delivers credentials to freshly created accounts.
// *mail.Mailer implements it.
type WelcomeSender interface {
	SendWelcome(to, fullName string, userType core.UserType, login, password string) error
}

// userView is the API representation of an account. The password digest
// never leaves the server.
type userView struct {
	Login        string `json:"login"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Type         string `json:"type"`
	ManagerLogin string `json:"manager_login,omitempty"`
}

func viewOf(user *core.User) userView {
	return userView{
		Login:        user.Login,
		FullName:     user.FullName,
		Email:        user.Email,
		Type:         typeName(user.Type),
		ManagerLogin: user.ManagerLogin,
	}
}

func typeName(userType core.UserType) string {
	switch userType {
	case core.UserTypeAdmin:
		return "admin"
	case core.UserTypeManager:
		return "manager"
	default:
		return "employee"
	}
}

func parseTypeName(name string) (core.UserType, bool) {
	switch name {
	case "admin":
		return core.UserTypeAdmin, true
	case "manager":
		return core.UserTypeManager, true
	case "employee":
		return core.UserTypeEmployee, true
	}
	return 0, false
}

// Server serves the admin panel API.
type Server struct {
	users  storage.UserRepository
	mailer WelcomeSender
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]string // token -> login
}

// Option configures a Server.
type Option func(*Server)

// WithMailer enables welcome emails for new accounts.
func WithMailer(mailer WelcomeSender) Option {
	return func(s *Server) {
		s.mailer = mailer
	}
}

// WithLogger sets the logger for request handling.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger.With("component", "admin")
	}
}

// NewServer creates the admin panel server.
func NewServer(users storage.UserRepository, opts ...Option) *Server {
	s := &Server{
		users:    users,
		logger:   slog.Default().With("component", "admin"),
		sessions: make(map[string]string),
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

	authed := router.Group("/", s.requireAdmin)
	authed.GET("/users", s.handleListUsers)
	authed.POST("/users", s.handleCreateUser)
	authed.DELETE("/users/:login", s.handleDeleteUser)
	authed.GET("/managers", s.handleListManagers)

	return router
}

// handleLogin checks admin credentials and issues a session cookie.
func (s *Server) handleLogin(c *gin.Context) {
	login := c.PostForm("login")
	password := c.PostForm("password")

	user, err := s.users.GetUser(c.Request.Context(), login)
	if err != nil || user.Type != core.UserTypeAdmin ||
		user.PasswordDigest != core.PasswordDigest(login, password) {
		s.logger.Info("admin login rejected", "login", login)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный логин или пароль"})
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = login
	s.mu.Unlock()

	c.SetCookie(sessionCookie, token, int((8 * time.Hour).Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// requireAdmin resolves the session cookie to an admin login.
func (s *Server) requireAdmin(c *gin.Context) {
	token, err := c.Cookie(sessionCookie)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется вход"})
		return
	}

	s.mu.Lock()
	_, ok := s.sessions[token]
	s.mu.Unlock()
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется вход"})
		return
	}

	c.Next()
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.users.GetAllUsers(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to list users", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось получить пользователей"})
		return
	}

	views := make([]userView, 0, len(users))
	for _, user := range users {
		views = append(views, viewOf(user))
	}
	c.JSON(http.StatusOK, gin.H{"users": views})
}

func (s *Server) handleListManagers(c *gin.Context) {
	managers, err := s.users.GetManagers(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to list managers", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось получить руководителей"})
		return
	}

	views := make([]userView, 0, len(managers))
	for _, manager := range managers {
		views = append(views, viewOf(manager))
	}
	c.JSON(http.StatusOK, gin.H{"managers": views})
}

// handleCreateUser creates an account with a generated login and password.
// The password is returned once in the response and, when a mailer is
// configured, emailed to the new user.
func (s *Server) handleCreateUser(c *gin.Context) {
	var req struct {
		FullName     string `json:"full_name"`
		Email        string `json:"email"`
		Type         string `json:"type"`
		ManagerLogin string `json:"manager_login"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.FullName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "не указано имя пользователя"})
		return
	}

	userType, ok := parseTypeName(req.Type)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный тип пользователя"})
		return
	}

	if userType == core.UserTypeEmployee {
		if req.ManagerLogin == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "сотруднику нужен руководитель"})
			return
		}
		manager, err := s.users.GetUser(c.Request.Context(), req.ManagerLogin)
		if err != nil || manager.Type != core.UserTypeManager {
			c.JSON(http.StatusBadRequest, gin.H{"error": "руководитель не найден"})
			return
		}
	}

	login, err := GenerateLogin(c.Request.Context(), s.users, req.FullName)
	if err != nil {
		s.logger.Error("failed to generate login", "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "не удалось сформировать логин"})
		return
	}

	password, err := GeneratePassword()
	if err != nil {
		s.logger.Error("failed to generate password", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось создать пользователя"})
		return
	}

	user := &core.User{
		Login:          login,
		PasswordDigest: core.PasswordDigest(login, password),
		Type:           userType,
		FullName:       req.FullName,
		Email:          req.Email,
		ManagerLogin:   req.ManagerLogin,
	}
	if _, err := s.users.AddUsers(c.Request.Context(), user); err != nil {
		s.logger.Error("failed to create user", "err", err, "login", login)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось создать пользователя"})
		return
	}

	// Email delivery is best effort: the account already exists and the
	// password is in the response.
	if s.mailer != nil && req.Email != "" {
		if err := s.mailer.SendWelcome(req.Email, req.FullName, userType, login, password); err != nil {
			s.logger.Error("failed to send welcome email", "err", err, "login", login)
		}
	}

	s.logger.Info("user created", "login", login, "type", req.Type)
	c.JSON(http.StatusOK, gin.H{
		"user":     viewOf(user),
		"password": password,
	})
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	login := c.Param("login")
	if login == protectedLogin {
		c.JSON(http.StatusForbidden, gin.H{"error": "учётную запись администратора нельзя удалить"})
		return
	}

	if err := s.users.DeleteUser(c.Request.Context(), login); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "пользователь не найден"})
			return
		}
		s.logger.Error("failed to delete user", "err", err, "login", login)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось удалить пользователя"})
		return
	}

	s.logger.Info("user deleted", "login", login)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
