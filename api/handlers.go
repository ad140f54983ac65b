package api

import (
	"cool-chat/auth"
	"cool-chat/domain"
	"cool-chat/errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type TokenResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	ID     string    `json:"id"`
	Room   int       `json:"room"`
	Author string    `json:"author"`
	Text   string    `json:"text"`
	Lang   string    `json:"lang,omitempty"`
	At     time.Time `json:"at"`
	Time   string    `json:"time"`
}

type MessagesResponse struct {
	Room     int               `json:"room"`
	Messages []MessageResponse `json:"messages"`
	Cursor   *string           `json:"cursor,omitempty"`
}

type RoomResponse struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Participants int    `json:"participants"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(c *gin.Context) {
	connections := 0
	if s.connections != nil {
		connections = s.connections()
	}
	c.JSON(http.StatusOK, s.health.Latest(connections))
}

func (s *Server) handleRooms(c *gin.Context) {
	rooms := lo.Map(s.chat.Rooms(), func(r *domain.Room, _ int) RoomResponse {
		return RoomResponse{ID: int(r.ID), Name: r.Name, Participants: r.Size()}
	})
	c.JSON(http.StatusOK, rooms)
}

func (s *Server) handleRegister(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	token, err := s.auth.Register(req.Login, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.log.Info("User registered", "login", req.Login)
	c.JSON(http.StatusCreated, TokenResponse{Token: token.String()})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	token, err := s.auth.Login(req.Login, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token.String()})
}

func (s *Server) handleMessages(c *gin.Context) {
	room, ok := roomParam(c)
	if !ok {
		return
	}
	var cursor *string
	if value := c.Query("cursor"); value != "" {
		cursor = &value
	}
	messages, next, err := s.chat.GetMessages(room, cursor)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessagesResponse{Room: int(room), Messages: toResponses(messages), Cursor: next})
}

func (s *Server) handleSearch(c *gin.Context) {
	room, ok := roomParam(c)
	if !ok {
		return
	}
	query := c.Query("q")
	if query == "" {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "missing query parameter q")
		return
	}
	messages, err := s.chat.Search(c.Request.Context(), room, query)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessagesResponse{Room: int(room), Messages: toResponses(messages)})
}

func roomParam(c *gin.Context) (domain.RoomID, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		abortWithError(c, http.StatusBadRequest, "INVALID_ROOM", errors.ErrInvalidRoom.Error())
		return 0, false
	}
	return domain.RoomID(id), true
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := errors.MapToHTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("Request failed", "path", c.FullPath(), "error", err)
		message = http.StatusText(status)
	}
	abortWithError(c, status, codeFor(status), message)
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHENTICATED"
	case http.StatusConflict:
		return "ALREADY_EXISTS"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusServiceUnavailable:
		return "UNAVAILABLE"
	default:
		return "INTERNAL"
	}
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

func toResponses(messages []domain.Message) []MessageResponse {
	return lo.Map(messages, func(m domain.Message, _ int) MessageResponse {
		return MessageResponse{
			ID:     m.ID.String(),
			Room:   int(m.Room),
			Author: m.SenderID,
			Text:   m.Content,
			Lang:   m.Lang,
			At:     m.CreatedAt,
			Time:   domain.LocalClock(m.CreatedAt),
		}
	})
}
