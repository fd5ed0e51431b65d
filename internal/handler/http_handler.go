package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/wes-io-live/live-chat-service/internal/domain"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/messagelog"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/service"
	"github.com/weiawesome/wes-io-live/live-chat-service/pkg/log"
	"github.com/weiawesome/wes-io-live/live-chat-service/pkg/response"
)

// Handler handles HTTP requests for live chat.
type Handler struct {
	chatService    service.ChatService
	requestTimeout time.Duration
}

// NewHandler creates a new HTTP handler. A non-positive requestTimeout
// leaves request contexts unbounded.
func NewHandler(chatService service.ChatService, requestTimeout time.Duration) *Handler {
	return &Handler{
		chatService:    chatService,
		requestTimeout: requestTimeout,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	{
		rooms := api.Group("/rooms")
		{
			rooms.POST("", h.CreateRoom)
			rooms.GET("/:room_id", h.GetRoom)
			rooms.POST("/:room_id/end", h.EndRoom)
			rooms.GET("/:room_id/active", h.IsRoomActive)
			rooms.POST("/:room_id/join", h.JoinRoom)
			rooms.GET("/:room_id/messages", h.GetMessages)
			rooms.POST("/:room_id/messages", h.SendMessage)
			rooms.GET("/:room_id/stats", h.GetRoomStats)
			rooms.POST("/:room_id/presence", h.Heartbeat)
			rooms.DELETE("/:room_id/presence/:wallet", h.GoOffline)
		}
	}
}

func (h *Handler) context(c *gin.Context) (context.Context, context.CancelFunc) {
	ctx := c.Request.Context()
	if h.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.requestTimeout)
}

// Health reports whether the shared store is reachable.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	if err := h.chatService.Ping(ctx); err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("health check failed")
		response.ServiceUnavailable(c, "store unavailable")
		return
	}
	response.Success(c, gin.H{"status": "ok"})
}

// CreateRoom creates (or resets) a chat room.
func (h *Handler) CreateRoom(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()
	l := log.Ctx(ctx)

	var req domain.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind create room request")
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.chatService.CreateChatRoom(ctx, req.StreamID, req.RoomID); err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			response.BadRequest(c, err.Error())
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, req.RoomID).Msg("failed to create chat room")
		response.InternalError(c, "failed to create chat room")
		return
	}

	response.Created(c, gin.H{"room_id": req.RoomID, "stream_id": req.StreamID})
}

// GetRoom retrieves a room record.
func (h *Handler) GetRoom(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()
	l := log.Ctx(ctx)

	roomID := c.Param("room_id")

	room, err := h.chatService.GetRoom(ctx, roomID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomNotFound):
			response.NotFound(c, "chat room not found")
			return
		case errors.Is(err, service.ErrInvalidArgument):
			response.BadRequest(c, err.Error())
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to get chat room")
		response.InternalError(c, "failed to get chat room")
		return
	}

	response.Success(c, room)
}

// EndRoom ends a chat room, optionally leaving a farewell message.
func (h *Handler) EndRoom(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()
	l := log.Ctx(ctx)

	roomID := c.Param("room_id")

	var req domain.EndRoomRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	if err := h.chatService.EndChatRoom(ctx, roomID, req.Archive); err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			response.BadRequest(c, err.Error())
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to end chat room")
		response.InternalError(c, "failed to end chat room")
		return
	}

	response.Success(c, gin.H{"room_id": roomID, "is_active": false})
}

// IsRoomActive reports whether the room accepts chat.
func (h *Handler) IsRoomActive(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	roomID := c.Param("room_id")
	response.Success(c, gin.H{"room_id": roomID, "is_active": h.chatService.IsRoomActive(ctx, roomID)})
}

// JoinRoom marks the wallet present and returns recent history.
func (h *Handler) JoinRoom(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()
	l := log.Ctx(ctx)

	roomID := c.Param("room_id")

	var req domain.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.chatService.JoinRoom(ctx, roomID, req.WalletAddress, req.Limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			response.BadRequest(c, err.Error())
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to join chat room")
		response.InternalError(c, "failed to join chat room")
		return
	}

	response.Success(c, result)
}

// GetMessages returns recent messages, oldest first.
func (h *Handler) GetMessages(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()
	l := log.Ctx(ctx)

	roomID := c.Param("room_id")

	var req domain.GetMessagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	messages, err := h.chatService.GetMessages(ctx, roomID, req.Limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			response.BadRequest(c, err.Error())
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to get messages")
		response.InternalError(c, "failed to get messages")
		return
	}

	response.Success(c, gin.H{"room_id": roomID, "messages": messages})
}

// SendMessage appends a message to the room.
func (h *Handler) SendMessage(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()
	l := log.Ctx(ctx)

	roomID := c.Param("room_id")

	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind send message request")
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.chatService.AddMessage(ctx, roomID, req.WalletAddress, req.Username, req.Message, req.Type)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRateLimited):
			response.TooManyRequests(c, "RATE_LIMITED", "you are sending messages too fast")
		case errors.Is(err, service.ErrInvalidArgument),
			errors.Is(err, messagelog.ErrEmptyMessage),
			errors.Is(err, messagelog.ErrInvalidMessageType):
			response.BadRequest(c, err.Error())
		default:
			l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to send message")
			response.InternalError(c, "message not sent")
		}
		return
	}

	response.Created(c, msg)
}

// GetRoomStats returns best-effort room counters.
func (h *Handler) GetRoomStats(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()
	l := log.Ctx(ctx)

	roomID := c.Param("room_id")

	stats, err := h.chatService.GetRoomStats(ctx, roomID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			response.BadRequest(c, err.Error())
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to get room stats")
		response.InternalError(c, "failed to get room stats")
		return
	}

	response.Success(c, stats)
}

// Heartbeat marks the wallet online; clients call it more often than the online timeout.
func (h *Handler) Heartbeat(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()
	l := log.Ctx(ctx)

	roomID := c.Param("room_id")

	var req domain.PresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.chatService.SetUserOnline(ctx, roomID, req.WalletAddress); err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			response.BadRequest(c, err.Error())
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to set user online")
		response.InternalError(c, "failed to set user online")
		return
	}

	response.Success(c, gin.H{"room_id": roomID, "wallet_address": req.WalletAddress, "online": true})
}

// GoOffline removes the wallet from the online set.
func (h *Handler) GoOffline(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()
	l := log.Ctx(ctx)

	roomID := c.Param("room_id")
	wallet := c.Param("wallet")

	if err := h.chatService.SetUserOffline(ctx, roomID, wallet); err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			response.BadRequest(c, err.Error())
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to set user offline")
		response.InternalError(c, "failed to set user offline")
		return
	}

	response.Success(c, gin.H{"room_id": roomID, "wallet_address": wallet, "online": false})
}
