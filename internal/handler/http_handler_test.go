package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-io-live/live-chat-service/internal/domain"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/messagelog"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/service"
	"github.com/weiawesome/wes-io-live/live-chat-service/pkg/response"
)

// MockChatService mocks the ChatService interface.
type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) CreateChatRoom(ctx context.Context, streamID, roomID string) error {
	return m.Called(streamID, roomID).Error(0)
}

func (m *MockChatService) EndChatRoom(ctx context.Context, roomID string, archive bool) error {
	return m.Called(roomID, archive).Error(0)
}

func (m *MockChatService) AddMessage(ctx context.Context, roomID, wallet, username, text string, msgType domain.MessageType) (*domain.ChatMessage, error) {
	args := m.Called(roomID, wallet, username, text, msgType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatMessage), args.Error(1)
}

func (m *MockChatService) GetMessages(ctx context.Context, roomID string, limit int) ([]domain.ChatMessage, error) {
	args := m.Called(roomID, limit)
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}

func (m *MockChatService) GetRoomStats(ctx context.Context, roomID string) (domain.RoomStats, error) {
	args := m.Called(roomID)
	return args.Get(0).(domain.RoomStats), args.Error(1)
}

func (m *MockChatService) SetUserOnline(ctx context.Context, roomID, wallet string) error {
	return m.Called(roomID, wallet).Error(0)
}

func (m *MockChatService) SetUserOffline(ctx context.Context, roomID, wallet string) error {
	return m.Called(roomID, wallet).Error(0)
}

func (m *MockChatService) IsRoomActive(ctx context.Context, roomID string) bool {
	return m.Called(roomID).Bool(0)
}

func (m *MockChatService) GetRoom(ctx context.Context, roomID string) (*domain.ChatRoom, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatRoom), args.Error(1)
}

func (m *MockChatService) JoinRoom(ctx context.Context, roomID, wallet string, limit int) (*domain.JoinResult, error) {
	args := m.Called(roomID, wallet, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinResult), args.Error(1)
}

func (m *MockChatService) Ping(ctx context.Context) error {
	return m.Called().Error(0)
}

func setupRouter(svc service.ChatService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc, time.Second).RegisterRoutes(r)
	return r
}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateRoom(t *testing.T) {
	svc := new(MockChatService)
	svc.On("CreateChatRoom", "stream42", "room42").Return(nil)
	r := setupRouter(svc)

	w := do(r, http.MethodPost, "/api/v1/rooms", gin.H{"stream_id": "stream42", "room_id": "room42"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decode(t, w).Success)

	w = do(r, http.MethodPost, "/api/v1/rooms", gin.H{"stream_id": "stream42"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}

func TestSendMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{name: "created", wantCode: http.StatusCreated},
		{name: "rate limited", err: service.ErrRateLimited, wantCode: http.StatusTooManyRequests, wantErr: "RATE_LIMITED"},
		{name: "empty message", err: messagelog.ErrEmptyMessage, wantCode: http.StatusBadRequest, wantErr: "BAD_REQUEST"},
		{name: "bad type", err: messagelog.ErrInvalidMessageType, wantCode: http.StatusBadRequest, wantErr: "BAD_REQUEST"},
		{name: "store down", err: errors.New("store down"), wantCode: http.StatusInternalServerError, wantErr: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockChatService)
			var msg *domain.ChatMessage
			if tt.err == nil {
				msg = &domain.ChatMessage{ID: "01HX", RoomID: "r1", Message: "hi", Type: domain.MessageTypeNormal}
			}
			svc.On("AddMessage", "r1", "0xA", "alice", "hi", domain.MessageType("")).Return(msg, tt.err)
			r := setupRouter(svc)

			w := do(r, http.MethodPost, "/api/v1/rooms/r1/messages", gin.H{
				"wallet_address": "0xA",
				"username":       "alice",
				"message":        "hi",
			})
			assert.Equal(t, tt.wantCode, w.Code)

			resp := decode(t, w)
			if tt.wantErr == "" {
				assert.True(t, resp.Success)
				return
			}
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantErr, resp.Error.Code)
		})
	}
}

func TestSendMessage_MissingFields(t *testing.T) {
	r := setupRouter(new(MockChatService))
	w := do(r, http.MethodPost, "/api/v1/rooms/r1/messages", gin.H{"message": "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMessages(t *testing.T) {
	svc := new(MockChatService)
	svc.On("GetMessages", "r1", 5).Return([]domain.ChatMessage{{ID: "a"}, {ID: "b"}}, nil)
	r := setupRouter(svc)

	w := do(r, http.MethodGet, "/api/v1/rooms/r1/messages?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Messages []domain.ChatMessage `json:"messages"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data.Messages, 2)

	w = do(r, http.MethodGet, "/api/v1/rooms/r1/messages?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRoom(t *testing.T) {
	svc := new(MockChatService)
	svc.On("GetRoom", "r1").Return(&domain.ChatRoom{RoomID: "r1", IsActive: true}, nil)
	svc.On("GetRoom", "ghost").Return(nil, service.ErrRoomNotFound)
	r := setupRouter(svc)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/rooms/r1", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/rooms/ghost", nil).Code)
}

func TestEndRoom(t *testing.T) {
	svc := new(MockChatService)
	svc.On("EndChatRoom", "r1", true).Return(nil)
	svc.On("EndChatRoom", "r2", false).Return(nil)
	r := setupRouter(svc)

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/v1/rooms/r1/end", gin.H{"archive": true}).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/v1/rooms/r2/end", nil).Code)
	svc.AssertExpectations(t)
}

func TestRoomStatsAndActive(t *testing.T) {
	svc := new(MockChatService)
	svc.On("GetRoomStats", "r1").Return(domain.RoomStats{MessageCount: 3, IsActive: true}, nil)
	svc.On("IsRoomActive", "r1").Return(true)
	r := setupRouter(svc)

	w := do(r, http.MethodGet, "/api/v1/rooms/r1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"messageCount":3`)

	w = do(r, http.MethodGet, "/api/v1/rooms/r1/active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_active":true`)
}

func TestPresence(t *testing.T) {
	svc := new(MockChatService)
	svc.On("SetUserOnline", "r1", "0xA").Return(nil)
	svc.On("SetUserOffline", "r1", "0xA").Return(nil)
	r := setupRouter(svc)

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/v1/rooms/r1/presence", gin.H{"wallet_address": "0xA"}).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/api/v1/rooms/r1/presence/0xA", nil).Code)
	svc.AssertExpectations(t)
}

func TestJoinRoom(t *testing.T) {
	svc := new(MockChatService)
	svc.On("JoinRoom", "r1", "0xA", 20).Return(&domain.JoinResult{RoomID: "r1", IsActive: true, OnlineCount: 1}, nil)
	r := setupRouter(svc)

	w := do(r, http.MethodPost, "/api/v1/rooms/r1/join", gin.H{"wallet_address": "0xA", "limit": 20})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
}

func TestInvalidRoomIDIsBadRequest(t *testing.T) {
	errInvalid := fmt.Errorf("%w: room id is required", service.ErrInvalidArgument)

	svc := new(MockChatService)
	svc.On("EndChatRoom", " ", false).Return(errInvalid)
	svc.On("GetMessages", " ", 0).Return([]domain.ChatMessage{}, errInvalid)
	svc.On("GetRoomStats", " ").Return(domain.RoomStats{}, errInvalid)
	svc.On("GetRoom", " ").Return(nil, errInvalid)
	r := setupRouter(svc)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/rooms/%20/end"},
		{http.MethodGet, "/api/v1/rooms/%20/messages"},
		{http.MethodGet, "/api/v1/rooms/%20/stats"},
		{http.MethodGet, "/api/v1/rooms/%20"},
	} {
		w := do(r, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%s %s", tc.method, tc.path)
	}
	svc.AssertExpectations(t)
}

func TestHealth(t *testing.T) {
	healthy := new(MockChatService)
	healthy.On("Ping").Return(nil)
	assert.Equal(t, http.StatusOK, do(setupRouter(healthy), http.MethodGet, "/health", nil).Code)

	down := new(MockChatService)
	down.On("Ping").Return(errors.New("connection refused"))
	assert.Equal(t, http.StatusServiceUnavailable, do(setupRouter(down), http.MethodGet, "/health", nil).Code)
}
