package audit

import (
	"context"

	"github.com/weiawesome/wes-io-live/live-chat-service/pkg/log"
)

// Audit actions for live-chat-service.
const (
	ActionCreateRoom  = "chat.room.create"
	ActionEndRoom     = "chat.room.end"
	ActionJoinRoom    = "chat.room.join"
	ActionSendMessage = "chat.message.send"
	ActionGoOffline   = "chat.presence.offline"
)

// Field constants for audit entries.
const (
	FieldAction = "action"
	FieldDetail = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action, roomID, wallet, msg string) {
	l := log.Ctx(ctx)
	evt := l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldRoomID, roomID)
	if wallet != "" {
		evt = evt.Str(log.FieldWalletAddress, wallet)
	}
	evt.Msg(msg)
}

// LogWithDetail emits an audit log with extra detail field.
func LogWithDetail(ctx context.Context, action, roomID, wallet, detail, msg string) {
	l := log.Ctx(ctx)
	evt := l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldRoomID, roomID).
		Str(FieldDetail, detail)
	if wallet != "" {
		evt = evt.Str(log.FieldWalletAddress, wallet)
	}
	evt.Msg(msg)
}
