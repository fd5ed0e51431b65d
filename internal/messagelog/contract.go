//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go

package messagelog

import (
	"context"

	"github.com/weiawesome/wes-io-live/live-chat-service/internal/domain"
)

// Broadcaster fans a persisted message out to live subscribers.
type Broadcaster interface {
	PublishMessage(ctx context.Context, msg *domain.ChatMessage) error
}

// ParticipantRecorder records that a wallet took part in a room.
type ParticipantRecorder interface {
	AddParticipant(ctx context.Context, roomID, wallet string) error
}

// RoomToucher keeps the room record alive while the room is in use.
type RoomToucher interface {
	Touch(ctx context.Context, roomID string) error
}
