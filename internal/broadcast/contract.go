//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go

package broadcast

import (
	"context"

	"github.com/weiawesome/wes-io-live/live-chat-service/pkg/pubsub"
)

// Publisher is the event bus the broadcaster writes to.
type Publisher interface {
	Publish(ctx context.Context, channel string, event *pubsub.Event) error
}
