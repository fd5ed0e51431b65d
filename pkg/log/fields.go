package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Chat
	FieldRoomID        = "room_id"
	FieldStreamID      = "stream_id"
	FieldWalletAddress = "wallet_address"
	FieldMessageID     = "message_id"
	FieldChannel       = "channel"

	// Component emitting the entry (store, presence, broadcast, ...)
	FieldComponent = "component"

	// Service
	FieldService = "service"

	// Log type (for audit log)
	FieldLogType = "log_type"
	LogTypeAudit = "audit"
)
