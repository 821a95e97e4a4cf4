package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor
	FieldUserID   = "user_id"
	FieldUsername = "username"

	// Rooms and streams
	FieldRoomID       = "room_id"
	FieldSubscriberID = "subscriber_id"
	FieldEvent        = "event"
	FieldSubscribers  = "subscribers"
	FieldTransport    = "transport"

	FieldService = "service"
)
