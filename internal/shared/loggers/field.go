package loggers

const (
	FieldApp        = "app"
	FieldComponent  = "component"
	FieldHttpMethod = "http_method"
	FieldHttpPath   = "http_path"
	FieldHttpStatus = "http_status"

	FieldDuration   = "duration"
	FieldRequestID  = "request_id"
	FieldErrorStack = "error_stack"
	FieldErrorCode  = "error_code"

	FieldBatchID     = "batch_id"
	FieldEventKind   = "event_kind"
	FieldEventCount  = "event_count"
	FieldFlushReason = "flush_reason"
	FieldFilename    = "filename"
	FieldStreamID    = "stream_id"
	FieldChannel     = "channel"
)
