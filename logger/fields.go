package logger

// Field keys shared by the request log, the provider middlewares and the
// gateways, so one query finds a request across all of them.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldProvider   = "provider"
	FieldModel      = "model"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldAudioBytes = "audio_bytes"
	FieldFileName   = "file_name"
	FieldPath       = "path"
)

// Fields pairs up alternating keys and values. A non-string key drops its
// pair and a trailing key without a value is ignored.
//
//	log.Info("draft composed", logger.Fields("chars", len(html)))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}
