package transcription

// Response formats accepted by OpenAI-compatible transcription endpoints.
const (
	FormatJSON        = "json"
	FormatText        = "text"
	FormatVerboseJSON = "verbose_json"
)

// Request holds parameters for a transcription call.
type Request struct {
	// AudioPath is the spooled audio file to upload.
	AudioPath string `json:"audio_path"`
	// FileName is the name sent upstream; providers use its extension to
	// detect the container. Defaults to the base name of AudioPath.
	FileName    string `json:"file_name,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Language    string `json:"language,omitempty"`
	Model       string `json:"model,omitempty"`
	Format      string `json:"format,omitempty"`
}

// Response holds the result of a transcription call.
type Response struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments,omitempty"`
	// Duration is the audio length in seconds, when reported.
	Duration float64 `json:"duration,omitempty"`
	Language string  `json:"language,omitempty"`
}

// Segment is a time-aligned part of a transcript.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
