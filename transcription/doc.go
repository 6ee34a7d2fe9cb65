// Package transcription defines the speech-to-text provider contract.
//
// Backends:
//
//   - transcription/whisper: OpenAI-compatible /audio/transcriptions over httpclient
//   - transcription/goopenai: the same endpoint through go-openai
//
// AsRequestResponse and FromRequestResponse let a backend be wrapped with
// the provider middleware chain:
//
//	rr := provider.Chain(provider.WithLogging[transcription.Request, *transcription.Response](log))(
//	    transcription.AsRequestResponse(whisperProvider))
//	p := transcription.FromRequestResponse(rr)
package transcription
