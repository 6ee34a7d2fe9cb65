// Package provider models calls to external services as typed
// request/response providers that can be wrapped with middleware.
//
//	var p provider.RequestResponse[transcription.Request, *transcription.Response] = whisperClient
//	p = provider.Chain(
//	    provider.WithTracing[transcription.Request, *transcription.Response]("transcribe"),
//	    provider.WithLogging[transcription.Request, *transcription.Response](log),
//	)(p)
package provider
