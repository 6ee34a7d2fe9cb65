// Package httpclient is the outbound transport for upstream AI providers.
//
// A Client is bound to one upstream (base URL, timeout, default auth and
// headers). Do reads the full response; non-2xx statuses come back as a
// classified *Error that keeps the status code and raw body so callers can
// surface the provider's own message:
//
//	client, _ := httpclient.New(httpclient.Config{
//	    Name:    "groq",
//	    BaseURL: "https://api.groq.com/openai/v1",
//	    Auth:    httpclient.BearerAuth(key),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/audio/transcriptions",
//	    Body:   &httpclient.MultipartBody{...},
//	})
//
// The rest subpackage adds typed JSON helpers. Requests are sent once; there
// is no retry.
package httpclient
