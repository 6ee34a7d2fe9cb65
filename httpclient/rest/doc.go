// Package rest provides typed JSON helpers over httpclient:
//
//	client, _ := rest.New(httpclient.Config{
//	    BaseURL: "https://api.groq.com/openai/v1",
//	    Auth:    httpclient.BearerAuth(key),
//	})
//	resp, err := rest.Post[chatResponse](ctx, client, "/chat/completions", req)
//
// Non-2xx responses return the classified *httpclient.Error unchanged.
package rest
