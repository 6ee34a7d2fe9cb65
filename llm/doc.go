// Package llm is a small chat completion client.
//
// An Adapter composes the rest client with a Dialect that maps the neutral
// CompletionRequest and CompletionResponse types to one provider's JSON
// format. Dialects register themselves by name:
//
//	import _ "github.com/kbukum/compapol/llm/openai"
//
//	adapter, err := llm.New(llm.Config{
//	    Dialect:     "openai",
//	    BaseURL:     "https://api.groq.com/openai/v1",
//	    Model:       "llama3-70b-8192",
//	    Temperature: 0.4,
//	    Auth:        httpclient.BearerAuth(key),
//	})
//	resp, err := adapter.Execute(ctx, llm.CompletionRequest{
//	    SystemPrompt: system,
//	    Messages:     []llm.Message{{Role: llm.RoleUser, Content: user}},
//	})
//
// The goopenai subpackage offers the same contract over go-openai.
package llm
