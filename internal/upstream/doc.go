// Package upstream wires the Groq chat and transcription providers with
// logging, metrics and tracing, and maps their failures onto the service
// error taxonomy.
package upstream
