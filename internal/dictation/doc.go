// Package dictation implements the transcription gateway: an uploaded
// recording is spooled to disk, checked, sent to the speech-to-text
// provider and removed again.
package dictation
