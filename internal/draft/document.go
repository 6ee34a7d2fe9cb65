package draft

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/kbukum/compapol/llm"
)

// Role tags a prompt segment.
type Role string

const (
	RoleStyle         Role = "style"
	RoleExampleInput  Role = "example-input"
	RoleExampleOutput Role = "example-output"
	RoleUser          Role = "user"
)

// chatRole maps a segment role onto the chat-completion role it is sent as.
func (r Role) chatRole() string {
	switch r {
	case RoleStyle:
		return llm.RoleSystem
	case RoleExampleOutput:
		return llm.RoleAssistant
	default:
		return llm.RoleUser
	}
}

// Segment is one role-tagged piece of the prompt.
type Segment struct {
	Role    Role
	Content string
}

// Document is an ordered, validated prompt: one style segment, zero or
// more example input/output pairs, one user segment.
type Document struct {
	segments []Segment
}

// Segments returns a copy of the segments in order.
func (d Document) Segments() []Segment {
	return append([]Segment(nil), d.segments...)
}

// Messages converts the document into chat messages.
func (d Document) Messages() []llm.Message {
	msgs := make([]llm.Message, len(d.segments))
	for i, s := range d.segments {
		msgs[i] = llm.Message{Role: s.Role.chatRole(), Content: s.Content}
	}
	return msgs
}

// Render is a readable dump of the document, one tagged block per segment.
func (d Document) Render() string {
	var b strings.Builder
	for i, s := range d.segments {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s]\n%s", s.Role, s.Content)
	}
	return b.String()
}

// Fingerprint is the hex SHA-256 of Render plus the given salt parts.
func (d Document) Fingerprint(salt ...string) string {
	h := sha256.New()
	for _, s := range salt {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	h.Write([]byte(d.Render()))
	return hex.EncodeToString(h.Sum(nil))
}

// User returns the content of the final user segment.
func (d Document) User() string {
	if len(d.segments) == 0 {
		return ""
	}
	return d.segments[len(d.segments)-1].Content
}

// Builder assembles a Document. Segments are appended in call order and
// checked by Build.
type Builder struct {
	segments []Segment
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder { return &Builder{} }

// Append adds a raw segment.
func (b *Builder) Append(s Segment) *Builder {
	b.segments = append(b.segments, s)
	return b
}

// Style adds the style segment.
func (b *Builder) Style(text string) *Builder {
	return b.Append(Segment{Role: RoleStyle, Content: text})
}

// Example adds a worked example as an input/output pair.
func (b *Builder) Example(input, output string) *Builder {
	b.Append(Segment{Role: RoleExampleInput, Content: input})
	return b.Append(Segment{Role: RoleExampleOutput, Content: output})
}

// User adds the final user instruction.
func (b *Builder) User(text string) *Builder {
	return b.Append(Segment{Role: RoleUser, Content: text})
}

var (
	ErrEmptySegment = errors.New("draft: empty prompt segment")
	ErrSegmentOrder = errors.New("draft: prompt segments out of order")
)

// Build validates ordering and returns the document.
func (b *Builder) Build() (Document, error) {
	n := len(b.segments)
	if n < 2 {
		return Document{}, fmt.Errorf("%w: need a style and a user segment, got %d segments", ErrSegmentOrder, n)
	}
	if n%2 != 0 {
		return Document{}, fmt.Errorf("%w: example input without output, got %d segments", ErrSegmentOrder, n)
	}
	for i, s := range b.segments {
		if strings.TrimSpace(s.Content) == "" {
			return Document{}, fmt.Errorf("%w: %s at %d", ErrEmptySegment, s.Role, i)
		}
		var want Role
		switch {
		case i == 0:
			want = RoleStyle
		case i == n-1:
			want = RoleUser
		case i%2 == 1:
			want = RoleExampleInput
		default:
			want = RoleExampleOutput
		}
		if s.Role != want {
			return Document{}, fmt.Errorf("%w: position %d is %s, want %s", ErrSegmentOrder, i, s.Role, want)
		}
	}
	return Document{segments: append([]Segment(nil), b.segments...)}, nil
}
