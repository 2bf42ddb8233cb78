package platform

import (
	"context"
	"strings"

	"github.com/aretw0/shelf/pkg/core"
)

// Change types for semantic change reasons.
const (
	ChangeTypeFeat     = "feat"
	ChangeTypeFix      = "fix"
	ChangeTypeDocs     = "docs"
	ChangeTypeRefactor = "refactor"
	ChangeTypeChore    = "chore"
)

// Footer is appended to every change reason written by shelf.
const Footer = "Changed-by: shelf"

// FormatChangeReason builds a Conventional Commit style message:
//
//	<type>(<scope>): <subject>
//
//	<body>
//
//	Changed-by: shelf
func FormatChangeReason(ctype, scope, subject, body string) string {
	var sb strings.Builder

	if ctype == "" {
		ctype = ChangeTypeChore
	}
	sb.WriteString(ctype)
	if scope != "" {
		sb.WriteString("(" + scope + ")")
	}
	sb.WriteString(": ")
	sb.WriteString(subject)

	if body = strings.TrimSpace(body); body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(body)
	}

	sb.WriteString("\n\n")
	sb.WriteString(Footer)
	return sb.String()
}

// AppendFooter appends the footer to a free-form message unless present.
func AppendFooter(msg string) string {
	if strings.Contains(msg, Footer) {
		return msg
	}
	msg = strings.TrimRight(msg, "\n")
	return msg + "\n\n" + Footer
}

// WithReason attaches a change reason that versioned media record with the write.
func WithReason(ctx context.Context, reason string) context.Context {
	if reason == "" {
		return ctx
	}
	return context.WithValue(ctx, core.ChangeReasonKey, reason)
}
