// Package domain contains core concepts of the chat system.
// This file defines Message values and the rules of their parts.
// Messages are immutable once created.
package domain

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// MessageID is assigned by the chat service and grows with time,
// so the smallest held id is the pagination cursor.
type MessageID int64

type PartKind string

const (
	PartText       PartKind = "text"
	PartAttachment PartKind = "attachment"
)

// Part is either a text part (Content) or an attachment part (ContentType, Locator).
type Part struct {
	Kind        PartKind
	Content     string
	ContentType string
	Locator     string
}

func TextPart(content string) Part {
	return Part{Kind: PartText, Content: content}
}

type Sender struct {
	ID        UserID
	Name      string
	AvatarURL string
}

// Message represents an immutable chat message.
type Message struct {
	ID        MessageID
	RoomID    RoomID
	Sender    Sender
	CreatedAt time.Time
	Parts     []Part
}

// Text returns the content of the first text part.
func (m Message) Text() string {
	part, ok := lo.Find(m.Parts, func(p Part) bool { return p.Kind == PartText })
	if !ok {
		return ""
	}
	return part.Content
}

// Attachment returns the attachment part if the message carries one.
func (m Message) Attachment() (Part, bool) {
	return lo.Find(m.Parts, func(p Part) bool { return p.Kind == PartAttachment })
}

// HasImage tells whether the attachment should be rendered inline as an image.
func (m Message) HasImage() bool {
	part, ok := m.Attachment()
	return ok && strings.Contains(part.ContentType, "image")
}

// OutgoingPart is what the sending side hands to the transport.
// The attachment variant carries the staged bytes instead of a locator.
type OutgoingPart struct {
	Kind        PartKind
	Content     string
	ContentType string
	FileName    string
	Data        []byte
}

// NewOutgoingParts builds the parts of a message to send: one text part and,
// when an attachment is staged, exactly one attachment part.
func NewOutgoingParts(text string, attachment *Attachment) []OutgoingPart {
	parts := []OutgoingPart{{Kind: PartText, Content: text, ContentType: "text/plain"}}
	if attachment != nil {
		parts = append(parts, OutgoingPart{
			Kind:        PartAttachment,
			ContentType: attachment.ContentType,
			FileName:    attachment.FileName,
			Data:        attachment.Data,
		})
	}
	return parts
}
