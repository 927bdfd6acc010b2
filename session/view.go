package session

import (
	"chat-notify/domain"
	"chat-notify/domain/mimetypes"
)

type AttachmentView struct {
	FileName    string
	ContentType string
	Size        int
	IsImage     bool
}

// View is a copy of the session state, safe to hand to another goroutine.
type View struct {
	RoomID         domain.RoomID
	State          State
	Messages       []domain.Message
	Roster         []domain.RosterEntry
	Typing         string
	CanLoadEarlier bool
	Attachment     *AttachmentView
}

func (s *Session) Snapshot() View {
	view := View{
		RoomID:         s.roomID,
		State:          s.state,
		Messages:       s.timeline.Messages(),
		Roster:         s.roster.List(),
		Typing:         s.typing,
		CanLoadEarlier: s.CanLoadEarlier(),
	}
	if s.attachment != nil {
		view.Attachment = &AttachmentView{
			FileName:    s.attachment.FileName,
			ContentType: s.attachment.ContentType,
			Size:        s.attachment.Size(),
			IsImage:     mimetypes.IsImage(s.attachment.ContentType),
		}
	}
	return view
}
