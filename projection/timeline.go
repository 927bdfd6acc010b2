// Package projection builds the local message timeline of a room session.
// Handles ordering, deduplication and the pagination cursor.
// Does not emit events or interact with the transport directly.
package projection

import (
	"chat-notify/domain"
	"cmp"
	"slices"

	"github.com/samber/lo"
)

// Timeline is the ordered message sequence of one room.
// New messages go to the tail, paginated history to the head, and an id is never held twice.
type Timeline struct {
	messages []domain.Message
	ids      map[domain.MessageID]struct{}
}

func NewTimeline() *Timeline {
	return &Timeline{ids: make(map[domain.MessageID]struct{})}
}

// Append adds a live message at the tail.
// A redelivered id is ignored and Append reports false.
func (t *Timeline) Append(msg domain.Message) bool {
	if t.Contains(msg.ID) {
		return false
	}
	t.ids[msg.ID] = struct{}{}
	t.messages = append(t.messages, msg)
	return true
}

// Prepend puts a page of older messages at the head, oldest first.
// Ids already held are dropped. It returns the number of messages added.
func (t *Timeline) Prepend(batch []domain.Message) int {
	fresh := lo.UniqBy(lo.Reject(batch, func(m domain.Message, _ int) bool {
		return t.Contains(m.ID)
	}), func(m domain.Message) domain.MessageID { return m.ID })
	if len(fresh) == 0 {
		return 0
	}
	slices.SortFunc(fresh, func(a, b domain.Message) int { return cmp.Compare(a.ID, b.ID) })
	for _, m := range fresh {
		t.ids[m.ID] = struct{}{}
	}
	t.messages = append(fresh, t.messages...)
	return len(fresh)
}

func (t *Timeline) Contains(id domain.MessageID) bool {
	_, ok := t.ids[id]
	return ok
}

// Oldest returns the smallest id held, the cursor for loading earlier messages.
func (t *Timeline) Oldest() (domain.MessageID, bool) {
	if len(t.messages) == 0 {
		return 0, false
	}
	return lo.MinBy(t.messages, func(a, b domain.Message) bool { return a.ID < b.ID }).ID, true
}

func (t *Timeline) Len() int {
	return len(t.messages)
}

// Messages returns a copy of the sequence in display order.
func (t *Timeline) Messages() []domain.Message {
	return slices.Clone(t.messages)
}

func (t *Timeline) Reset() {
	t.messages = nil
	t.ids = make(map[domain.MessageID]struct{})
}
