package domain

import "github.com/samber/lo"

type RoomID string

type Room struct {
	ID            RoomID
	Name          string
	Private       bool
	MemberUserIDs []UserID
}

// OtherMembers returns the member ids of the room without the given user.
func (r Room) OtherMembers(userID UserID) []UserID {
	return lo.Without(r.MemberUserIDs, userID)
}

// Roster is the membership view of one room session.
// Entries are addressed by id; order only serves display.
type Roster struct {
	entries map[UserID]RosterEntry
	order   []UserID
}

func NewRoster(entries ...RosterEntry) *Roster {
	r := &Roster{entries: make(map[UserID]RosterEntry, len(entries))}
	for _, e := range entries {
		r.Upsert(e)
	}
	return r
}

// Upsert replaces the entry with the same id or adds it at the end of the display order.
func (r *Roster) Upsert(entry RosterEntry) {
	if _, ok := r.entries[entry.UserID]; !ok {
		r.order = append(r.order, entry.UserID)
	}
	r.entries[entry.UserID] = entry
}

// Remove drops the entry with the given id. It reports whether an entry was removed.
func (r *Roster) Remove(id UserID) bool {
	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	r.order = lo.Without(r.order, id)
	return true
}

// SetPresence updates only the presence of a known entry.
// Unknown ids are ignored.
func (r *Roster) SetPresence(id UserID, presence Presence) bool {
	entry, ok := r.entries[id]
	if !ok {
		return false
	}
	entry.Presence = presence
	r.entries[id] = entry
	return true
}

func (r *Roster) Get(id UserID) (RosterEntry, bool) {
	entry, ok := r.entries[id]
	return entry, ok
}

func (r *Roster) Len() int {
	return len(r.entries)
}

// List returns a copy of the entries in display order.
func (r *Roster) List() []RosterEntry {
	return lo.Map(r.order, func(id UserID, _ int) RosterEntry {
		return r.entries[id]
	})
}
