package domain

// Command is a user-initiated action on a room session.
type Command interface {
	RoomID() RoomID
}

type SendMessageCommand struct {
	Room RoomID
	Text string
}

func (c SendMessageCommand) RoomID() RoomID { return c.Room }

type LoadEarlierCommand struct {
	Room RoomID
}

func (c LoadEarlierCommand) RoomID() RoomID { return c.Room }

// AttachFileCommand stages a local file for the next send.
type AttachFileCommand struct {
	Room RoomID
	Path string
}

func (c AttachFileCommand) RoomID() RoomID { return c.Room }

type TypingCommand struct {
	Room RoomID
}

func (c TypingCommand) RoomID() RoomID { return c.Room }

type LeaveRoomCommand struct {
	Room RoomID
}

func (c LeaveRoomCommand) RoomID() RoomID { return c.Room }
