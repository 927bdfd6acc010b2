package main

import (
	"chat-notify/domain"
	"strings"
)

type action int

const (
	actionCommand action = iota
	actionUsers
	actionHelp
	actionQuit
	actionNone
)

const help = `/load           show earlier messages
/attach <path>  stage a file for the next message
/send [text]    send the staged file
/typing         tell the room you are typing
/users          list the members of the room
/leave          leave the room
/quit           disconnect`

// parseLine turns one input line into the commands to run against the session.
// Plain text is sent after a typing notification.
func parseLine(room domain.RoomID, line string) (action, []domain.Command) {
	line = strings.TrimSpace(line)
	if line == "" {
		return actionNone, nil
	}
	if !strings.HasPrefix(line, "/") {
		return actionCommand, []domain.Command{
			domain.TypingCommand{Room: room},
			domain.SendMessageCommand{Room: room, Text: line},
		}
	}

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "/load":
		return actionCommand, []domain.Command{domain.LoadEarlierCommand{Room: room}}
	case "/attach":
		if arg == "" {
			return actionHelp, nil
		}
		return actionCommand, []domain.Command{domain.AttachFileCommand{Room: room, Path: arg}}
	case "/send":
		// Sends the staged attachment, with or without text
		return actionCommand, []domain.Command{domain.SendMessageCommand{Room: room, Text: arg}}
	case "/typing":
		return actionCommand, []domain.Command{domain.TypingCommand{Room: room}}
	case "/leave":
		return actionCommand, []domain.Command{domain.LeaveRoomCommand{Room: room}}
	case "/users":
		return actionUsers, nil
	case "/quit":
		return actionQuit, nil
	default:
		return actionHelp, nil
	}
}
