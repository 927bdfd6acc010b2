package main

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	NotifierURL string `envconfig:"NOTIFIER_URL" default:"http://localhost:3000"`
	ChatAPIURL  string `envconfig:"CHAT_API_URL" required:"true"`
	UserID      string `envconfig:"USER_ID" required:"true"`
	RoomID      string `envconfig:"ROOM_ID" required:"true"`
	// MAX_ATTACHMENT_SIZE in bytes, 0 disables the limit
	MaxAttachmentSize int64  `envconfig:"MAX_ATTACHMENT_SIZE" default:"10485760"`
	LogLevel          string `envconfig:"LOG_LEVEL" default:"WARN"`
	// ROOM_COLOURS enables colorized output
	Colours bool `envconfig:"ROOM_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
