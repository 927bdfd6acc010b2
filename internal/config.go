package internal

import (
	"fmt"
	"time"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL,default=INFO"`
	Host     string `env:"HOST,default=0.0.0.0"`
	Port     int    `env:"PORT,default=3000"`

	// Webhook side
	WebhookSecret   string `env:"WEBHOOK_SECRET,required=true"`
	SignatureHeader string `env:"SIGNATURE_HEADER,default=webhook-signature"`
	MaxBodySize     int64  `env:"MAX_BODY_SIZE,default=1048576"`

	// Chat service
	ChatAPIURL        string        `env:"CHAT_API_URL,required=true"`
	InstanceLocator   string        `env:"INSTANCE_LOCATOR,required=true"`
	SecretKey         string        `env:"SECRET_KEY,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	LookupTimeout     time.Duration `env:"LOOKUP_TIMEOUT,default=10s"`

	// Push provider
	FCMURL          string        `env:"FCM_URL,default=https://fcm.googleapis.com/fcm/send"`
	FCMServerKey    string        `env:"FCM_SERVER_KEY,required=true"`
	DeliveryTimeout time.Duration `env:"DELIVERY_TIMEOUT,default=10s"`

	// Stored on users created through /create-and-assign-user without a device token
	DefaultDeviceToken string `env:"DEFAULT_DEVICE_TOKEN"`

	// Pipeline
	NumberOfWorkers  int           `env:"NUMBER_OF_WORKERS,default=4"`
	BufferSize       int           `env:"BUFFER_SIZE,default=100"`
	RestartInterval  time.Duration `env:"RESTART_INTERVAL,default=1s"`
	ResolveTimeout   time.Duration `env:"RESOLVE_TIMEOUT,default=15s"`
	SinkTimeout      time.Duration `env:"SINK_TIMEOUT,default=2s"`
	PreviewMaxLength int           `env:"PREVIEW_MAX_LENGTH,default=37"`
	CensoredDir      string        `env:"CENSORED_DIR"`
	CharReplacement  string        `env:"CHARACTER_REPLACEMENT,default=*"`

	// Delivery journal, disabled when no path is given
	BadgerFilepath   string        `env:"BADGER_FILEPATH"`
	DeliveryTTL      time.Duration `env:"DELIVERY_TTL,default=168h"`
	DeliveryPageSize int           `env:"DELIVERY_PAGE_SIZE,default=50"`

	DebugPort      int `env:"DEBUG_PORT,default=8081"`
	GRPCHealthPort int `env:"GRPC_HEALTH_PORT"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
