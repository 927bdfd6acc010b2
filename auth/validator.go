package auth

import (
	"chat-notify/errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Credentials identify this server against the chat service.
// The secret key is given as "<key id>:<secret>", the instance locator as "v1:<cluster>:<instance id>".
type Credentials struct {
	InstanceID string `validate:"required"`
	Cluster    string `validate:"required,alphanum"`
	KeyID      string `validate:"required"`
	Secret     string `validate:"required,min=8"`
}

func ParseCredentials(instanceLocator, secretKey string) (Credentials, error) {
	locator := strings.Split(instanceLocator, ":")
	if len(locator) != 3 || locator[0] != "v1" {
		return Credentials{}, fmt.Errorf("%w: instance locator %q", errors.ErrInvalidCredentials, instanceLocator)
	}
	keyID, secret, ok := strings.Cut(secretKey, ":")
	if !ok {
		return Credentials{}, fmt.Errorf("%w: secret key must be <key id>:<secret>", errors.ErrInvalidCredentials)
	}

	credentials := Credentials{
		Cluster:    locator[1],
		InstanceID: locator[2],
		KeyID:      keyID,
		Secret:     secret,
	}
	if err := validate.Struct(credentials); err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", errors.ErrInvalidCredentials, err)
	}
	return credentials, nil
}
