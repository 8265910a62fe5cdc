package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/kbukum/netkit/httpclient/rest"
)

// TokenPair is the token material returned by the login and refresh endpoints.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ErrNoAccessToken is returned when the server answered 2xx without an access token.
var ErrNoAccessToken = errors.New("auth: response carried no access token")

// Login posts creds to path and returns the issued token pair. The response
// is read from the "data" envelope unless opts select another path.
func Login(ctx context.Context, client *rest.Client, path string, creds Credentials, opts ...rest.Option) (TokenPair, error) {
	opts = append([]rest.Option{rest.WithDataPath(DefaultDataPath)}, opts...)
	pair, err := rest.Post[TokenPair](ctx, client, path, creds, opts...)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: login: %w", err)
	}
	if pair.AccessToken == "" {
		return TokenPair{}, ErrNoAccessToken
	}
	return pair, nil
}
