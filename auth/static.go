package auth

import "context"

// Static is a fixed bearer token. It never refreshes.
type Static string

// Token implements httpclient.AuthProvider.
func (s Static) Token(context.Context) (string, error) {
	return string(s), nil
}

// Refresh implements httpclient.AuthProvider. A static token cannot be renewed.
func (s Static) Refresh(context.Context) (bool, error) {
	return false, nil
}
