package httpclient

import "context"

// AuthProvider supplies bearer tokens to the client. The client reads a token
// before every physical send and never stores it; where and how tokens live
// is entirely up to the provider.
type AuthProvider interface {
	// Token returns the current access token. An empty token sends no auth header.
	Token(ctx context.Context) (string, error)
	// Refresh obtains a new token after the server answered 401.
	// It reports whether a usable token is now available.
	Refresh(ctx context.Context) (bool, error)
}

// AuthFuncs adapts two functions to an AuthProvider.
type AuthFuncs struct {
	TokenFunc   func(ctx context.Context) (string, error)
	RefreshFunc func(ctx context.Context) (bool, error)
}

// Token implements AuthProvider.
func (a AuthFuncs) Token(ctx context.Context) (string, error) {
	if a.TokenFunc == nil {
		return "", nil
	}
	return a.TokenFunc(ctx)
}

// Refresh implements AuthProvider.
func (a AuthFuncs) Refresh(ctx context.Context) (bool, error) {
	if a.RefreshFunc == nil {
		return false, nil
	}
	return a.RefreshFunc(ctx)
}
