// Package auth provides token providers for httpclient.
//
//   - Static: a fixed token that never refreshes.
//   - RefreshingProvider: an access/refresh token pair that renews itself
//     through the backend's refresh endpoint, on 401 or shortly before the
//     access token's exp claim.
//   - Login: exchanges credentials for a TokenPair to seed the provider.
//
// The refresh and login calls must go through a separate client that has no
// AuthProvider, so a failing refresh cannot recurse into itself:
//
//	authless, _ := rest.New(cfg)
//	pair, err := auth.Login(ctx, authless, "/auth/login", auth.Credentials{Email: e, Password: p})
//	provider := auth.NewRefreshingProvider(authless, pair)
//	api, _ := rest.New(cfg, httpclient.WithAuth(provider))
//
// Subpackages:
//
//   - auth/jwt: HMAC JWT service and unverified expiry inspection
//   - auth/password: bcrypt hashing and opaque token generation
package auth
