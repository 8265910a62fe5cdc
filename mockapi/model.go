package mockapi

import (
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Item is a purchasable item.
type Item struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Desc  string `json:"desc"`
	Price int    `json:"price"`
}

// Status is one of the player's status values.
type Status struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// Status keys.
const (
	StatusHunger  = "HUNGER"
	StatusHygiene = "HYGIENE"
	StatusEnergy  = "ENERGY"
	StatusMood    = "MOOD"
)

// StatusKeys lists the accepted status keys.
var StatusKeys = []string{StatusHunger, StatusHygiene, StatusEnergy, StatusMood}

// MaxStatusValue is the upper bound of a status value.
const MaxStatusValue = 100

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// PlayerClaims are the access token claims.
type PlayerClaims struct {
	gojwt.RegisteredClaims
	Email string `json:"email"`
	// Generation is compared with the player's current generation; revoked
	// tokens carry an older one.
	Generation int `json:"gen"`
}

// SetDefaults stamps the registered claims and a fresh token ID.
func (c *PlayerClaims) SetDefaults(now time.Time, ttl time.Duration, issuer string, audience []string) {
	c.ID = uuid.NewString()
	c.IssuedAt = gojwt.NewNumericDate(now)
	c.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	c.Issuer = issuer
	if len(audience) > 0 {
		c.Audience = audience
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type statusUpdate struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// DefaultItems is the catalogue served by a new API.
func DefaultItems() []Item {
	return []Item{
		{ID: 1, Name: "Apple", Desc: "Restores a little hunger", Price: 5},
		{ID: 2, Name: "Soap", Desc: "Restores hygiene", Price: 8},
		{ID: 3, Name: "Coffee", Desc: "Restores energy", Price: 12},
		{ID: 4, Name: "Ball", Desc: "Improves mood", Price: 20},
	}
}
