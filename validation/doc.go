// Package validation checks configuration and request structs.
//
// Struct tag validation uses go-playground/validator:
//
//	type Config struct {
//	    BaseURL    string `mapstructure:"base_url" validate:"omitempty,url"`
//	    MaxRetries int    `mapstructure:"max_retries" validate:"gte=0"`
//	}
//	err := validation.ValidateStruct(cfg)
//
// Programmatic checks keep the first failure per field:
//
//	v := validation.New()
//	v.Required("email", req.Email).Email("email", req.Email)
//	err := v.Err()
//
// Both report an *Error listing every failing field.
package validation
