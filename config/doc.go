// Package config loads netkit configuration with Viper.
//
// Values come from, in increasing precedence: built-in defaults, a YAML
// file (config.yml under ./cmd/<service>/, ./config/ or the working
// directory), a .env file loaded with godotenv, and NETKIT_* environment
// variables. Nested keys are addressed with underscores, so
// NETKIT_CLIENT_BASE_URL sets client.base_url.
//
//	cfg, err := config.Load("netkit", config.WithConfigFile("config.yml"))
//	client, err := httpclient.New(cfg.Client)
package config
