// Command netkit-mock serves the in-memory game backend used to try the
// netkit client.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kbukum/netkit/config"
	"github.com/kbukum/netkit/logger"
	"github.com/kbukum/netkit/mockapi"
	"github.com/kbukum/netkit/observability"
	"github.com/kbukum/netkit/server"
	"github.com/kbukum/netkit/version"
)

const serviceName = "netkit-mock"

// Config is the netkit-mock configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server server.Config  `yaml:"server" mapstructure:"server"`
	API    mockapi.Config `yaml:"api" mapstructure:"api"`
}

func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.API.ApplyDefaults()
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return c.Server.Validate()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "netkit-mock:", err)
		os.Exit(1)
	}
}

func run() error {
	configFile := flag.String("config", "", "path to config.yml")
	envFile := flag.String("env", "", "path to .env file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get())
		return nil
	}

	cfg := &Config{
		ServiceConfig: config.ServiceConfig{Name: serviceName},
		API: mockapi.Config{
			Secret: "netkit-mock-secret",
			Users:  []mockapi.User{{Email: "player@example.com", Password: "password123"}},
		},
	}
	if err := config.LoadConfig(serviceName, cfg,
		config.WithConfigFile(*configFile),
		config.WithEnvFile(*envFile),
	); err != nil {
		return err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	logger.SetGlobalLogger(log)

	api, err := mockapi.New(cfg.API, log)
	if err != nil {
		return err
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyDefaults(cfg.Name, func(ctx context.Context) []observability.Health {
		return []observability.Health{api.Health(ctx)}
	})
	api.Register(srv.GinEngine())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	log.Info("Received signal, shutting down")
	return srv.Stop(context.Background())
}
