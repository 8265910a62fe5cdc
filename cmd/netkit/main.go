// Command netkit performs one REST call against a configured backend.
//
//	netkit [-config file] [-env file] METHOD PATH [JSON]
//
// When NETKIT_AUTH_EMAIL and NETKIT_AUTH_PASSWORD are set the command logs
// in first and sends the access token, refreshing it on 401.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/common/expfmt"

	"github.com/kbukum/netkit/auth"
	"github.com/kbukum/netkit/config"
	"github.com/kbukum/netkit/httpclient"
	"github.com/kbukum/netkit/httpclient/rest"
	"github.com/kbukum/netkit/logger"
	"github.com/kbukum/netkit/observability"
	"github.com/kbukum/netkit/version"
)

const serviceName = "netkit"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "netkit:", err)
		os.Exit(1)
	}
}

func run() error {
	configFile := flag.String("config", "", "path to config.yml")
	envFile := flag.String("env", "", "path to .env file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: netkit [-config file] [-env file] METHOD PATH [JSON]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get())
		return nil
	}
	if flag.NArg() < 2 {
		flag.Usage()
		return errors.New("METHOD and PATH are required")
	}
	method := httpclient.Method(strings.ToUpper(flag.Arg(0)))
	path := flag.Arg(1)
	body := flag.Arg(2)

	cfg, err := config.Load(serviceName, config.WithConfigFile(*configFile), config.WithEnvFile(*envFile))
	if err != nil {
		return err
	}
	log := logger.New(&cfg.Logging, cfg.Name)
	logger.SetGlobalLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry, err := setupTelemetry(ctx, cfg)
	if err != nil {
		return err
	}
	defer telemetry.shutdown(context.Background(), log)

	opts := []httpclient.Option{httpclient.WithLogger(log.WithComponent("httpclient"))}
	if telemetry.recorder != nil {
		opts = append(opts, httpclient.WithRecorder(telemetry.recorder))
	}

	if cfg.Auth.HasCredentials() {
		provider, authClient, err := login(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer authClient.Close()
		opts = append(opts, httpclient.WithAuth(provider))
	}

	client, err := httpclient.New(cfg.Client, opts...)
	if err != nil {
		return err
	}
	defer client.Close()

	req := &httpclient.Request{Method: method, Path: path}
	if body != "" {
		req.Body = []byte(body)
	}
	resp, err := client.Do(ctx, req)
	if err != nil {
		var restErr *httpclient.RestError
		if errors.As(err, &restErr) && restErr.Text() != "" {
			fmt.Fprintln(os.Stderr, restErr.Text())
		}
		return err
	}
	fmt.Println(resp.Text())

	telemetry.dump()
	return nil
}

// login obtains a token pair with a client of its own and returns a provider
// that refreshes through that client.
func login(ctx context.Context, cfg *config.Config, log *logger.Logger) (*auth.RefreshingProvider, *rest.Client, error) {
	authCfg := cfg.Client
	authCfg.Name = cfg.Client.Name + "-auth"
	authClient, err := rest.New(authCfg, httpclient.WithLogger(log.WithComponent("auth")))
	if err != nil {
		return nil, nil, err
	}

	pair, err := auth.Login(ctx, authClient, cfg.Auth.LoginPath, auth.Credentials{
		Email:    cfg.Auth.Email,
		Password: cfg.Auth.Password,
	})
	if err != nil {
		authClient.Close()
		return nil, nil, err
	}
	log.Debug("logged in", logger.Fields("email", cfg.Auth.Email))

	return auth.NewRefreshingProvider(authClient, pair,
		auth.WithRefreshPath(cfg.Auth.RefreshPath),
		auth.WithLeeway(cfg.Auth.Leeway),
		auth.WithProviderLogger(log),
	), authClient, nil
}

type telemetry struct {
	recorder  httpclient.Recorder
	prom      *observability.PromRecorder
	shutdowns []func(context.Context) error
}

func setupTelemetry(ctx context.Context, cfg *config.Config) (*telemetry, error) {
	t := &telemetry{}
	tc := cfg.Telemetry
	export := observability.NewExportConfig(cfg.Name)
	export.Environment = cfg.Environment
	export.Endpoint = tc.Endpoint
	export.Insecure = tc.Insecure

	if tc.Tracing {
		tp, err := observability.InitTracer(ctx, export)
		if err != nil {
			return nil, err
		}
		t.shutdowns = append(t.shutdowns, tp.Shutdown)
	}

	switch tc.Metrics {
	case config.MetricsPrometheus:
		prom, err := observability.NewPromRecorder(tc.Namespace)
		if err != nil {
			return nil, err
		}
		t.prom = prom
		t.recorder = prom
	case config.MetricsOTLP:
		mp, err := observability.InitMeter(ctx, export)
		if err != nil {
			return nil, err
		}
		t.shutdowns = append(t.shutdowns, mp.Shutdown)
		rec, err := observability.NewClientRecorder(mp.Meter(serviceName), cfg.Client.Name)
		if err != nil {
			return nil, err
		}
		t.recorder = rec
	}
	return t, nil
}

// dump writes the Prometheus metrics of this run to stderr.
func (t *telemetry) dump() {
	if t.prom == nil {
		return
	}
	families, err := t.prom.Registry().Gather()
	if err != nil {
		return
	}
	enc := expfmt.NewEncoder(os.Stderr, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		_ = enc.Encode(mf)
	}
}

func (t *telemetry) shutdown(ctx context.Context, log *logger.Logger) {
	for _, fn := range t.shutdowns {
		if err := fn(ctx); err != nil {
			log.Warn("telemetry shutdown failed", logger.ErrorFields("shutdown", err))
		}
	}
}
