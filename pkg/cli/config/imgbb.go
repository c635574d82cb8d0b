package config

import (
	"log/slog"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/imgbb"
	"github.com/urfave/cli/v3"
)

// ImgBB holds the ImgBB API client configuration
type ImgBB struct {
	APIKey   string `masq:"secret"`
	Endpoint string
	Timeout  time.Duration
}

// Flags returns CLI flags for ImgBB configuration
func (x *ImgBB) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "api-key",
			Category:    "imgbb",
			Sources:     cli.EnvVars("IMGBB_API_KEY"),
			Usage:       "ImgBB API key",
			Destination: &x.APIKey,
		},
		&cli.StringFlag{
			Name:        "endpoint",
			Category:    "imgbb",
			Sources:     cli.EnvVars("IMGBB_ENDPOINT"),
			Usage:       "ImgBB upload endpoint",
			Value:       imgbb.DefaultEndpoint,
			Destination: &x.Endpoint,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Category:    "imgbb",
			Sources:     cli.EnvVars("IMGBB_TIMEOUT"),
			Usage:       "Upload request timeout",
			Value:       imgbb.DefaultTimeout,
			Destination: &x.Timeout,
		},
	}
}

// LogValue returns the configuration with the API key masked
func (x ImgBB) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("api_key_configured", x.APIKey != ""),
		slog.String("endpoint", x.Endpoint),
		slog.Duration("timeout", x.Timeout),
	)
}

// Validate checks the endpoint and timeout. The API key is checked by
// commands that need it.
func (x *ImgBB) Validate() error {
	u, err := url.Parse(x.Endpoint)
	if err != nil {
		return goerr.Wrap(err, "invalid endpoint", goerr.V("endpoint", x.Endpoint))
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return goerr.New("endpoint must be an http or https URL", goerr.V("endpoint", x.Endpoint))
	}
	if x.Timeout <= 0 {
		return goerr.New("timeout must be positive", goerr.V("timeout", x.Timeout))
	}
	return nil
}

// Configure builds the ImgBB client
func (x *ImgBB) Configure() (*imgbb.Client, error) {
	if err := x.Validate(); err != nil {
		return nil, err
	}
	return imgbb.New(
		imgbb.WithEndpoint(x.Endpoint),
		imgbb.WithTimeout(x.Timeout),
	), nil
}
