package api

import "errors"

type CORSConfig struct {
	TrustedOrigins []string `yaml:"trusted_origins"`
}

// Config configures the demo HTTP server that wraps fancysearch.Compile.
type Config struct {
	Addr         string     `yaml:"addr"`
	DefaultField string     `yaml:"default_field"`
	CertFile     string     `yaml:"cert_file"`
	KeyFile      string     `yaml:"key_file"`
	CORS         CORSConfig `yaml:"cors"`
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("api server address is required")
	}
	if c.DefaultField == "" {
		return errors.New("api default field is required")
	}

	return nil
}
