package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/imeji/pkg/imeji"
)

const (
	// ModePublic is the default service mode.
	ModePublic = "public"

	// ModePrivate is the restrictive service mode, where release and discard
	// are refused by the service.
	ModePrivate = "private"
)

// Environment variables that override the configuration file.
const (
	EnvServiceURL = "IMEJI_SERVICE_URL"
	EnvUser       = "IMEJI_USER"
	EnvPassword   = "IMEJI_PASSWORD"
	EnvMode       = "IMEJI_MODE"
)

// Config contains the CLI configuration.
type Config struct {
	// Service configures the imeji service to talk to.
	Service *Service `hcl:"service,block"`

	// Contributor is recorded on new collections and albums.
	Contributor *Contributor `hcl:"contributor,block"`

	// path is the file the configuration was loaded from.
	path string
}

// Service is the service configuration block.
type Service struct {
	URL      string `hcl:"url,optional"`
	User     string `hcl:"user,optional"`
	Password string `hcl:"password,optional"`
	Mode     string `hcl:"mode,optional"`
}

// Contributor is the contributor configuration block.
type Contributor struct {
	FamilyName   string `hcl:"family_name"`
	GivenName    string `hcl:"given_name,optional"`
	Organization string `hcl:"organization,optional"`
}

// Validate validates the service configuration.
func (s Service) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.URL, validation.By(httpURL)),
		validation.Field(&s.Mode, validation.In(ModePublic, ModePrivate)),
		validation.Field(&s.User,
			validation.When(s.Password != "", validation.Required.Error(
				"must be set when password is set"))),
		validation.Field(&s.Password,
			validation.When(s.User != "", validation.Required.Error(
				"must be set when user is set"))),
	)
}

// Validate validates the contributor configuration.
func (c Contributor) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.FamilyName, validation.Required),
	)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Service),
		validation.Field(&c.Contributor),
	)
}

func httpURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use the http or https scheme")
	}
	if u.Host == "" {
		return fmt.Errorf("must include a host")
	}
	return nil
}

// DefaultPath returns the path of the configuration file in the user
// configuration directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error finding user config directory: %w", err)
	}
	return filepath.Join(dir, "imeji", "config.hcl"), nil
}

// Load reads the configuration file at path. A missing file is created empty,
// along with its directory. Environment overrides are applied after decoding.
func Load(fs afero.Fs, path string) (*Config, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("error checking config file: %w", err)
	}
	if !exists {
		if err := fs.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("error creating config directory: %w", err)
		}
		if err := afero.WriteFile(fs, path, nil, 0o600); err != nil {
			return nil, fmt.Errorf("error creating config file: %w", err)
		}
	}

	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := &Config{}
	if err := hclsimple.Decode(filepath.Base(path), src, nil, cfg); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}
	cfg.path = path
	if cfg.Service == nil {
		cfg.Service = &Service{}
	}
	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv overrides service settings with the non-empty environment
// variables.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvServiceURL); v != "" {
		c.Service.URL = v
	}
	if v := getenv(EnvUser); v != "" {
		c.Service.User = v
	}
	if v := getenv(EnvPassword); v != "" {
		c.Service.Password = v
	}
	if v := getenv(EnvMode); v != "" {
		c.Service.Mode = v
	}
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string { return c.path }

// ClientOptions converts the configuration into client options. A non-empty
// serviceURL overrides the configured one.
func (c *Config) ClientOptions(serviceURL string) (imeji.Options, error) {
	opts := imeji.Options{}
	if c.Service != nil {
		opts.ServiceURL = c.Service.URL
		opts.User = c.Service.User
		opts.Password = c.Service.Password
		opts.Restricted = c.Service.Mode == ModePrivate
	}
	if serviceURL != "" {
		opts.ServiceURL = serviceURL
	}
	if opts.ServiceURL == "" {
		return opts, fmt.Errorf(
			"no service URL configured: set url in the service block of %s, %s or -service",
			c.path, EnvServiceURL)
	}
	if c.Contributor != nil {
		opts.Contributor = &imeji.Contributor{
			FamilyName:   c.Contributor.FamilyName,
			GivenName:    c.Contributor.GivenName,
			Organization: c.Contributor.Organization,
		}
	}
	return opts, nil
}
