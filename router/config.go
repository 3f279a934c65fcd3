package router

import "time"

// Config holds the tunables for the default middleware chain. It carries yaml
// tags so service configuration files can embed it directly.
type Config struct {
	Timeout         time.Duration `yaml:"timeout"`
	CORS            CORSConfig    `yaml:"cors"`
	QuietdownRoutes []string      `yaml:"quietdown_routes"`
	HideHeaders     []string      `yaml:"hide_headers"`
}

// CORSConfig enables the CORS middleware when Origins is non-empty. An origin
// of "*" allows every caller.
type CORSConfig struct {
	Origins          []string `yaml:"origins"`
	Methods          []string `yaml:"methods"`
	Headers          []string `yaml:"headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
}
