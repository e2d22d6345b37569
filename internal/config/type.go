package config

// RouteConfig maps a route prefix to its target, either a literal
// upstream base URL or a secret reference of the form secret:NAME.
type RouteConfig map[string]string

type MiscConfig struct {
	Port           string   `yaml:"port"`
	MetricsPort    string   `yaml:"metrics_port"`
	MetricsEnabled bool     `yaml:"metrics_enabled"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	Domain         string   `yaml:"domain"`
	Email          string   `yaml:"email"`
	EnableTLS      bool     `yaml:"enable_tls"`
	LogFile        string   `yaml:"log_file"`
	Watch          bool     `yaml:"watch"`
}

// ProxyConfig tunes the outbound hop. Durations are in seconds.
type ProxyConfig struct {
	Timeout             int `yaml:"timeout"`
	MaxIdleConns        int `yaml:"max_idle_conns"`
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`
	MaxConnsPerHost     int `yaml:"max_conns_per_host"`
	IdleConnTimeout     int `yaml:"idle_conn_timeout"`
}

type YAML struct {
	Routes RouteConfig `yaml:"routes"`
	Misc   MiscConfig  `yaml:"misc"`
	Proxy  ProxyConfig `yaml:"proxy"`
}
