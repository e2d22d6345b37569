package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v2"
)

var (
	Routes    RouteConfig
	Misc      MiscConfig
	Proxy     ProxyConfig
	StartTime time.Time
)

func Load(filename string) error {
	configData, err := parse(filename)
	if err != nil {
		return err
	}

	if configData.Misc.Email != "" && !isValidEmail(configData.Misc.Email) {
		return fmt.Errorf("invalid email: %s", configData.Misc.Email)
	}

	Misc = configData.Misc
	if Misc.Port == "" {
		Misc.Port = "8000"
	}
	if Misc.MetricsPort == "" {
		Misc.MetricsPort = "7070"
	}

	Proxy = configData.Proxy
	if Proxy.Timeout == 0 {
		Proxy.Timeout = 10
	}
	if Proxy.MaxIdleConns == 0 {
		Proxy.MaxIdleConns = 10
	}
	if Proxy.MaxIdleConnsPerHost == 0 {
		Proxy.MaxIdleConnsPerHost = 5
	}
	if Proxy.MaxConnsPerHost == 0 {
		Proxy.MaxConnsPerHost = 32
	}
	if Proxy.IdleConnTimeout == 0 {
		Proxy.IdleConnTimeout = 30
	}

	for prefix := range configData.Routes {
		if !isValidPath(prefix) {
			return fmt.Errorf("invalid path: %s", prefix)
		}
	}

	Routes = configData.Routes

	return nil
}

// LoadRoutes decodes only the route map, leaving the process-wide
// settings untouched. The watcher uses it so a reload never mutates
// state the request path reads.
func LoadRoutes(filename string) (RouteConfig, error) {
	configData, err := parse(filename)
	if err != nil {
		return nil, err
	}

	for prefix := range configData.Routes {
		if !isValidPath(prefix) {
			return nil, fmt.Errorf("invalid path: %s", prefix)
		}
	}

	return configData.Routes, nil
}

func parse(filename string) (YAML, error) {
	configData := YAML{}

	file, err := os.Open(filename)
	if err != nil {
		return configData, fmt.Errorf("could not open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&configData); err != nil {
		return configData, fmt.Errorf("could not decode YAML: %w", err)
	}

	return configData, nil
}

func isValidEmail(email string) bool {
	return regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`).MatchString(email)
}

func isValidPath(path string) bool {
	return regexp.MustCompile(`^\/([a-zA-Z0-9\-._~]+(?:\/[a-zA-Z0-9\-._~]+)*)?\/?$`).MatchString(path)
}
