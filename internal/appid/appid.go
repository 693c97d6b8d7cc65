// Package appid loads the application identity (binary name, env prefix,
// config name) from the embedded app.yaml or an explicit override file.
package appid

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	appidentityassets "github.com/xtractor/xtractor/internal/assets/appidentity"
)

// EnvIdentityPath names an identity file that takes precedence over the
// embedded one.
const EnvIdentityPath = "XTRACTOR_APP_IDENTITY_PATH"

// Identity describes the application.
type Identity struct {
	Vendor      string `yaml:"vendor"`
	BinaryName  string `yaml:"binary_name"`
	ConfigName  string `yaml:"config_name"`
	EnvPrefix   string `yaml:"env_prefix"`
	Description string `yaml:"description"`
}

type identityFile struct {
	App Identity `yaml:"app"`
}

var (
	mu     sync.Mutex
	cached *Identity
)

// Get returns the identity, loading it on first use.
func Get(_ context.Context) (*Identity, error) {
	mu.Lock()
	defer mu.Unlock()

	if cached != nil {
		return cached, nil
	}

	data := appidentityassets.YAML
	if path := strings.TrimSpace(os.Getenv(EnvIdentityPath)); path != "" {
		raw, err := os.ReadFile(path) // #nosec G304 -- operator supplied path
		if err != nil {
			return nil, fmt.Errorf("read identity %s: %w", path, err)
		}
		data = raw
	}

	identity, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cached = identity
	return identity, nil
}

// Parse decodes and validates an identity document.
func Parse(data []byte) (*Identity, error) {
	var file identityFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse identity: %w", err)
	}

	id := file.App
	if strings.TrimSpace(id.BinaryName) == "" {
		return nil, errors.New("identity: binary_name is required")
	}
	if id.ConfigName == "" {
		id.ConfigName = id.BinaryName
	}
	if id.EnvPrefix == "" {
		id.EnvPrefix = strings.ToUpper(id.BinaryName) + "_"
	}
	if !strings.HasSuffix(id.EnvPrefix, "_") {
		id.EnvPrefix += "_"
	}
	return &id, nil
}

// Reset drops the cached identity.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cached = nil
}
