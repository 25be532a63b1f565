package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// BRIDGE_ENDPOINT points the suite at a real wallet bridge. When
	// empty, an in-process stub bridge is started instead.
	BridgeEndpoint string `envconfig:"BRIDGE_ENDPOINT"`
	// E2E_DEBUG_JSON allows dumping full JSON-RPC request bodies
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
