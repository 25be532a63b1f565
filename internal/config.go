package internal

import "time"

type Config struct {
	BridgeEndpoint      string        `env:"BRIDGE_ENDPOINT,required=true"`
	BadgerFilepath      string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath       string        `env:"BLUGE_FILEPATH,required=true"`
	LogLevel            string        `env:"LOG_LEVEL,required=true"`
	RefreshInterval     time.Duration `env:"REFRESH_INTERVAL,default=2m"`
	AccountPollInterval time.Duration `env:"ACCOUNT_POLL_INTERVAL,default=5s"`
	AttemptLimit        *int          `env:"ATTEMPT_LIMIT"`
	DebugPort           int           `env:"DEBUG_PORT,default=8080"`
}
