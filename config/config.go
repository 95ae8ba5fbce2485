// Package config loads the provider account settings. The file keeps the
// original telnyx-account-v2.json layout: API credential plus the two PSTN
// destinations behind the sales menu.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultFile is the config file read when no path is given.
const DefaultFile = "telnyx-account-v2.json"

// Config is loaded once at startup and immutable thereafter.
type Config struct {
	APIKey              string `mapstructure:"telnyx_api_auth_v2" validate:"required"`
	AccountExecNumber   string `mapstructure:"pstn_number_account_exec" validate:"required,e164"`
	SalesEngineerNumber string `mapstructure:"pstn_number_sales_eng" validate:"required,e164"`
	Port                int    `mapstructure:"port" validate:"min=1,max=65535"`
	Mode                string `mapstructure:"mode" validate:"omitempty,oneof=development production"`
}

var validate = validator.New()

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault("port", 8081)
	v.SetDefault("mode", "production")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid %s: %w", path, err)
	}
	return &cfg, nil
}
