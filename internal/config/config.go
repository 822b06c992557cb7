package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"stableTvl/internal/model"
	"stableTvl/internal/price"
)

const (
	DefaultTritonAddress      = "EQB7Orui1z_dKONoHuglvi2bMUpmD4fw0Z4C2gewD2FP0BpL"
	DefaultAquaUSDUSDTAddress = "EQB5osFH6kzBN2zK9f3A1LZGeJKmqcyGRumYhJgtuWlbjB8w"
	DefaultDoneUSDTAddress    = "EQBYyQyeg3n-6REJhKcky4mK5WpmbghRdpAsz-Bi5cJXUWWL"
)

// Config holds configuration values loaded from flags, env, or config file.
// Environment variables carry no prefix: rpc-url is read from RPC_URL.
type Config struct {
	Port            int
	RPCURL          string
	TonV4APIURL     string
	PriceAPIURL     string
	HTTPTimeout     time.Duration
	HoldersPageSize int
	Pools           []model.PoolConfig
	LogLevel        string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return Config{}, err
	}
	return fromViper(v), nil
}

// Validate reports missing required values.
func (c Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc url is required (RPC_URL)")
	}
	if c.TonV4APIURL == "" {
		return fmt.Errorf("ton v4 api url is required (TON_V4_API_URL)")
	}
	if c.HoldersPageSize <= 0 {
		return fmt.Errorf("holders page size must be > 0")
	}
	for _, pool := range c.Pools {
		if pool.Address == "" {
			return fmt.Errorf("pool %s has no address", pool.Name)
		}
	}
	return nil
}

// LoadDotenv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not an error.
func LoadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func newViper(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", 3000)
	v.SetDefault("price-api-url", price.DefaultEndpoint)
	v.SetDefault("http-timeout", 10*time.Second)
	v.SetDefault("holders-page-size", 1000)
	v.SetDefault("triton-address", DefaultTritonAddress)
	v.SetDefault("aquausd-usdt-address", DefaultAquaUSDUSDTAddress)
	v.SetDefault("done-usdt-address", DefaultDoneUSDTAddress)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Port:            v.GetInt("port"),
		RPCURL:          strings.TrimRight(v.GetString("rpc-url"), "/"),
		TonV4APIURL:     strings.TrimRight(v.GetString("ton-v4-api-url"), "/"),
		PriceAPIURL:     v.GetString("price-api-url"),
		HTTPTimeout:     v.GetDuration("http-timeout"),
		HoldersPageSize: v.GetInt("holders-page-size"),
		Pools: []model.PoolConfig{
			{Name: "3TON", Address: strings.TrimSpace(v.GetString("triton-address"))},
			{Name: "AquaUSD/USDT", Address: strings.TrimSpace(v.GetString("aquausd-usdt-address"))},
			{Name: "DONE/USDT", Address: strings.TrimSpace(v.GetString("done-usdt-address"))},
		},
		LogLevel: v.GetString("log-level"),
	}
}
