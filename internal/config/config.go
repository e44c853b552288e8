package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Vocab    VocabConfig  `mapstructure:"vocab"`
	Server   ServerConfig `mapstructure:"server"`
	NBest    NBestConfig  `mapstructure:"nbest"`
	LogLevel string       `mapstructure:"log_level"`
}

type VocabConfig struct {
	Path  string `mapstructure:"path"`
	Model string `mapstructure:"model"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	Workers         int    `mapstructure:"workers"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout_secs"`
	MaxTextBytes    int    `mapstructure:"max_text_bytes"`
	RequestTimeout  int    `mapstructure:"request_timeout_secs"`
}

type NBestConfig struct {
	DefaultK int `mapstructure:"default_k"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Vocab: VocabConfig{
			Path:  "models/vocab.json",
			Model: ModelUnigram,
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			Workers:         2,
			ShutdownTimeout: 30,
			MaxTextBytes:    4096,
			RequestTimeout:  60,
		},
		NBest: NBestConfig{
			DefaultK: 5,
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("vocab-path", defaults.Vocab.Path, "Path to the vocabulary file")
	fs.String("model", defaults.Vocab.Model, "Segmentation model (bpe|unigram)")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("workers", defaults.Server.Workers, "Max concurrent encode requests served at once")
	fs.Int("shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown drain timeout in seconds")
	fs.Int("max-text-bytes", defaults.Server.MaxTextBytes, "Maximum POST /encode text size in bytes")
	fs.Int("request-timeout", defaults.Server.RequestTimeout, "Per-request encode timeout in seconds")
	fs.Int("nbest-default-k", defaults.NBest.DefaultK, "Default number of segmentations returned by nbest when -k is omitted")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("POCKETSUBWORD")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("subwordcli")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("vocab.path", c.Vocab.Path)
	v.SetDefault("vocab.model", c.Vocab.Model)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("server.shutdown_timeout_secs", c.Server.ShutdownTimeout)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.request_timeout_secs", c.Server.RequestTimeout)
	v.SetDefault("nbest.default_k", c.NBest.DefaultK)
	v.SetDefault("log_level", c.LogLevel)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("vocab.path", "vocab-path")
	v.RegisterAlias("vocab.model", "model")
	v.RegisterAlias("server.listen_addr", "server-listen-addr")
	v.RegisterAlias("server.workers", "workers")
	v.RegisterAlias("server.shutdown_timeout_secs", "shutdown-timeout")
	v.RegisterAlias("server.max_text_bytes", "max-text-bytes")
	v.RegisterAlias("server.request_timeout_secs", "request-timeout")
	v.RegisterAlias("nbest.default_k", "nbest-default-k")
	v.RegisterAlias("log_level", "log-level")
}
