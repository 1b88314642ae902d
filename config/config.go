package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Debug        bool   `mapstructure:"debug"`
	ListenAddr   string `mapstructure:"listen_addr"`
	PostgresDsn  string `mapstructure:"postgres_dsn"`
	DbVerbose    bool   `mapstructure:"db_verbose"`
	BuntPath     string `mapstructure:"bunt_path"`
	AllowOrigins string `mapstructure:"allow_origins"`
	LogSyslog    bool   `mapstructure:"log_syslog"`
	Discord      struct {
		ClientId     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
		RedirectUri  string `mapstructure:"redirect_uri"`
	} `mapstructure:"discord"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`
}

var envBindings = map[string]string{
	"debug":                 "DEBUG",
	"listen_addr":           "LISTEN_ADDR",
	"postgres_dsn":          "POSTGRES_DSN",
	"db_verbose":            "DB_VERBOSE",
	"bunt_path":             "BUNT_PATH",
	"allow_origins":         "ALLOW_ORIGINS",
	"log_syslog":            "LOG_SYSLOG",
	"discord.client_id":     "DISCORD_CLIENT_ID",
	"discord.client_secret": "DISCORD_CLIENT_SECRET",
	"discord.redirect_uri":  "DISCORD_AUTH_URI",
	"kafka.brokers":         "KAFKA_BROKERS",
	"kafka.topic":           "KAFKA_TOPIC",
}

// Load reads .env and config.yaml from dir when present, environment wins over both.
func Load(dir string) (Config, error) {
	if dir == "" {
		dir = "."
	}
	if err := godotenv.Load(dir + "/.env"); err != nil {
		logrus.Debugln("No .env file, using environment only.")
	}

	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetDefault("listen_addr", ":2137")
	v.SetDefault("bunt_path", "kv.db")
	v.SetDefault("allow_origins", "https://forgefit.app")
	v.SetDefault("kafka.topic", "draft.events")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Kafka.Brokers = splitList(cfg.Kafka.Brokers)
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	required := []struct {
		value string
		env   string
	}{
		{c.PostgresDsn, "POSTGRES_DSN"},
		{c.Discord.ClientId, "DISCORD_CLIENT_ID"},
		{c.Discord.ClientSecret, "DISCORD_CLIENT_SECRET"},
		{c.Discord.RedirectUri, "DISCORD_AUTH_URI"},
	}
	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Environment lists arrive as one comma separated element.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
