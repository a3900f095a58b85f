package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage driver selection for the repository layer.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Expiry   ExpiryConfig   `mapstructure:"expiry"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	// Mode is the gin mode: debug or release. Stack traces in error responses
	// only appear outside release mode.
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	// Driver selects the repository backend: "mongo" for the durable store,
	// "memory" for the process-lifetime store.
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration. Expiration accepts duration
// strings ("1h", "60m") which viper unmarshals into time.Duration directly.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// ExpiryConfig controls the scheduled subscription-expiry sweep.
type ExpiryConfig struct {
	// Schedule is a cron expression; empty disables the scheduled sweep.
	// The read-path pre-check still runs either way.
	Schedule string `mapstructure:"schedule"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment overrides: server.address -> SERVER_ADDRESS and so on.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.driver", DriverMongo)
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "fitness_marketplace")
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("jwt.expiration", "24h")
	viper.SetDefault("expiry.schedule", "@hourly")

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No config file; defaults and env vars carry the configuration.
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
