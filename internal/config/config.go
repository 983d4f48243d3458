package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Order    OrderConfig
	Carrier  CarrierConfig
	Gateway  GatewayConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type OrderConfig struct {
	PlacementTxTimeout time.Duration
}

type CarrierConfig struct {
	BaseURL  string
	Email    string
	Password string
	Timeout  time.Duration

	// Ordered pickup-location candidates tried by the provisioning
	// workflow. The value is external carrier configuration this service
	// cannot validate ahead of submission.
	PickupLocations []string

	// Parcel defaults applied when the checkout carries no dimensions.
	PackageLength float64
	PackageWidth  float64
	PackageHeight float64
	PackageWeight float64
}

type GatewayConfig struct {
	KeySecret string
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "radagast")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "fulfillment")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ORDER_TX_TIMEOUT", "5s")
	viper.SetDefault("CARRIER_BASE_URL", "https://apiv2.shiprocket.in")
	viper.SetDefault("CARRIER_EMAIL", "")
	viper.SetDefault("CARRIER_PASSWORD", "")
	viper.SetDefault("CARRIER_TIMEOUT", "20s")
	viper.SetDefault("CARRIER_PICKUP_LOCATIONS", []string{"Primary", "primary", "PRIMARY", "Home"})
	viper.SetDefault("CARRIER_PACKAGE_LENGTH", 10.0)
	viper.SetDefault("CARRIER_PACKAGE_WIDTH", 10.0)
	viper.SetDefault("CARRIER_PACKAGE_HEIGHT", 10.0)
	viper.SetDefault("CARRIER_PACKAGE_WEIGHT", 0.5)
	viper.SetDefault("GATEWAY_KEY_SECRET", "")

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	txTimeout, err := time.ParseDuration(viper.GetString("ORDER_TX_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	carrierTimeout, err := time.ParseDuration(viper.GetString("CARRIER_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Order: OrderConfig{
			PlacementTxTimeout: txTimeout,
		},
		Carrier: CarrierConfig{
			BaseURL:         viper.GetString("CARRIER_BASE_URL"),
			Email:           viper.GetString("CARRIER_EMAIL"),
			Password:        viper.GetString("CARRIER_PASSWORD"),
			Timeout:         carrierTimeout,
			PickupLocations: viper.GetStringSlice("CARRIER_PICKUP_LOCATIONS"),
			PackageLength:   viper.GetFloat64("CARRIER_PACKAGE_LENGTH"),
			PackageWidth:    viper.GetFloat64("CARRIER_PACKAGE_WIDTH"),
			PackageHeight:   viper.GetFloat64("CARRIER_PACKAGE_HEIGHT"),
			PackageWeight:   viper.GetFloat64("CARRIER_PACKAGE_WEIGHT"),
		},
		Gateway: GatewayConfig{
			KeySecret: viper.GetString("GATEWAY_KEY_SECRET"),
		},
	}

	return cfg, nil
}
