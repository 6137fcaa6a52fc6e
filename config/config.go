package config

// Config file (global)
var Config JSONConfig

// JSONConfig structure based on config.json
type JSONConfig struct {
	Origin       string      `json:"origin"`
	Port         string      `json:"port"`
	Version      string      `json:"version"`
	DatabasePath string      `json:"databasePath"`
	MessageKey   string      `json:"messageKey"`
	JwtKeyPath   string      `json:"jwtKeyPath"`
	JwtPubPath   string      `json:"jwtPubPath"`
	Redis        RedisConfig `json:"redis"`
	MinIO        MinIOConfig `json:"minIO"`
}

// RedisConfig structure is the config for the redis connection
type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// MinIOConfig structure is the config for the MinIO connection
type MinIOConfig struct {
	Endpoint string `json:"endpoint"`
	User     string `json:"user"`
	Password string `json:"password"`
}
