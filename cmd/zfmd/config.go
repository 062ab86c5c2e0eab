package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/growsense/go-zfm/protocol"
)

// Config is the daemon configuration, read from an optional YAML file with
// ZFMD_-prefixed environment overrides (ZFMD_SERIAL_DEVICE, ZFMD_MQTT_ENABLED,
// and so on).
type Config struct {
	Serial SerialConfig `mapstructure:"serial"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	MQTT   MQTTConfig   `mapstructure:"mqtt"`
	Log    LogConfig    `mapstructure:"log"`
}

// SerialConfig selects the sensor port and the session parameters.
type SerialConfig struct {
	Device         string        `mapstructure:"device"`
	BaudRate       int           `mapstructure:"baudRate"`
	Address        uint32        `mapstructure:"address"`
	Password       uint32        `mapstructure:"password"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	EnrollCaptures int           `mapstructure:"enrollCaptures"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Listen       string        `mapstructure:"listen"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	// OperationTimeout bounds one sensor exchange behind a request; finger
	// waits (identify, enroll) get FingerTimeout instead since they block
	// on a human.
	OperationTimeout time.Duration `mapstructure:"operationTimeout"`
	FingerTimeout    time.Duration `mapstructure:"fingerTimeout"`
}

// MQTTConfig configures event publishing. Disabled by default.
type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	BrokerURL   string `mapstructure:"brokerUrl"`
	TopicPrefix string `mapstructure:"topicPrefix"`
	ClientID    string `mapstructure:"clientId"`
}

// LogConfig configures the logrus output. A file path switches on
// lumberjack rotation.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	FilePath   string `mapstructure:"filePath"`
	MaxSizeMB  int    `mapstructure:"maxSizeMB"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAgeDays"`
	Compress   bool   `mapstructure:"compress"`
}

// LoadConfig reads the configuration. Defaults apply when path is empty;
// environment variables override both.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ZFMD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.MQTT.Enabled && cfg.MQTT.BrokerURL == "" {
		return nil, fmt.Errorf("mqtt.brokerUrl is required when mqtt.enabled is true")
	}

	return &cfg, nil
}

// setDefaults registers every key so environment overrides resolve even
// without a config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("serial.device", "/dev/ttyUSB0")
	v.SetDefault("serial.baudRate", protocol.DefaultBaudRate)
	v.SetDefault("serial.address", protocol.DefaultAddress)
	v.SetDefault("serial.password", protocol.DefaultPassword)
	v.SetDefault("serial.readTimeout", time.Second)
	v.SetDefault("serial.enrollCaptures", 2)

	v.SetDefault("http.listen", ":8480")
	v.SetDefault("http.readTimeout", 10*time.Second)
	v.SetDefault("http.writeTimeout", 60*time.Second)
	v.SetDefault("http.idleTimeout", 120*time.Second)
	v.SetDefault("http.operationTimeout", 10*time.Second)
	v.SetDefault("http.fingerTimeout", 30*time.Second)

	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.brokerUrl", "")
	v.SetDefault("mqtt.topicPrefix", "zfmd")
	v.SetDefault("mqtt.clientId", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.filePath", "")
	v.SetDefault("log.maxSizeMB", 50)
	v.SetDefault("log.maxBackups", 5)
	v.SetDefault("log.maxAgeDays", 30)
	v.SetDefault("log.compress", false)
}
