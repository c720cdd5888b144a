package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Bot    BotConfig    `mapstructure:"bot"`
	Game   GameConfig   `mapstructure:"game"`
}

type ServerConfig struct {
	GatewayAddress string `mapstructure:"gateway_address"`
	MonitorAddress string `mapstructure:"monitor_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
}

type BotConfig struct {
	Token     string `mapstructure:"token"`
	AdminID   int64  `mapstructure:"admin_id"`
	Transport string `mapstructure:"transport"` // "telegram" or "websocket"
}

type GameConfig struct {
	StartBalance    int64 `mapstructure:"start_balance"`
	BonusAmount     int64 `mapstructure:"bonus_amount"`
	LeaderboardSize int   `mapstructure:"leaderboard_size"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.gateway_address", ":8082")
	viper.SetDefault("server.monitor_address", ":9100")
	viper.SetDefault("server.rpc_address", ":8083")
	viper.SetDefault("bot.transport", "telegram")
	viper.SetDefault("game.start_balance", 1000)
	viper.SetDefault("game.bonus_amount", 100)
	viper.SetDefault("game.leaderboard_size", 10)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
