package config

import (
	"log"
	"sync"

	"github.com/fsnotify/fsnotify"
	viper "github.com/spf13/viper"
)

/*
把init config跟read config分開
init : 需要設置viper watch 與 onConfigChange
read : 一般讀寫 需要使用讀寫鎖
*/
var configSingleton *ConfigSingleTon
var muonce sync.Once

type ConfigSingleTon struct {
	Config *Config
	mu     sync.RWMutex
}

type Config struct {
	ModulerName string `mapstructure:"MODULER_NAME"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	DbName string `mapstructure:"POSTGRES_DB"`
	DbHost string `mapstructure:"POSTGRES_HOST"`
	DbPort string `mapstructure:"POSTGRES_PORT"`
	DbUser string `mapstructure:"POSTGRES_USER"`
	DbPas  string `mapstructure:"POSTGRES_PASSWORD"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	KafkaBrokers      string `mapstructure:"KAFKA_BROKERS"` // 逗號分隔
	NotificationTopic string `mapstructure:"NOTIFICATION_TOPIC"`

	GatewayBaseURL       string `mapstructure:"PAYMENT_GATEWAY_URL"`
	GatewaySecretKey     string `mapstructure:"PAYMENT_GATEWAY_SECRET_KEY"`
	GatewayWebhookSecret string `mapstructure:"PAYMENT_GATEWAY_WEBHOOK_SECRET"`

	// 運費與稅率設定，營運可改.env熱更新不用重新部署
	// SHIPPING_TIERS 格式: "maxKm:cost,maxKm:cost,..." 依距離遞增
	SalesTaxRate        float64 `mapstructure:"SALES_TAX_RATE"`
	DefaultShippingCost float64 `mapstructure:"DEFAULT_SHIPPING_COST"`
	ShippingTiers       string  `mapstructure:"SHIPPING_TIERS"`
}

func GetConfig() *Config {
	initConfig()
	configSingleton.mu.RLock()
	defer configSingleton.mu.RUnlock()
	return configSingleton.Config
}

func initConfig() {
	if configSingleton == nil {
		muonce.Do(func() {
			configSingleton = &ConfigSingleTon{}
			if cf, err := loadConfig(); err == nil {
				configSingleton.Config = cf
			} else {
				log.Fatal("error read config")
			}
			viper.WatchConfig()
			viper.OnConfigChange(func(e fsnotify.Event) {
				if cf, err := loadConfig(); err == nil {
					configSingleton.mu.Lock()
					configSingleton.Config = cf
					configSingleton.mu.Unlock()
				} else {
					log.Panic("failed to reload config file")
				}
			})
		})
	}
}

/*
單純回傳錯誤 由外部決定要不要Fatal, 畢竟有可能有替代方案
*/
func loadConfig() (cf *Config, err error) {
	cf = &Config{}
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("NOTIFICATION_TOPIC", "notifications")
	viper.SetDefault("SALES_TAX_RATE", 0.08)
	viper.SetDefault("DEFAULT_SHIPPING_COST", 25.00)
	viper.SetDefault("SHIPPING_TIERS", "5:5.00,20:10.00,50:15.00")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(cf)
	if err != nil {
		return
	}
	return
}
