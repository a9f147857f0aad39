package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configはアプリ全体の設定
type Config struct {
	Port string

	DatabaseURL      string // 指定があれば個別のPOSTGRES_*より優先
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	JWTSecret string

	StripeSecretKey   string
	RazorpayKeyID     string
	RazorpayKeySecret string

	//空ならイベント発行は無効（Nopになる）
	AmqpURL string

	GoEnv string // dev/prod
}

// Loadは .env（あれば）→環境変数の順で設定を読む。
func Load() (Config, error) {
	// .envはローカル開発用。無くてもエラーにしない。
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "dreamdrape")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("GO_ENV", "dev")
	viper.AutomaticEnv()

	cfg := Config{
		Port: viper.GetString("PORT"),

		DatabaseURL:      viper.GetString("DATABASE_URL"),
		PostgresUser:     viper.GetString("POSTGRES_USER"),
		PostgresPassword: viper.GetString("POSTGRES_PASSWORD"),
		PostgresDB:       viper.GetString("POSTGRES_DB"),
		PostgresHost:     viper.GetString("POSTGRES_HOST"),
		PostgresPort:     viper.GetInt("POSTGRES_PORT"),
		PostgresSSLMode:  viper.GetString("POSTGRES_SSLMODE"),

		JWTSecret: viper.GetString("JWT_SECRET"),

		StripeSecretKey:   viper.GetString("STRIPE_SECRET_KEY"),
		RazorpayKeyID:     viper.GetString("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: viper.GetString("RAZORPAY_KEY_SECRET"),

		AmqpURL: viper.GetString("RABBITMQ_URL"),

		GoEnv: viper.GetString("GO_ENV"),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
