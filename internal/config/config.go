package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Engine   EngineConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ReportTTLSeconds int
}

// EngineConfig carries the default optimization parameters. Individual
// requests may still override them; see engine.Params.
type EngineConfig struct {
	ServiceLevelZ         float64
	SafetyBufferDays      float64
	ABCCutoffA            float64
	ABCCutoffB            float64
	XYZCutoffX            float64
	XYZCutoffY            float64
	ExcessCoverageDays    float64
	PeriodDays            float64
	MinSellThroughDays    float64
	ProjectionHorizonDays float64
	HorizonPeriods        int
	HistoryWindowDays     int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "demandplan")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_REPORT_TTL_SECONDS", 60)
		viper.SetDefault("ENGINE_SERVICE_LEVEL_Z", 1.65)
		viper.SetDefault("ENGINE_SAFETY_BUFFER_DAYS", 5.0)
		viper.SetDefault("ENGINE_ABC_CUTOFF_A", 0.80)
		viper.SetDefault("ENGINE_ABC_CUTOFF_B", 0.95)
		viper.SetDefault("ENGINE_XYZ_CUTOFF_X", 0.5)
		viper.SetDefault("ENGINE_XYZ_CUTOFF_Y", 1.0)
		viper.SetDefault("ENGINE_EXCESS_COVERAGE_DAYS", 90.0)
		viper.SetDefault("ENGINE_PERIOD_DAYS", 7.0)
		viper.SetDefault("ENGINE_MIN_SELL_THROUGH_DAYS", 3.0)
		viper.SetDefault("ENGINE_PROJECTION_HORIZON_DAYS", 14.0)
		viper.SetDefault("ENGINE_HORIZON_PERIODS", 12)
		viper.SetDefault("ENGINE_HISTORY_WINDOW_DAYS", 180)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:          viper.GetBool("CACHE_ENABLED"),
				RedisURL:         viper.GetString("REDIS_URL"),
				RedisHost:        viper.GetString("REDIS_HOST"),
				RedisPort:        viper.GetString("REDIS_PORT"),
				RedisPassword:    viper.GetString("REDIS_PASSWORD"),
				RedisDB:          viper.GetInt("REDIS_DB"),
				ReportTTLSeconds: viper.GetInt("CACHE_REPORT_TTL_SECONDS"),
			},
			Engine: EngineConfig{
				ServiceLevelZ:         viper.GetFloat64("ENGINE_SERVICE_LEVEL_Z"),
				SafetyBufferDays:      viper.GetFloat64("ENGINE_SAFETY_BUFFER_DAYS"),
				ABCCutoffA:            viper.GetFloat64("ENGINE_ABC_CUTOFF_A"),
				ABCCutoffB:            viper.GetFloat64("ENGINE_ABC_CUTOFF_B"),
				XYZCutoffX:            viper.GetFloat64("ENGINE_XYZ_CUTOFF_X"),
				XYZCutoffY:            viper.GetFloat64("ENGINE_XYZ_CUTOFF_Y"),
				ExcessCoverageDays:    viper.GetFloat64("ENGINE_EXCESS_COVERAGE_DAYS"),
				PeriodDays:            viper.GetFloat64("ENGINE_PERIOD_DAYS"),
				MinSellThroughDays:    viper.GetFloat64("ENGINE_MIN_SELL_THROUGH_DAYS"),
				ProjectionHorizonDays: viper.GetFloat64("ENGINE_PROJECTION_HORIZON_DAYS"),
				HorizonPeriods:        viper.GetInt("ENGINE_HORIZON_PERIODS"),
				HistoryWindowDays:     viper.GetInt("ENGINE_HISTORY_WINDOW_DAYS"),
			},
		}
	})

	return instance
}
