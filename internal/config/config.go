package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // postgres или mysql
		DSN    string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret          string `yaml:"secret"`
		Algorithm       string `yaml:"algorithm"`       // HS256 по умолчанию
		AccessTTL       int    `yaml:"access_ttl"`      // минуты
		RefreshTTLHours int    `yaml:"refresh_ttl"`     // часы
		RefreshCookie   string `yaml:"refresh_cookie"`  // имя cookie с refresh-токеном
		CookieSecure    bool   `yaml:"cookie_secure"`   // Secure флаг для cookie
	} `yaml:"jwt"`

	Auth struct {
		MaxLoginAttempts int `yaml:"max_login_attempts"` // после скольких неудач блокировать
		LockoutMinutes   int `yaml:"lockout_minutes"`    // длительность блокировки
		CaptchaAfter     int `yaml:"captcha_after"`      // после скольких недавних неудач требовать капчу
		OTPLength        int `yaml:"otp_length"`
		MinAge           int `yaml:"min_age"`
	} `yaml:"auth"`

	Recaptcha struct {
		Enabled   bool   `yaml:"enabled"`
		SecretKey string `yaml:"secret_key"`
		VerifyURL string `yaml:"verify_url"`
	} `yaml:"recaptcha"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`

	FirstAdmin struct {
		Username string `yaml:"username"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"first_admin"`
}

var AppConfig *Config

// LoadConfig загружает конфигурацию.
// Если задан DATABASE_URL, конфигурация собирается из переменных окружения
// (режим теста/контейнера), иначе читается config.yaml.
func LoadConfig() {
	var cfg Config

	// .env не обязателен, ошибки игнорируем
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		log.Println("Загрузка из config.yaml")

		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Загрузка конфигурации из переменных окружения")

	cfg.Database.Driver = getEnv("DATABASE_DRIVER", "postgres")
	cfg.Database.DSN = dbURL
	cfg.Server.Env = getEnv("SERVER_ENV", "development")
	cfg.Server.Port, _ = strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")

	cfg.Email.SMTPHost = getEnv("SMTP_HOST", "localhost")
	cfg.Email.SMTPPort, _ = strconv.Atoi(getEnv("SMTP_PORT", "587"))
	cfg.Email.SMTPUsername = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.Email.FromEmail = getEnv("FROM_EMAIL", "noreply@rianzel.local")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

// applyDefaults проставляет безопасные значения для незаполненных полей
func applyDefaults(cfg *Config) {
	if cfg.JWT.Algorithm == "" {
		cfg.JWT.Algorithm = "HS256"
	}
	if cfg.JWT.AccessTTL == 0 {
		cfg.JWT.AccessTTL = 30
	}
	if cfg.JWT.RefreshTTLHours == 0 {
		cfg.JWT.RefreshTTLHours = 24 * 7
	}
	if cfg.JWT.RefreshCookie == "" {
		cfg.JWT.RefreshCookie = "refresh_token"
	}
	if cfg.Auth.MaxLoginAttempts == 0 {
		cfg.Auth.MaxLoginAttempts = 5
	}
	if cfg.Auth.LockoutMinutes == 0 {
		cfg.Auth.LockoutMinutes = 15
	}
	if cfg.Auth.CaptchaAfter == 0 {
		cfg.Auth.CaptchaAfter = 3
	}
	if cfg.Auth.OTPLength == 0 {
		cfg.Auth.OTPLength = 6
	}
	if cfg.Auth.MinAge == 0 {
		cfg.Auth.MinAge = 15
	}
	if cfg.Recaptcha.VerifyURL == "" {
		cfg.Recaptcha.VerifyURL = "https://www.google.com/recaptcha/api/siteverify"
	}
	if cfg.RateLimit.RPS == 0 {
		cfg.RateLimit.RPS = 5
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 10
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = "Rianzel"
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
