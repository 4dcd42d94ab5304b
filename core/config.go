package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env                       string        `mapstructure:"env"`
		Build                     string        `mapstructure:"build"`
		AppName                   string        `mapstructure:"appName"`
		Debug                     bool          `mapstructure:"debug"`
		TestMode                  bool          `mapstructure:"testMode"`
		WorkDir                   string        `mapstructure:"workDir"`
		SecretKey                 string        `mapstructure:"secretKey"`
		FrontendBaseURL           string        `mapstructure:"frontendBaseURL"`
		DefaultFromEmailAddr      string        `mapstructure:"defaultFromEmail"`
		PasswordResetTimeoutDelta time.Duration `mapstructure:"passwordResetTimeoutDelta"`
		RollbarToken              string        `mapstructure:"rollbarToken"`
		SendgridApiKey            string        `mapstructure:"sendgridApiKey"`

		Server    ServerConfig    `mapstructure:"server"`
		Database  DatabaseConfig  `mapstructure:"database"`
		Gemini    GeminiConfig    `mapstructure:"gemini"`
		Admission AdmissionConfig `mapstructure:"admission"`
	}

	ServerConfig struct {
		Host                      string        `mapstructure:"host"`
		Address                   string        `mapstructure:"address"`
		DebugHost                 string        `mapstructure:"debugHost"`
		DisableReqLogs            bool          `mapstructure:"disableReqLogs"`
		ShutdownTimeout           time.Duration `mapstructure:"shutdownTimeout"`
		JWTExpirationDelta        time.Duration `mapstructure:"jwtExpirationDelta"`
		JWTRefreshExpirationDelta time.Duration `mapstructure:"jwtRefreshExpirationDelta"`
	}

	// DatabaseConfig selects the storage engine: "memory", "sqlite" or "postgres".
	DatabaseConfig struct {
		Engine     string `mapstructure:"engine"`
		Name       string `mapstructure:"name"`
		Path       string `mapstructure:"path"` // sqlite file
		Host       string `mapstructure:"host"`
		Port       string `mapstructure:"port"`
		User       string `mapstructure:"user"`
		Password   string `mapstructure:"password"`
		DisableTLS bool   `mapstructure:"disableTLS"`
	}

	GeminiConfig struct {
		APIKey  string        `mapstructure:"apiKey"`
		Model   string        `mapstructure:"model"`
		Timeout time.Duration `mapstructure:"timeout"`
	}

	// AdmissionConfig holds the scoring weights and eligibility thresholds.
	AdmissionConfig struct {
		AptitudeWeight     float64            `mapstructure:"aptitudeWeight"`
		AcademicWeight     float64            `mapstructure:"academicWeight"`
		AccommodationBonus float64            `mapstructure:"accommodationBonus"`
		AptitudeMax        float64            `mapstructure:"aptitudeMax"`
		AcademicMax        float64            `mapstructure:"academicMax"`
		BestOf             int                `mapstructure:"bestOf"`
		MinAptitude        int                `mapstructure:"minAptitude"`
		MinCredits         int                `mapstructure:"minCredits"`
		FairnessThreshold  float64            `mapstructure:"fairnessThreshold"`
		Departments        []DepartmentConfig `mapstructure:"departments"`
	}

	// DepartmentConfig overrides the built-in department catalog when at least one is set.
	DepartmentConfig struct {
		ID       string   `mapstructure:"id"`
		Name     string   `mapstructure:"name"`
		School   string   `mapstructure:"school"`
		Subjects []string `mapstructure:"subjects"`
		Quota    int      `mapstructure:"quota"`
	}
)

func (c DatabaseConfig) Address() string {
	if c.Port == "" {
		return c.Host
	}
	return c.Host + ":" + c.Port
}

// Validate rejects admission settings no score or threshold can be computed from.
// Zero is a valid bonus, weight and threshold.
func (c AdmissionConfig) Validate() error {
	switch {
	case c.AptitudeMax <= 0:
		return errors.New("admission.aptitudeMax must be positive")
	case c.AcademicMax <= 0:
		return errors.New("admission.academicMax must be positive")
	case c.BestOf <= 0:
		return errors.New("admission.bestOf must be positive")
	case c.AptitudeWeight < 0, c.AcademicWeight < 0, c.AccommodationBonus < 0:
		return errors.New("admission weights cannot be negative")
	case c.MinAptitude < 0, c.MinCredits < 0:
		return errors.New("admission thresholds cannot be negative")
	case c.FairnessThreshold < 0:
		return errors.New("admission.fairnessThreshold cannot be negative")
	}
	return nil
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.DefaultFromEmailAddr}
}

// NewConfig loads the configuration from defaults, the optional `config/settings.*` file,
// the optional `config/.env.<env>` file and finally the environment (prefixed with the env name).
func NewConfig() *Config {
	conf := viper.New()
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd(): %v", err)
	}

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("build", "develop")
	conf.SetDefault("appName", "Admissions")
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("workDir", wd)
	conf.SetDefault("secretKey", "s3ge!q)v0k%x+2ht=w8n_dl#ru7c@pj6b^m1a(ofy$z4i*e5")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("sendgridApiKey", "")

	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.debugHost", ":4000")
	conf.SetDefault("server.disableReqLogs", false)
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.jwtExpirationDelta", 4*time.Hour)
	conf.SetDefault("server.jwtRefreshExpirationDelta", 7*24*time.Hour)

	conf.SetDefault("database.engine", "memory")
	conf.SetDefault("database.name", "admissions")
	conf.SetDefault("database.path", "admissions.db")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", "5432")
	conf.SetDefault("database.user", "postgres")
	conf.SetDefault("database.password", "")
	conf.SetDefault("database.disableTLS", true)

	conf.SetDefault("gemini.apiKey", "")
	conf.SetDefault("gemini.model", "gemini-1.5-flash")
	conf.SetDefault("gemini.timeout", 60*time.Second)

	conf.SetDefault("admission.aptitudeWeight", 75.0)
	conf.SetDefault("admission.academicWeight", 25.0)
	conf.SetDefault("admission.accommodationBonus", 5.0)
	conf.SetDefault("admission.aptitudeMax", 400.0)
	conf.SetDefault("admission.academicMax", 400.0)
	conf.SetDefault("admission.bestOf", 5)
	conf.SetDefault("admission.minAptitude", 180)
	conf.SetDefault("admission.minCredits", 5)
	conf.SetDefault("admission.fairnessThreshold", 0.8)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	case "QA", "PROD":
		conf.SetDefault("debug", false)
	}
	conf.SetDefault("env", env)
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	confDir := filepath.Join(wd, "config")

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(confDir, ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	// settings file (department catalog overrides)
	conf.SetConfigName("settings")
	conf.AddConfigPath(confDir)
	if err := conf.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("config.ReadInConfig(): %v", err)
		}
	}

	var c Config
	if err := conf.Unmarshal(&c); err != nil {
		log.Fatalf("config.Unmarshal(): %v", err)
	}
	if err := c.Admission.Validate(); err != nil {
		log.Fatalf("config.Admission.Validate(): %v", err)
	}
	return &c
}
