// Package config loads runtime settings from the environment and an
// optional .env file, and selects the database connection URL for the
// active mode.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Mode selects how the application picks its database.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
	ModeTesting     Mode = "testing"
)

const (
	DefaultSecretKey = "dev-secret-key-change-in-production"
	DefaultPort      = 5000

	keyMode        = "mode"
	keyPort        = "port"
	keySecretKey   = "secret_key"
	keyDatabaseURL = "database_url"
	keyDataDir     = "data_dir"
	keyLogLevel    = "log_level"
	keyMySQLHost   = "mysql.host"
	keyMySQLPort   = "mysql.port"
	keyMySQLUser   = "mysql.user"
	keyMySQLPass   = "mysql.password"
	keyMySQLDB     = "mysql.database"
)

// MySQL holds the discrete connection settings used when production mode
// has no DATABASE_URL.
type MySQL struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// URL builds a mysql:// connection URL. User and password are escaped.
func (m MySQL) URL() string {
	u := url.URL{
		Scheme: "mysql",
		User:   url.UserPassword(m.User, m.Password),
		Host:   net.JoinHostPort(m.Host, strconv.Itoa(m.Port)),
		Path:   "/" + m.Database,
	}
	return u.String()
}

type Config struct {
	Mode        Mode
	Port        int
	SecretKey   string
	DatabaseURL string
	DataDir     string
	LogLevel    string
	MySQL       MySQL
}

// Load reads an optional dotenv file (a missing file is not an error) and
// then the process environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault(keyMode, string(ModeDevelopment))
	v.SetDefault(keyPort, DefaultPort)
	v.SetDefault(keySecretKey, DefaultSecretKey)
	v.SetDefault(keyDataDir, ".")
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyMySQLHost, "localhost")
	v.SetDefault(keyMySQLPort, 3306)
	v.SetDefault(keyMySQLUser, "noteapp")
	v.SetDefault(keyMySQLPass, "password")
	v.SetDefault(keyMySQLDB, "noteapp")

	// BindEnv only errors when called without a key.
	_ = v.BindEnv(keyMode, "APP_ENV")
	_ = v.BindEnv(keyPort, "PORT")
	_ = v.BindEnv(keySecretKey, "SECRET_KEY")
	_ = v.BindEnv(keyDatabaseURL, "DATABASE_URL")
	_ = v.BindEnv(keyDataDir, "DATA_DIR")
	_ = v.BindEnv(keyLogLevel, "LOG_LEVEL")
	_ = v.BindEnv(keyMySQLHost, "MYSQL_HOST")
	_ = v.BindEnv(keyMySQLPort, "MYSQL_PORT")
	_ = v.BindEnv(keyMySQLUser, "MYSQL_USER")
	_ = v.BindEnv(keyMySQLPass, "MYSQL_PASSWORD")
	_ = v.BindEnv(keyMySQLDB, "MYSQL_DATABASE")

	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	mode := Mode(v.GetString(keyMode))
	switch mode {
	case ModeDevelopment, ModeProduction, ModeTesting:
	case "":
		mode = ModeDevelopment
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	port := v.GetInt(keyPort)
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port %q", v.GetString(keyPort))
	}
	mysqlPort := v.GetInt(keyMySQLPort)
	if mysqlPort <= 0 || mysqlPort > 65535 {
		return nil, fmt.Errorf("invalid mysql port %q", v.GetString(keyMySQLPort))
	}

	return &Config{
		Mode:        mode,
		Port:        port,
		SecretKey:   v.GetString(keySecretKey),
		DatabaseURL: v.GetString(keyDatabaseURL),
		DataDir:     v.GetString(keyDataDir),
		LogLevel:    v.GetString(keyLogLevel),
		MySQL: MySQL{
			Host:     v.GetString(keyMySQLHost),
			Port:     mysqlPort,
			User:     v.GetString(keyMySQLUser),
			Password: v.GetString(keyMySQLPass),
			Database: v.GetString(keyMySQLDB),
		},
	}, nil
}

// ConnectionURL returns the database URL for the configured mode.
// Development always uses the SQLite file under DataDir, testing uses an
// in-memory SQLite database, and production prefers DATABASE_URL before
// falling back to the MySQL settings.
func (c *Config) ConnectionURL() string {
	switch c.Mode {
	case ModeTesting:
		return "sqlite:///:memory:"
	case ModeProduction:
		if c.DatabaseURL != "" {
			return c.DatabaseURL
		}
		return c.MySQL.URL()
	default:
		return "sqlite:///" + filepath.Join(c.DataDir, "app.db")
	}
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
