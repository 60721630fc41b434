package db

import (
	"fmt"
	"strings"

	"github.com/yungbote/mongoarchitect-backend/internal/platform/envutil"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config selects and locates the schema history store.
type Config struct {
	Driver string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresName     string

	SQLitePath string

	MongoURI      string
	MongoDatabase string
}

func LoadConfig() Config {
	return Config{
		Driver:           strings.ToLower(envutil.String("STORE_DRIVER", DriverSQLite)),
		PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
		PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
		PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
		PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
		PostgresName:     envutil.String("POSTGRES_NAME", "mongoarchitect"),
		SQLitePath:       envutil.String("SQLITE_PATH", "mongoarchitect.db"),
		MongoURI:         envutil.String("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:    envutil.String("MONGODB_DATABASE", "mongoarchitect"),
	}
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresName,
	)
}

func (c Config) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverSQLite, DriverMongo:
		return nil
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Driver)
	}
}
