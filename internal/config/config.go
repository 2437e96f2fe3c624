package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database  `envPrefix:"DB_"`
	Auth        Auth      `envPrefix:"AUTH_"`
	Storage     Storage   `envPrefix:"STORAGE_"`
	Redis       Redis     `envPrefix:"REDIS_"`
	Kafka       Kafka     `envPrefix:"KAFKA_"`
	Order       Order     `envPrefix:"ORDER_"`
	RateLimit   RateLimit `envPrefix:"RATE_LIMIT_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

func (e Environment) IsDevelopment() bool {
	return e.Name == "development"
}

type Log struct {
	Level  string `env:"LOG_LEVEL"`  // empty: debug in development, info otherwise
	Format string `env:"LOG_FORMAT"` // console or json; empty: console in development
}

type HTTPServer struct {
	Host      string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port      string `env:"HTTP_PORT" envDefault:"8080"`
	BodyLimit string `env:"HTTP_BODY_LIMIT" envDefault:"12M"`
}

type Database struct {
	Driver          string        `env:"DRIVER" envDefault:"sqlite"` // sqlite, mysql, postgres
	URL             string        `env:"URL" envDefault:"campus-merch.db"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"50"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"1h"`
	Seed            bool          `env:"SEED" envDefault:"false"` // demo catalog
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET" envDefault:"change-me-in-prod"`
	Issuer    string `env:"ISSUER"`
}

type Storage struct {
	Root          string `env:"ROOT" envDefault:"storage"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080/storage"`
	MaxProofBytes int64  `env:"MAX_PROOF_BYTES" envDefault:"10485760"`
	MaxProofSide  int    `env:"MAX_PROOF_SIDE" envDefault:"2048"`
}

type Redis struct {
	Addr       string        `env:"ADDR"`
	Password   string        `env:"PASSWORD"`
	DB         int           `env:"DB" envDefault:"0"`
	CatalogTTL time.Duration `env:"CATALOG_TTL" envDefault:"30s"`
}

type Kafka struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"TOPIC_ORDERS" envDefault:"orders.events"`
}

type Order struct {
	BatchWorkers      int           `env:"BATCH_WORKERS" envDefault:"4"`
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL" envDefault:"5m"`
	ReconcileGrace    time.Duration `env:"RECONCILE_GRACE" envDefault:"10m"`
}

type RateLimit struct {
	OrdersPerSecond float64 `env:"ORDERS_PER_SECOND" envDefault:"5"`
}
