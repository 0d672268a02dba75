package config

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	RPCURL            string        `env:"RPC_URL,default=http://localhost:8545"`
	ChainName         string        `env:"CHAIN_NAME,default=local"`
	SponsorAddress    string        `env:"SPONSOR_ADDRESS,default=0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"`
	SponsorPrivateKey string        `env:"SPONSOR_PRIVATE_KEY"`
	KeySecret         string        `env:"KEY_SECRET"`
	DBUser            string        `env:"DB_USER"`
	DBPassword        string        `env:"DB_PASSWORD"`
	DBName            string        `env:"DB_NAME"`
	DBHost            string        `env:"DB_HOST"`
	DBPort            string        `env:"DB_PORT,default=5432"`
	DiscordURL        string        `env:"DISCORD_URL"`
	ResponseTimeout   time.Duration `env:"RESPONSE_TIMEOUT,default=90s"`
	ReceiptTimeout    time.Duration `env:"RECEIPT_TIMEOUT,default=60s"`
	MaxBodySize       int64         `env:"MAX_BODY_SIZE,default=1048576"`
}

func New(ctx context.Context, envpath string) (*Config, error) {
	if envpath != "" {
		log.WithField("path", envpath).Info("loading env from file")
		err := godotenv.Load(envpath)
		if err != nil {
			return nil, err
		}
	}

	return process(ctx, envconfig.OsLookuper())
}

func process(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: l,
	})
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// UseDB reports whether the sponsor key should be read from the database.
func (c *Config) UseDB() bool {
	return c.SponsorPrivateKey == "" && c.DBHost != ""
}

func (c *Config) Validate() error {
	if c.SponsorPrivateKey == "" && c.DBHost == "" {
		return errors.New("either SPONSOR_PRIVATE_KEY or DB_HOST must be set")
	}

	if c.UseDB() && c.KeySecret == "" {
		return errors.New("KEY_SECRET is required to read sponsor keys from the database")
	}

	if c.ReceiptTimeout >= c.ResponseTimeout {
		return errors.New("RECEIPT_TIMEOUT must be shorter than RESPONSE_TIMEOUT")
	}

	return nil
}
