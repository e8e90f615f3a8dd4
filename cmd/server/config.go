package main

import (
	"time"

	"github.com/revuhub/entitlement/pkg/email"
	"github.com/revuhub/entitlement/pkg/httpserver"
	"github.com/revuhub/entitlement/pkg/pg"
	"github.com/revuhub/entitlement/pkg/redis"
	"github.com/revuhub/entitlement/svc/billing"
)

type appConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"entitlement"`

	// CatalogFile switches the plan catalog to a YAML file. When empty,
	// plans load from the plans table.
	CatalogFile     string        `env:"CATALOG_FILE"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`

	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1h"`

	// EmailDevDir is where the dev sender drops emails when Postmark is
	// not configured.
	EmailDevDir string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`

	HTTP       httpserver.Config
	PG         pg.Config
	Redis      redis.Config
	Email      email.Config
	Paddle     billing.PaddleConfig
	Calculator billing.CalculatorConfig
}
