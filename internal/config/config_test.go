package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dealmein-server/internal/util"
)

func TestInstance(t *testing.T) {
	clear1 := util.SetEnv("DMI_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := util.SetEnv("DMI_JWT_PRIVATE_KEY", "private2.key")
	defer clear2()

	config = Config{}

	a := assert.New(t)
	cfg := Instance()
	a.Equal("postgres://dealmein@db:5432/dealmein?sslmode=disable", cfg.PGDSN)
	a.Equal(StoreMemory, cfg.Store)
	a.Equal("public.pem", cfg.JWT.PublicKey)
	a.Equal("private2.key", cfg.JWT.PrivateKey)
	a.Equal("debug", cfg.Log.Level)
	a.Equal(2*time.Second, cfg.Engine.TickInterval)
	a.Equal(8*time.Second, cfg.Engine.NextHandDelay)

	// keys missing from the file keep their defaults
	a.Equal(30*time.Second, cfg.Engine.DealInGrace)
	a.Equal("./sql", cfg.MigrationsPath)

	// ensure that it's only loaded once
	_ = os.Setenv("DMI_JWT_PRIVATE_KEY", "private3.key")
	// ensure we aren't using a pointer
	cfg.JWT.PrivateKey = "bad"
	cfg = Instance()
	a.Equal("private2.key", cfg.JWT.PrivateKey)
}

func TestLoad_defaults(t *testing.T) {
	clear1 := util.SetEnv("DMI_CONFIG_FILE", "testdata/missing.yaml")
	defer clear1()

	assert.NoError(t, Load())
	cfg := Instance()
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, time.Second, cfg.Engine.TickInterval)
}

func TestLoad_badStore(t *testing.T) {
	clear1 := util.SetEnv("DMI_CONFIG_FILE", "testdata/missing.yaml")
	defer clear1()
	clear2 := util.SetEnv("DMI_STORE", "redis")
	defer clear2()

	assert.Error(t, Load())
}
