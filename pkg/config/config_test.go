package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-x3/pkg/config"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, config.StoreMemory, cfg.Store.Driver)
	assert.Equal(t, 15, cfg.X3.MinFields)
	assert.Equal(t, ",", cfg.X3.DecimalSeparator)
	assert.True(t, cfg.X3.InvalidQuantityAsZero)
	assert.Equal(t, "legacy", cfg.X3.NewLineIndicator)
	assert.Equal(t, []string{"CODE_ARTICLE", "STATUT", "EMPLACEMENT", "ZONE_PK", "UNITE"}, cfg.X3.AggregationKeys)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 16*1024*1024, cfg.HTTP.MaxUploadBytes())
}

func TestFromViper_ListasSeparadasPorComa(t *testing.T) {
	v := viper.New()
	v.Set("X3_SITE_CODES", " CPKU1, CB2TV ,,")
	v.Set("X3_MIN_FIELDS", "20")
	v.Set("STORE_DRIVER", "SQLite")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, []string{"CPKU1", "CB2TV"}, cfg.X3.SiteCodes)
	assert.Equal(t, 20, cfg.X3.MinFields)
	assert.Equal(t, config.StoreSQLite, cfg.Store.Driver)
}

func TestFromViper_DriverDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "mongo")

	_, err := config.FromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "x3", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/x3?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://u@h/db"
	assert.Equal(t, "postgres://u@h/db", c.ConnectionString())
}
