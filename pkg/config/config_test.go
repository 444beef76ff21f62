package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Planner.MaxArrangementItems)
	assert.InDelta(t, 0.9, cfg.Planner.NearCapacity, 1e-9)
	assert.InDelta(t, 0.5, cfg.Planner.LowEfficiency, 1e-9)
	assert.EqualValues(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PLANNER_NEAR_CAPACITY", "0.75")
	t.Setenv("PLANNER_MAX_ARRANGEMENT_ITEMS", "50")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.InDelta(t, 0.75, cfg.Planner.NearCapacity, 1e-9)
	assert.Equal(t, 50, cfg.Planner.MaxArrangementItems)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_PlannerInvalido(t *testing.T) {
	t.Setenv("PLANNER_LOW_EFFICIENCY", "1.5")
	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "pallets", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/pallets?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
