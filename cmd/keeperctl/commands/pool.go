package commands

import (
	"os"

	"github.com/benoit-pierre/lanes/config"
	"github.com/benoit-pierre/lanes/keeper"
)

// defaultPoolConfig is used when configPath doesn't exist yet, so a fresh
// checkout can run `keeperctl send`/`receive`/`dump` before ever running
// `keeperctl init`.
func defaultPoolConfig() *config.PoolConfig {
	return &config.PoolConfig{Keepers: 1, GCThreshold: -1}
}

func loadPoolConfig() (*config.PoolConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return defaultPoolConfig(), nil
	}
	return config.Load(configPath)
}

// openPool loads configPath (or falls back to a single-Keeper, GC-disabled
// default) and constructs a Pool plus one Linda bound to group 0.
func openPool(lindaName string) (*keeper.Pool, *keeper.Linda, error) {
	cfg, err := loadPoolConfig()
	if err != nil {
		return nil, nil, err
	}
	pool := keeper.NewPool(cfg.Keepers, cfg.GCThreshold)
	// The demo CLI always talks to group 0; routing across groups is a
	// library concern this one-shot tool has no reason to expose.
	linda, err := keeper.NewLinda(pool, lindaName, 0)
	if err != nil {
		pool.Shutdown()
		return nil, nil, err
	}
	return pool, linda, nil
}
