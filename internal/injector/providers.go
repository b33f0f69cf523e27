package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/gravityfield/internal/core/gravity"
	"github.com/zeusync/gravityfield/internal/core/observability/log"
)

// ConfigPath is the gravity config file; empty means defaults plus environment.
type ConfigPath string

func ProvideConfig(path ConfigPath) (gravity.Config, error) {
	return gravity.LoadConfigFile(string(path))
}

func ProvideLogger(cfg gravity.Config) (*log.Logger, error) {
	return log.NewWithConfig(cfg.Log)
}

func ProvideDirector(finder gravity.Finder, cfg gravity.Config, logger log.Log) (*gravity.Director, error) {
	return gravity.NewDirector(finder, cfg, logger)
}

var DirectorSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideDirector,
)

// App bundles what a process needs to answer gravity queries.
type App struct {
	Config   gravity.Config
	Logger   *log.Logger
	Director *gravity.Director
}
