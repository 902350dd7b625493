package observability

import (
	"github.com/caarlos0/env/v10"
)

// LoadEnv загружает OTEL-настройки из переменных окружения
// ServiceName/DeploymentEnvironment/ServiceVersion заполняет вызывающий
func LoadEnv(cfg *Config) error {
	return env.Parse(cfg)
}
