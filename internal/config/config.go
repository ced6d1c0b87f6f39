package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config armazena a configuração da aplicação
type Config struct {
	ServerPort       int    `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL      string `envconfig:"DATABASE_URL" required:"true"`
	SessionDBPath    string `envconfig:"SESSION_DB_PATH" default:"/tmp/files_manager_sessions"`
	FolderPath       string `envconfig:"FOLDER_PATH" default:"/tmp/files_manager"`
	ThumbnailWorkers int    `envconfig:"THUMBNAIL_WORKERS" default:"2"`
}

// Load carrega a configuração das variáveis de ambiente
func Load(cfg *Config) error {
	return envconfig.Process("", cfg)
}
