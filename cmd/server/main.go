package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filesmanager-backend/internal/api"
	"filesmanager-backend/internal/config"
	"filesmanager-backend/internal/repository"
	"filesmanager-backend/internal/service"
	"filesmanager-backend/internal/session"
	"filesmanager-backend/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	// Carrega o .env antes da configuração; em produção as variáveis
	// podem vir direto do ambiente (Docker/K8s)
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Não foi possível carregar o arquivo .env: %v. (Usando variáveis de ambiente existentes)", err)
	}

	var cfg config.Config
	if err := config.Load(&cfg); err != nil {
		log.Fatalf("Falha ao carregar configuração: %v", err)
	}

	// Camada de repositório (PostgreSQL): usuários + metadados de arquivos
	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelInit()

	store, err := repository.NewPostgresStore(initCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Falha ao conectar ao banco de dados: %v", err)
	}
	defer store.Close()

	migrationSQL, err := os.ReadFile("./migrations/001_init.sql")
	if err != nil {
		log.Fatalf("Falha ao ler arquivo de migração: %v", err)
	}
	if err := store.RunMigrations(initCtx, string(migrationSQL)); err != nil {
		log.Printf("Aviso ao rodar migrações: %v. (Continuando...)", err)
	} else {
		log.Println("Migrações do banco de dados aplicadas com sucesso.")
	}

	// Store de sessões (BadgerDB): tokens com TTL de 24h
	sessions, err := session.NewBadgerStore(cfg.SessionDBPath)
	if err != nil {
		log.Fatalf("Falha ao abrir o banco de sessões: %v", err)
	}
	defer sessions.Close()
	log.Printf("Banco de sessões aberto em %s", cfg.SessionDBPath)

	// Fila de thumbnails em segundo plano
	thumbs := service.NewThumbnailQueue(cfg.ThumbnailWorkers)
	defer thumbs.Close()

	// Camada de serviço
	disk := storage.NewDisk(cfg.FolderPath)
	authService := service.NewAuthService(store, sessions)
	fileService := service.NewFileService(store, disk, thumbs)

	// Camada de API
	handler := api.NewHandler(authService, fileService, store, sessions)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Servidor iniciado em http://localhost:%d", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Erro ao iniciar servidor: %v", err)
		}
	}()

	// Aguardar sinal de interrupção
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Recebido sinal de desligamento, encerrando servidor...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Erro no graceful shutdown: %v", err)
	}
	log.Println("Servidor encerrado.")
}
