package storage

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// Disk grava e lê blobs no sistema de arquivos local.
// Cada arquivo lógico aponta para exatamente um blob; não há
// compartilhamento nem contagem de referências.
type Disk struct {
	root string
}

// NewDisk cria um Disk com o diretório raiz dado
func NewDisk(root string) *Disk {
	return &Disk{root: root}
}

// Write grava todos os bytes em um arquivo novo sob a raiz e retorna o
// caminho físico. A gravação é feita em um arquivo temporário seguida
// de rename: ou o blob inteiro fica durável, ou nada fica no destino.
func (d *Disk) Write(name string, data []byte) (string, error) {
	// Criação idempotente da raiz (segura sob chamadas concorrentes)
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return "", fmt.Errorf("falha ao criar diretório de armazenamento: %w", err)
	}

	path := filepath.Join(d.root, name)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("falha ao gravar blob: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("falha ao mover blob para o destino: %w", err)
	}

	return path, nil
}

// Open abre o blob no caminho dado para leitura em stream.
// Erros de "não existe" saem como os.ErrNotExist para o chamador mapear.
func (d *Disk) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ContentType resolve o MIME a partir da extensão do nome do arquivo
func ContentType(name string) string {
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return contentType
}

// ThumbnailPath retorna o caminho da variante de thumbnail de um blob
func ThumbnailPath(localPath string, width int) string {
	return fmt.Sprintf("%s_%d", localPath, width)
}
