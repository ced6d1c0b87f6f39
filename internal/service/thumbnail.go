package service

import (
	"fmt"
	"log"
	"os"
	"sync"

	"filesmanager-backend/internal/storage"

	"github.com/disintegration/imaging"
)

// thumbnailWidths são as larguras geradas para cada imagem enviada
var thumbnailWidths = []int{500, 250, 100}

func thumbnailWidthFor(size string) (int, bool) {
	switch size {
	case "500":
		return 500, true
	case "250":
		return 250, true
	case "100":
		return 100, true
	}
	return 0, false
}

// ThumbnailQueue gera thumbnails de imagens em segundo plano.
// O upload apenas enfileira; falha de geração nunca falha o upload.
type ThumbnailQueue struct {
	jobs chan string
	wg   sync.WaitGroup
}

// NewThumbnailQueue cria a fila e inicia os workers
func NewThumbnailQueue(workers int) *ThumbnailQueue {
	if workers < 1 {
		workers = 1
	}

	q := &ThumbnailQueue{
		jobs: make(chan string, 64),
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

// Enqueue agenda a geração de thumbnails para o blob em localPath.
// Não bloqueia: com a fila cheia o job é descartado (e logado).
func (q *ThumbnailQueue) Enqueue(localPath string) {
	select {
	case q.jobs <- localPath:
	default:
		log.Printf("fila de thumbnails cheia, descartando %s", localPath)
	}
}

// Close para de aceitar jobs e espera os workers drenarem a fila
func (q *ThumbnailQueue) Close() {
	close(q.jobs)
	q.wg.Wait()
}

func (q *ThumbnailQueue) worker() {
	defer q.wg.Done()
	for localPath := range q.jobs {
		if err := generateThumbnails(localPath); err != nil {
			log.Printf("falha ao gerar thumbnails de %s: %v", localPath, err)
		}
	}
}

// generateThumbnails grava uma variante redimensionada por largura,
// como irmã do blob original (<localPath>_<largura>)
func generateThumbnails(localPath string) error {
	src, err := imaging.Open(localPath)
	if err != nil {
		return fmt.Errorf("falha ao abrir imagem: %w", err)
	}

	for _, width := range thumbnailWidths {
		thumb := imaging.Resize(src, width, 0, imaging.Lanczos)

		// Os blobs não têm extensão, então o formato é fixado em PNG
		out, err := os.Create(storage.ThumbnailPath(localPath, width))
		if err != nil {
			return fmt.Errorf("falha ao criar thumbnail de %d: %w", width, err)
		}
		if err := imaging.Encode(out, thumb, imaging.PNG); err != nil {
			out.Close()
			return fmt.Errorf("falha ao codificar thumbnail de %d: %w", width, err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("falha ao fechar thumbnail de %d: %w", width, err)
		}
	}
	return nil
}
