package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"filesmanager-backend/internal/models"
	"filesmanager-backend/internal/repository"
	"filesmanager-backend/internal/storage"

	"github.com/google/uuid"
)

// pageSize é o tamanho fixo de página da listagem
const pageSize = 20

// FileService lida com a hierarquia de arquivos: criação, listagem,
// visibilidade e leitura de conteúdo
type FileService struct {
	files  repository.FileStore
	disk   *storage.Disk
	thumbs *ThumbnailQueue
}

// NewFileService cria um novo serviço de arquivos. thumbs pode ser nil
// quando a geração de thumbnails está desligada.
func NewFileService(files repository.FileStore, disk *storage.Disk, thumbs *ThumbnailQueue) *FileService {
	return &FileService{
		files:  files,
		disk:   disk,
		thumbs: thumbs,
	}
}

// CreateFileRequest define os parâmetros para criar um arquivo
type CreateFileRequest struct {
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=folder file image"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data" validate:"required_unless=Type folder"`
}

// CreateFile valida e cria uma pasta, arquivo ou imagem.
// A cadeia de validação falha cedo, sem efeitos colaterais; a única
// exceção documentada é o blob já gravado quando o insert de metadados
// falha (ver comentário abaixo).
func (s *FileService) CreateFile(ctx context.Context, user *models.User, req CreateFileRequest) (*models.File, error) {
	if req.Name == "" {
		return nil, ErrMissingName
	}

	fileType := models.FileType(req.Type)
	if !fileType.Valid() {
		return nil, ErrMissingType
	}

	if fileType.HasContent() && req.Data == "" {
		return nil, ErrMissingData
	}

	parentID := req.ParentID
	if parentID == "" {
		parentID = models.RootParentID
	}

	if parentID != models.RootParentID {
		parent, err := s.files.GetFileByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, repository.ErrFileNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("falha ao buscar pasta pai: %w", err)
		}
		if parent.Type != models.TypeFolder {
			return nil, ErrParentNotFolder
		}
		// Sem checagem de dono da pasta pai: criar sob pasta de outro
		// usuário é permitido; as leituras continuam restritas ao dono
		// de cada entidade.
	}

	if fileType == models.TypeFolder {
		folder := models.NewFolder(user.ID, req.Name, parentID, req.IsPublic)
		if err := s.files.CreateFile(ctx, folder); err != nil {
			return nil, fmt.Errorf("falha ao salvar pasta: %w", err)
		}
		return folder, nil
	}

	raw, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return nil, ErrInvalidData
	}

	localPath, err := s.disk.Write(uuid.New().String(), raw)
	if err != nil {
		return nil, fmt.Errorf("falha ao gravar conteúdo: %w", err)
	}

	file := models.NewContentFile(user.ID, req.Name, fileType, parentID, req.IsPublic, localPath)
	if err := s.files.CreateFile(ctx, file); err != nil {
		// Limitação aceita: o blob já gravado fica órfão em disco
		log.Printf("insert de metadados falhou, blob órfão em %s: %v", localPath, err)
		return nil, fmt.Errorf("falha ao salvar arquivo: %w", err)
	}

	if fileType == models.TypeImage && s.thumbs != nil {
		s.thumbs.Enqueue(localPath)
	}

	return file, nil
}

// GetFile busca um arquivo do próprio usuário
func (s *FileService) GetFile(ctx context.Context, user *models.User, id string) (*models.File, error) {
	file, err := s.files.GetFileByIDAndOwner(ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar arquivo: %w", err)
	}
	return file, nil
}

// ListFiles lista os arquivos do usuário sob parentID, em ordem
// alfabética, em páginas de 20. Nunca falha por pai inexistente ou
// inválido: nesses casos a página volta vazia.
func (s *FileService) ListFiles(ctx context.Context, user *models.User, parentID string, page int) ([]*models.File, error) {
	if parentID == "" {
		parentID = models.RootParentID
	}
	if page < 1 {
		page = 1
	}

	files, err := s.files.ListFilesByParent(ctx, user.ID, parentID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar arquivos: %w", err)
	}
	return files, nil
}

// SetPublic liga ou desliga a visibilidade pública de um arquivo do
// próprio usuário e retorna o registro atualizado. A mesma operação
// atende publish e unpublish.
func (s *FileService) SetPublic(ctx context.Context, user *models.User, id string, isPublic bool) (*models.File, error) {
	if err := s.files.SetFilePublic(ctx, id, user.ID, isPublic); err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("falha ao atualizar visibilidade: %w", err)
	}
	return s.GetFile(ctx, user, id)
}

// ReadContent abre o conteúdo de um arquivo para streaming e resolve o
// MIME pela extensão do nome. requester pode ser nil (sem sessão):
// nesse caso apenas arquivos públicos são legíveis.
func (s *FileService) ReadContent(ctx context.Context, requester *models.User, id, size string) (io.ReadCloser, string, error) {
	file, err := s.files.GetFileByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("falha ao buscar arquivo: %w", err)
	}

	isOwner := requester != nil && requester.ID == file.OwnerID
	if !file.IsPublic && !isOwner {
		// Não revelamos a existência de arquivos privados de terceiros
		return nil, "", ErrNotFound
	}

	if file.Type == models.TypeFolder {
		return nil, "", ErrFolderHasNoContent
	}

	path := file.LocalPath
	if size != "" {
		width, ok := thumbnailWidthFor(size)
		if !ok {
			return nil, "", ErrInvalidSize
		}
		path = storage.ThumbnailPath(path, width)
	}

	reader, err := s.disk.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("falha ao abrir conteúdo: %w", err)
	}

	return reader, storage.ContentType(file.Name), nil
}
