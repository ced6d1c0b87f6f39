package models

import (
	"github.com/google/uuid"
)

// FileType enumera os tipos aceitos de entidade de arquivo
type FileType string

const (
	TypeFolder FileType = "folder"
	TypeFile   FileType = "file"
	TypeImage  FileType = "image"
)

// RootParentID é o sentinela de "raiz": arquivos sem pasta pai
const RootParentID = "0"

// Valid informa se o tipo é um dos aceitos
func (t FileType) Valid() bool {
	switch t {
	case TypeFolder, TypeFile, TypeImage:
		return true
	}
	return false
}

// HasContent informa se o tipo carrega bytes físicos em disco.
// Pastas são apenas metadados.
func (t FileType) HasContent() bool {
	return t == TypeFile || t == TypeImage
}

// User representa um usuário no sistema (criado fora deste serviço)
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Nunca expor em JSON
}

// File representa uma pasta, um arquivo ou uma imagem.
// LocalPath é um detalhe interno de armazenamento: além do json:"-",
// os construtores abaixo garantem que pastas nunca tenham LocalPath e
// que arquivos/imagens sempre tenham.
type File struct {
	ID        string   `json:"id"`
	OwnerID   string   `json:"userId"`
	Name      string   `json:"name"`
	Type      FileType `json:"type"`
	IsPublic  bool     `json:"isPublic"`
	ParentID  string   `json:"parentId"`
	LocalPath string   `json:"-"` // Nunca expor em JSON
}

// NewFolder cria uma pasta (sem blob físico)
func NewFolder(ownerID, name, parentID string, isPublic bool) *File {
	if parentID == "" {
		parentID = RootParentID
	}
	return &File{
		ID:       uuid.New().String(),
		OwnerID:  ownerID,
		Name:     name,
		Type:     TypeFolder,
		IsPublic: isPublic,
		ParentID: parentID,
	}
}

// NewContentFile cria um arquivo ou imagem apontando para o blob em localPath
func NewContentFile(ownerID, name string, fileType FileType, parentID string, isPublic bool, localPath string) *File {
	if parentID == "" {
		parentID = RootParentID
	}
	return &File{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      name,
		Type:      fileType,
		IsPublic:  isPublic,
		ParentID:  parentID,
		LocalPath: localPath,
	}
}
