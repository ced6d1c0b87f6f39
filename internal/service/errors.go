package service

import "errors"

// Erros estáveis expostos ao cliente. As mensagens são o motivo curto
// que vai no corpo da resposta; nunca expomos caminhos internos.
var (
	ErrUnauthorized = errors.New("Unauthorized")
	ErrNotFound     = errors.New("Not found")

	ErrMissingName        = errors.New("Missing name")
	ErrMissingType        = errors.New("Missing type")
	ErrMissingData        = errors.New("Missing data")
	ErrInvalidData        = errors.New("Invalid data")
	ErrInvalidSize        = errors.New("Invalid size")
	ErrParentNotFound     = errors.New("Parent not found")
	ErrParentNotFolder    = errors.New("Parent is not a folder")
	ErrFolderHasNoContent = errors.New("A folder doesn't have content")
)

// IsBadRequest informa se o erro mapeia para um 400
func IsBadRequest(err error) bool {
	for _, target := range []error{
		ErrMissingName,
		ErrMissingType,
		ErrMissingData,
		ErrInvalidData,
		ErrInvalidSize,
		ErrParentNotFound,
		ErrParentNotFolder,
		ErrFolderHasNoContent,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
