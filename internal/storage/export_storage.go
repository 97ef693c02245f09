package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ExportStorage отвечает за файловый архив экспортированных PDF.
// Повторный экспорт предложения перезаписывает прежний файл.
type ExportStorage struct {
	rootPath string
}

// NewExportStorage создаёт файловый архив.
func NewExportStorage(rootPath string) (*ExportStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &ExportStorage{rootPath: rootPath}, nil
}

// Root возвращает корень архива для раздачи статики.
func (s *ExportStorage) Root() string {
	return s.rootPath
}

// FileName возвращает имя PDF-файла предложения в архиве.
func FileName(proposalID uuid.UUID) string {
	return fmt.Sprintf("proposal-%s.pdf", proposalID.String())
}

// SavePDF кладёт PDF предложения в архив и возвращает относительный путь.
// Запись идёт через временный файл, чтобы под раздачу не попал
// недописанный документ.
func (s *ExportStorage) SavePDF(ctx context.Context, proposalID uuid.UUID, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fileName := FileName(proposalID)
	targetPath := filepath.Join(s.rootPath, fileName)
	tempPath := targetPath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: ошибка записи файла: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return fileName, nil
}

// Delete удаляет архивный PDF предложения. Отсутствие файла не ошибка.
func (s *ExportStorage) Delete(ctx context.Context, proposalID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.rootPath, FileName(proposalID))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить файл: %w", err)
	}
	return nil
}
