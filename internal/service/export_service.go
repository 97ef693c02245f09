package service

import (
	"context"
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/google/uuid"

	"github.com/kpcrm/backend/internal/logger"
	"github.com/kpcrm/backend/internal/models"
	"github.com/kpcrm/backend/internal/pdf"
	"github.com/kpcrm/backend/internal/storage"
)

// ProposalReader описывает минимальный контракт чтения предложений.
type ProposalReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
}

// ExportResult содержит готовый документ и метаданные для отдачи клиенту.
type ExportResult struct {
	Data        []byte
	ContentType string
	FileName    string
	ArchivePath string
}

// ExportService собирает документ предложения в запрошенном формате.
// Экспорт читает сохранённое тело и никогда его не меняет.
type ExportService struct {
	proposals ProposalReader
	exporter  *pdf.Exporter
	archive   *storage.ExportStorage
	markdown  *md.Converter
	hub       ActivityBroadcaster
}

// NewExportService создаёт сервис экспорта.
func NewExportService(proposals ProposalReader, exporter *pdf.Exporter, archive *storage.ExportStorage, hub ActivityBroadcaster) *ExportService {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	return &ExportService{
		proposals: proposals,
		exporter:  exporter,
		archive:   archive,
		markdown:  converter,
		hub:       hub,
	}
}

// Export формирует документ предложения. PDF дополнительно архивируется,
// неудача архивирования не отменяет экспорт.
func (s *ExportService) Export(ctx context.Context, id uuid.UUID, format string) (*ExportResult, error) {
	if _, ok := models.ValidExportFormats[format]; !ok {
		return nil, fmt.Errorf("export service: неизвестный формат %q, ожидается pdf, html или markdown", format)
	}

	proposal, err := s.proposals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var result *ExportResult
	switch format {
	case models.ExportFormatPDF:
		result, err = s.exportPDF(ctx, proposal)
	case models.ExportFormatHTML:
		result = &ExportResult{
			Data:        []byte(pdf.WrapDocument(proposal.Body)),
			ContentType: "text/html; charset=utf-8",
			FileName:    fmt.Sprintf("proposal-%s.html", proposal.ID),
		}
	case models.ExportFormatMarkdown:
		result, err = s.exportMarkdown(proposal)
	}
	if err != nil {
		return nil, err
	}

	announce(s.hub, models.ActivityProposalExported, proposal.ID, proposal.Title)

	return result, nil
}

// RemoveArtifacts удаляет архивные файлы предложения.
func (s *ExportService) RemoveArtifacts(ctx context.Context, proposalID uuid.UUID) error {
	return s.archive.Delete(ctx, proposalID)
}

// exportPDF конвертирует тело в PDF и кладёт копию в архив.
func (s *ExportService) exportPDF(ctx context.Context, proposal *models.Proposal) (*ExportResult, error) {
	data, err := s.exporter.Export(ctx, proposal.Body)
	if err != nil {
		return nil, err
	}

	archivePath, err := s.archive.SavePDF(ctx, proposal.ID, data)
	if err != nil {
		// Документ уже готов: отдаём его, архив просто останется без копии
		if logger.Log != nil {
			logger.Log.WithFields(map[string]interface{}{
				"proposal_id": proposal.ID,
				"error":       err.Error(),
			}).Warn("export service: не удалось сохранить PDF в архив")
		}
		archivePath = ""
	}

	return &ExportResult{
		Data:        data,
		ContentType: "application/pdf",
		FileName:    storage.FileName(proposal.ID),
		ArchivePath: archivePath,
	}, nil
}

// exportMarkdown конвертирует тело в GitHub-flavored markdown.
func (s *ExportService) exportMarkdown(proposal *models.Proposal) (*ExportResult, error) {
	text, err := s.markdown.ConvertString(proposal.Body)
	if err != nil {
		return nil, fmt.Errorf("export service: конвертация в markdown: %w", err)
	}

	return &ExportResult{
		Data:        []byte(text),
		ContentType: "text/markdown; charset=utf-8",
		FileName:    fmt.Sprintf("proposal-%s.md", proposal.ID),
	}, nil
}
