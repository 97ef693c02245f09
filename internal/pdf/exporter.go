package pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"github.com/h2non/filetype"
)

// stylesheet встраивается в каждый экспортируемый документ: оформление
// задаётся на сервере, а не инлайновыми стилями редактора.
//
//go:embed style.css
var stylesheet string

// fragmentPreviewLen ограничивает длину фрагмента в тексте ошибки.
const fragmentPreviewLen = 120

// ExportError описывает сбой конвертации HTML в PDF. Тело предложения
// при этом не изменяется: экспорт только читает его.
type ExportError struct {
	Fragment string // начало проблемного HTML, если известно
	Cause    error
}

func (e *ExportError) Error() string {
	if e.Fragment != "" {
		return fmt.Sprintf("pdf: конвертация не удалась: %v (фрагмент: %q)", e.Cause, e.Fragment)
	}
	return fmt.Sprintf("pdf: конвертация не удалась: %v", e.Cause)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// Converter превращает полный HTML документ в байты PDF.
// Реализация по умолчанию - wkhtmltopdf, в тестах подменяется фейком.
type Converter interface {
	Convert(ctx context.Context, html string) ([]byte, error)
}

// Exporter превращает HTML фрагмент предложения в PDF документ.
// Экспорт синхронный и блокирующий; таймаут ограничивает время работы
// конвертера на один запрос.
type Exporter struct {
	conv    Converter
	timeout time.Duration
}

// NewExporter создаёт экспортёр поверх конвертера.
func NewExporter(conv Converter, timeout time.Duration) *Exporter {
	return &Exporter{conv: conv, timeout: timeout}
}

// Export конвертирует HTML фрагмент в PDF. Пустой фрагмент даёт
// минимальный валидный документ. Результат проверяется по сигнатуре
// формата, чтобы сбой конвертера не ушёл клиенту как PDF.
func (e *Exporter) Export(ctx context.Context, fragment string) ([]byte, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	out, err := e.conv.Convert(ctx, WrapDocument(fragment))
	if err != nil {
		return nil, &ExportError{Fragment: fragmentPreview(fragment), Cause: err}
	}

	if !filetype.Is(out, "pdf") {
		return nil, &ExportError{
			Fragment: fragmentPreview(fragment),
			Cause:    errors.New("конвертер вернул данные не в формате PDF"),
		}
	}

	return out, nil
}

// WrapDocument оборачивает фрагмент в полный HTML документ со встроенной
// таблицей стилей. Благодаря обёртке даже пустой фрагмент остаётся
// корректным входом для конвертера.
func WrapDocument(fragment string) string {
	var b strings.Builder
	b.Grow(len(fragment) + len(stylesheet) + 256)
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<style>\n")
	b.WriteString(stylesheet)
	b.WriteString("</style>\n</head>\n<body>\n")
	b.WriteString(fragment)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

// fragmentPreview возвращает начало фрагмента для текста ошибки.
func fragmentPreview(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if len(fragment) <= fragmentPreviewLen {
		return fragment
	}
	cut := fragmentPreviewLen
	for cut > 0 && !utf8.RuneStart(fragment[cut]) {
		cut--
	}
	return fragment[:cut] + "..."
}
