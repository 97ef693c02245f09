package pdf

import (
	"context"
	"fmt"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// WkhtmlConverter конвертирует HTML через бинарник wkhtmltopdf.
// Бинарник ищется в PATH, либо путь задаётся явно через конфигурацию.
type WkhtmlConverter struct {
	binaryPath string
}

// NewWkhtmlConverter создаёт конвертер. binaryPath может быть пустым,
// тогда бинарник ищется стандартным способом.
func NewWkhtmlConverter(binaryPath string) *WkhtmlConverter {
	if binaryPath != "" {
		wkhtmltopdf.SetPath(binaryPath)
	}
	return &WkhtmlConverter{binaryPath: binaryPath}
}

// Convert выполняет конвертацию. Вызов блокирующий и ограничивается
// только переданным контекстом.
func (c *WkhtmlConverter) Convert(ctx context.Context, html string) ([]byte, error) {
	gen, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("pdf: wkhtmltopdf недоступен: %w", err)
	}

	gen.Dpi.Set(96)
	gen.PageSize.Set(wkhtmltopdf.PageSizeA4)
	gen.MarginTop.Set(15)
	gen.MarginBottom.Set(15)
	gen.MarginLeft.Set(15)
	gen.MarginRight.Set(15)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(html))
	page.Encoding.Set("utf-8")
	page.DisableJavascript.Set(true)
	page.DisableLocalFileAccess.Set(true)
	gen.AddPage(page)

	if err := gen.CreateContext(ctx); err != nil {
		return nil, fmt.Errorf("pdf: wkhtmltopdf завершился с ошибкой: %w", err)
	}

	return gen.Bytes(), nil
}
