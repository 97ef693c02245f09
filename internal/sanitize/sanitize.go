package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	fragmentPolicyOnce sync.Once
	fragmentPolicy     *bluemonday.Policy
)

// Fragment очищает HTML фрагмент, пришедший из richtext редактора, и
// обрезает пробелы по краям. Скрипты, обработчики событий и опасные
// атрибуты удаляются; разметка форматирования сохраняется.
func Fragment(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(fragmentSanitizer().Sanitize(trimmed))
}

// fragmentSanitizer собирает политику для пользовательского HTML один раз.
// За основу взята UGC политика bluemonday: базовое форматирование, заголовки,
// списки, таблицы и ссылки.
func fragmentSanitizer() *bluemonday.Policy {
	fragmentPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()

		// Инлайновые стили редактора не пропускаем, оформление задаёт
		// таблица стилей при экспорте.
		policy.AllowAttrs("class").Globally()
		policy.AllowElements("section", "figure", "figcaption", "u", "s")
		policy.AllowTables()
		policy.AllowImages()
		policy.AllowRelativeURLs(true)
		policy.RequireNoFollowOnLinks(true)

		fragmentPolicy = policy
	})
	return fragmentPolicy
}
