package render

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// MissingPolicy определяет поведение движка при плейсхолдере без значения.
type MissingPolicy string

const (
	// MissingEmpty подставляет пустую строку вместо незаданной переменной.
	MissingEmpty MissingPolicy = "empty"
	// MissingError прерывает рендер, если встречена незаданная переменная.
	MissingError MissingPolicy = "error"
)

// ParsePolicy преобразует строку конфигурации в политику подстановки.
// Пустая строка трактуется как политика по умолчанию (empty).
func ParsePolicy(s string) (MissingPolicy, error) {
	switch MissingPolicy(s) {
	case MissingEmpty, MissingError:
		return MissingPolicy(s), nil
	case "":
		return MissingEmpty, nil
	}
	return "", fmt.Errorf("render: неизвестная политика подстановки %q, ожидается empty или error", s)
}

// SyntaxError описывает ошибку разбора шаблона либо, при политике error,
// список переменных без значения. Ошибка всегда относится к одному вызову
// рендера и не затрагивает другие операции.
type SyntaxError struct {
	Pos     int      // позиция начала проблемного токена, в символах
	Token   string   // проблемный токен, если его удалось выделить
	Missing []string // переменные без значения (политика error)
	reason  string
}

func (e *SyntaxError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("render: не заданы переменные шаблона: %s", strings.Join(e.Missing, ", "))
	}
	if e.Token != "" {
		return fmt.Sprintf("render: %s: %q (позиция %d)", e.reason, e.Token, e.Pos)
	}
	return fmt.Sprintf("render: %s (позиция %d)", e.reason, e.Pos)
}

// identRE описывает допустимое имя переменной: буквы, цифры, подчёркивание.
// Имена регистрозависимы.
var identRE = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Engine выполняет подстановку переменных в тело шаблона.
// Движок не имеет состояния между вызовами: одинаковые входы дают
// одинаковый результат.
type Engine struct {
	policy MissingPolicy
}

// NewEngine создаёт движок с политикой подстановки по умолчанию.
func NewEngine(policy MissingPolicy) *Engine {
	if policy == "" {
		policy = MissingEmpty
	}
	return &Engine{policy: policy}
}

// Policy возвращает политику подстановки движка.
func (e *Engine) Policy() MissingPolicy {
	return e.policy
}

// Render подставляет значения переменных в тело шаблона согласно
// политике движка.
func (e *Engine) Render(body string, vars map[string]string) (string, error) {
	return e.RenderWith(body, vars, e.policy)
}

// RenderWith подставляет значения переменных с явно заданной политикой.
// Каждый распознанный плейсхолдер заменяется на значение из vars; текст вне
// плейсхолдеров сохраняется без изменений.
func (e *Engine) RenderWith(body string, vars map[string]string, policy MissingPolicy) (string, error) {
	tokens, err := scan(body)
	if err != nil {
		return "", err
	}

	var (
		b       strings.Builder
		missing = map[string]struct{}{}
	)
	b.Grow(len(body))

	for _, tok := range tokens {
		b.WriteString(tok.pre)
		if tok.name == "" {
			continue
		}
		if v, ok := vars[tok.name]; ok {
			b.WriteString(v)
			continue
		}
		// Значение не задано: пустая строка либо накапливаем для ошибки.
		if policy == MissingError {
			missing[tok.name] = struct{}{}
		}
	}

	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)
		return "", &SyntaxError{Missing: names, reason: "не заданы переменные"}
	}

	return b.String(), nil
}

// Vars возвращает имена переменных шаблона в порядке первого появления,
// без дубликатов. Синтаксическая ошибка шаблона возвращается как SyntaxError.
func Vars(body string) ([]string, error) {
	tokens, err := scan(body)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	names := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.name == "" {
			continue
		}
		if _, ok := seen[tok.name]; ok {
			continue
		}
		seen[tok.name] = struct{}{}
		names = append(names, tok.name)
	}
	return names, nil
}

// token хранит литеральный текст и следующий за ним плейсхолдер.
// У последнего токена name пустой: это хвост шаблона.
type token struct {
	pre  string
	name string
}

// scan разбирает тело шаблона на литеральные куски и плейсхолдеры.
// Открытая скобка без парной закрывающей и токен с недопустимым именем
// считаются синтаксической ошибкой. Одиночная закрывающая скобка вне
// плейсхолдера остаётся обычным текстом.
func scan(body string) ([]token, error) {
	var tokens []token
	rest := body
	offset := 0

	for {
		open := strings.Index(rest, openDelim)
		if open < 0 {
			tokens = append(tokens, token{pre: rest})
			return tokens, nil
		}

		closing := strings.Index(rest[open+len(openDelim):], closeDelim)
		if closing < 0 {
			return nil, &SyntaxError{
				Pos:    runePos(body, offset+open),
				reason: "незакрытый плейсхолдер",
			}
		}

		raw := rest[open : open+len(openDelim)+closing+len(closeDelim)]
		name := strings.TrimSpace(rest[open+len(openDelim) : open+len(openDelim)+closing])
		if !identRE.MatchString(name) {
			return nil, &SyntaxError{
				Pos:    runePos(body, offset+open),
				Token:  raw,
				reason: "недопустимое имя переменной",
			}
		}

		tokens = append(tokens, token{pre: rest[:open], name: name})
		consumed := open + len(raw)
		rest = rest[consumed:]
		offset += consumed
	}
}

// runePos переводит байтовое смещение в позицию в символах.
func runePos(body string, byteOffset int) int {
	return utf8.RuneCountInString(body[:byteOffset])
}
