package editor

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// SurfaceOptions выводятся из самого поля, отдельного объекта настроек нет.
type SurfaceOptions struct {
	InitialHTML string // обрезанное начальное значение поля
	Placeholder string // подсказка поля, если была
}

// Surface - смонтированная richtext поверхность поверх одного поля.
type Surface interface {
	// HTML возвращает текущее сериализованное содержимое.
	HTML() string
	// SetHTML заменяет содержимое поверхности.
	SetHTML(s string)
	// OnChange подписывает обработчик на изменение содержимого.
	OnChange(fn func())
}

// Library - внешняя richtext библиотека. Её наличие проверяется один раз
// при инициализации страницы, а не на каждом поле.
type Library interface {
	Name() string
	Mount(opts SurfaceOptions) (Surface, error)
}

// State описывает состояние улучшения одного помеченного поля.
type State int

const (
	// StateUninitialized - поле ещё не обработано.
	StateUninitialized State = iota
	// StateActive - поверхность смонтирована и синхронизирует поле.
	StateActive
	// StateDisabled - улучшение не состоялось, поле осталось обычным.
	// Состояние терминальное, перехода обратно нет.
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateDisabled:
		return "disabled"
	default:
		return "uninitialized"
	}
}

// Enhancement связывает поверхность со скрытым полем. Активное улучшение
// живёт до конца страницы: перехода Active -> Disabled не существует.
type Enhancement struct {
	field   *Field
	surface Surface
	state   State
}

// State возвращает текущее состояние улучшения.
func (e *Enhancement) State() State {
	return e.state
}

// Field возвращает поле, за которым закреплено улучшение.
func (e *Enhancement) Field() *Field {
	return e.field
}

// Surface возвращает смонтированную поверхность, nil если поле Disabled.
func (e *Enhancement) Surface() Surface {
	return e.surface
}

// sync переносит сериализованный HTML поверхности в скрытое поле.
// Значение всегда обрезается по краям.
func (e *Enhancement) sync() {
	if e.state != StateActive {
		return
	}
	e.field.Value = strings.TrimSpace(e.surface.HTML())
}

// Adapter прогрессивно улучшает помеченные поля формы. Все переходы
// выполняются в потоке событий вызывающей стороны, блокировок нет.
type Adapter struct {
	lib    Library
	log    *logrus.Logger
	warned bool
}

// New создаёт адаптер. lib равный nil означает, что richtext библиотека
// на странице отсутствует: поля останутся обычным текстом.
func New(lib Library, log *logrus.Logger) *Adapter {
	return &Adapter{lib: lib, log: log}
}

// Bootstrap обходит помеченные поля формы и монтирует поверхность для
// каждого. Поля независимы: сбой одного не мешает остальным. Возвращает
// улучшения в порядке полей формы.
func (a *Adapter) Bootstrap(form *Form) []*Enhancement {
	var enhancements []*Enhancement
	for _, field := range form.Fields() {
		if !field.Richtext {
			continue
		}
		enhancements = append(enhancements, a.enhance(form, field))
	}
	return enhancements
}

// enhance выполняет переход Uninitialized -> Active либо Disabled для
// одного поля.
func (a *Adapter) enhance(form *Form, field *Field) *Enhancement {
	enh := &Enhancement{field: field, state: StateUninitialized}

	if a.lib == nil {
		// Диагностика пишется один раз на страницу, сколько бы полей
		// ни было помечено.
		a.warnMissingLibrary()
		enh.state = StateDisabled
		return enh
	}

	surface, err := a.lib.Mount(SurfaceOptions{
		InitialHTML: strings.TrimSpace(field.Value),
		Placeholder: field.Placeholder,
	})
	if err != nil {
		if a.log != nil {
			a.log.WithFields(logrus.Fields{
				"field": field.Name,
				"error": err.Error(),
			}).Warn("editor: не удалось смонтировать поверхность, поле остаётся обычным")
		}
		enh.state = StateDisabled
		return enh
	}

	// Поле прячется внутрь обёртки, но не удаляется: его значение
	// по-прежнему уходит с формой.
	field.hidden = true
	enh.surface = surface
	enh.state = StateActive

	surface.OnChange(enh.sync)
	// Страховочная синхронизация перед отправкой: правка не теряется,
	// даже если событие изменения запоздало.
	form.OnSubmit(enh.sync)

	return enh
}

// warnMissingLibrary пишет единственную диагностику об отсутствии библиотеки.
func (a *Adapter) warnMissingLibrary() {
	if a.warned {
		return
	}
	a.warned = true
	if a.log != nil {
		a.log.Warn("editor: richtext библиотека недоступна, помеченные поля остаются обычным текстом")
	}
}
