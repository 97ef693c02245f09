package editor

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

// fakeSurface эмулирует richtext поверхность.
type fakeSurface struct {
	html      string
	listeners []func()
}

func (s *fakeSurface) HTML() string { return s.html }

// SetHTML имитирует правку пользователя: содержимое меняется и срабатывает
// событие изменения.
func (s *fakeSurface) SetHTML(v string) {
	s.html = v
	for _, fn := range s.listeners {
		fn()
	}
}

// setSilent меняет содержимое без события изменения, как будто оно запоздало.
func (s *fakeSurface) setSilent(v string) {
	s.html = v
}

func (s *fakeSurface) OnChange(fn func()) {
	s.listeners = append(s.listeners, fn)
}

// fakeLibrary эмулирует внешнюю richtext библиотеку.
type fakeLibrary struct {
	surfaces  []*fakeSurface
	opts      []SurfaceOptions
	failMount func(SurfaceOptions) error
}

func (l *fakeLibrary) Name() string { return "quill" }

func (l *fakeLibrary) Mount(opts SurfaceOptions) (Surface, error) {
	if l.failMount != nil {
		if err := l.failMount(opts); err != nil {
			return nil, err
		}
	}
	s := &fakeSurface{html: opts.InitialHTML}
	l.surfaces = append(l.surfaces, s)
	l.opts = append(l.opts, opts)
	return s, nil
}

func newTestAdapter(lib Library) (*Adapter, *test.Hook) {
	log, hook := test.NewNullLogger()
	return New(lib, log), hook
}

func TestAdapter_Bootstrap_RoundTrip(t *testing.T) {
	lib := &fakeLibrary{}
	a, _ := newTestAdapter(lib)

	field := &Field{Name: "body", Value: "<p>Hola</p>", Placeholder: "Текст предложения", Richtext: true}
	form := NewForm(field)

	enhancements := a.Bootstrap(form)

	assert.Len(t, enhancements, 1)
	assert.Equal(t, StateActive, enhancements[0].State())
	// Поверхность показывает исходное содержимое, поле не изменилось.
	assert.Equal(t, "<p>Hola</p>", enhancements[0].Surface().HTML())
	assert.Equal(t, "<p>Hola</p>", field.Value)
	assert.True(t, field.Hidden())
	assert.Equal(t, "Текст предложения", lib.opts[0].Placeholder)
}

func TestAdapter_Bootstrap_TrimsInitialValue(t *testing.T) {
	lib := &fakeLibrary{}
	a, _ := newTestAdapter(lib)

	field := &Field{Name: "body", Value: "  <p>Hola</p>\n\t", Richtext: true}
	a.Bootstrap(NewForm(field))

	assert.Equal(t, "<p>Hola</p>", lib.opts[0].InitialHTML)
}

func TestAdapter_ChangeEventSyncsBackingField(t *testing.T) {
	lib := &fakeLibrary{}
	a, _ := newTestAdapter(lib)

	field := &Field{Name: "body", Value: "<p>Hola</p>", Richtext: true}
	form := NewForm(field)
	a.Bootstrap(form)

	lib.surfaces[0].SetHTML("<p>Nuevo</p>")

	// Скрытое поле обновляется сразу, до события отправки.
	assert.Equal(t, "<p>Nuevo</p>", field.Value)
}

func TestAdapter_ChangeEventTrimsValue(t *testing.T) {
	lib := &fakeLibrary{}
	a, _ := newTestAdapter(lib)

	field := &Field{Name: "body", Richtext: true}
	a.Bootstrap(NewForm(field))

	lib.surfaces[0].SetHTML("  <p>Nuevo</p>  ")

	assert.Equal(t, "<p>Nuevo</p>", field.Value)
}

func TestAdapter_SubmitResyncsWithoutChangeEvent(t *testing.T) {
	lib := &fakeLibrary{}
	a, _ := newTestAdapter(lib)

	field := &Field{Name: "body", Value: "<p>Старое</p>", Richtext: true}
	form := NewForm(field)
	a.Bootstrap(form)

	// Содержимое изменилось, но событие изменения не пришло.
	lib.surfaces[0].setSilent("<p>Новое</p>")
	values := form.Submit()

	assert.Equal(t, "<p>Новое</p>", values["body"])
	assert.Equal(t, "<p>Новое</p>", field.Value)
}

func TestAdapter_MultipleFieldsIndependent(t *testing.T) {
	lib := &fakeLibrary{}
	a, _ := newTestAdapter(lib)

	summary := &Field{Name: "summary", Value: "<p>Кратко</p>", Richtext: true}
	body := &Field{Name: "body", Value: "<p>Подробно</p>", Richtext: true}
	form := NewForm(summary, body)
	a.Bootstrap(form)

	lib.surfaces[0].SetHTML("<p>Другое</p>")

	assert.Equal(t, "<p>Другое</p>", summary.Value)
	assert.Equal(t, "<p>Подробно</p>", body.Value, "чужое поле меняться не должно")
}

func TestAdapter_SkipsUnmarkedFields(t *testing.T) {
	lib := &fakeLibrary{}
	a, _ := newTestAdapter(lib)

	title := &Field{Name: "title", Value: "КП для Ромашки"}
	body := &Field{Name: "body", Richtext: true}
	enhancements := a.Bootstrap(NewForm(title, body))

	assert.Len(t, enhancements, 1)
	assert.Equal(t, "body", enhancements[0].Field().Name)
	assert.False(t, title.Hidden())
}

func TestAdapter_MissingLibrary_FallsBackWithSingleDiagnostic(t *testing.T) {
	a, hook := newTestAdapter(nil)

	fields := []*Field{
		{Name: "summary", Value: "<p>Раз</p>", Richtext: true},
		{Name: "body", Value: "<p>Два</p>", Richtext: true},
		{Name: "notes", Value: "<p>Три</p>", Richtext: true},
	}
	form := NewForm(fields...)

	enhancements := a.Bootstrap(form)

	for i, enh := range enhancements {
		assert.Equal(t, StateDisabled, enh.State())
		assert.Nil(t, enh.Surface())
		assert.False(t, fields[i].Hidden(), "поле должно остаться обычным")
	}
	// Значения не тронуты.
	assert.Equal(t, "<p>Раз</p>", fields[0].Value)
	assert.Equal(t, "<p>Два</p>", fields[1].Value)
	assert.Equal(t, "<p>Три</p>", fields[2].Value)

	// Ровно одна диагностика, сколько бы полей ни было.
	assert.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestAdapter_MissingLibrary_SecondFormDoesNotRepeatDiagnostic(t *testing.T) {
	a, hook := newTestAdapter(nil)

	a.Bootstrap(NewForm(&Field{Name: "body", Richtext: true}))
	a.Bootstrap(NewForm(&Field{Name: "summary", Richtext: true}))

	assert.Len(t, hook.Entries, 1)
}

func TestAdapter_MountFailureDoesNotBlockOthers(t *testing.T) {
	lib := &fakeLibrary{
		failMount: func(opts SurfaceOptions) error {
			if opts.Placeholder == "сломанное" {
				return errors.New("mount failed")
			}
			return nil
		},
	}
	a, hook := newTestAdapter(lib)

	broken := &Field{Name: "summary", Value: "<p>A</p>", Placeholder: "сломанное", Richtext: true}
	healthy := &Field{Name: "body", Value: "<p>B</p>", Richtext: true}
	form := NewForm(broken, healthy)

	enhancements := a.Bootstrap(form)

	assert.Equal(t, StateDisabled, enhancements[0].State())
	assert.Equal(t, "<p>A</p>", broken.Value)
	assert.False(t, broken.Hidden())

	assert.Equal(t, StateActive, enhancements[1].State())
	lib.surfaces[0].SetHTML("<p>Ок</p>")
	assert.Equal(t, "<p>Ок</p>", healthy.Value)

	assert.NotEmpty(t, hook.Entries)
}

func TestForm_SubmitCollectsHiddenFields(t *testing.T) {
	lib := &fakeLibrary{}
	a, _ := newTestAdapter(lib)

	body := &Field{Name: "body", Value: "<p>Hola</p>", Richtext: true}
	title := &Field{Name: "title", Value: "Заголовок"}
	form := NewForm(title, body)
	a.Bootstrap(form)

	values := form.Submit()

	assert.Equal(t, "Заголовок", values["title"])
	assert.Equal(t, "<p>Hola</p>", values["body"], "скрытое поле уходит вместе с формой")
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "active", StateActive.String())
	assert.Equal(t, "disabled", StateDisabled.String())
}
