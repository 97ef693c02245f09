package editor

// Field описывает поле формы. Поле с флагом Richtext помечено для
// улучшения до редактора; Value остаётся источником истины при отправке.
type Field struct {
	Name        string
	Value       string
	Placeholder string
	Richtext    bool

	hidden bool
}

// Hidden сообщает, спрятано ли поле за richtext поверхностью.
// Скрытое поле не удаляется из формы и участвует в отправке.
func (f *Field) Hidden() bool {
	return f.hidden
}

// Form моделирует форму страницы: поля и подписчиков на отправку.
// Форма живёт в одном потоке событий, блокировок нет.
type Form struct {
	fields   []*Field
	onSubmit []func()
}

// NewForm создаёт форму с переданными полями.
func NewForm(fields ...*Field) *Form {
	return &Form{fields: fields}
}

// Fields возвращает поля формы в порядке объявления.
func (f *Form) Fields() []*Field {
	return f.fields
}

// Field ищет поле по имени, nil если такого нет.
func (f *Form) Field(name string) *Field {
	for _, fld := range f.fields {
		if fld.Name == name {
			return fld
		}
	}
	return nil
}

// OnSubmit подписывает обработчик на отправку формы. Подписка живёт
// столько же, сколько сама форма, снимать её не нужно.
func (f *Form) OnSubmit(fn func()) {
	f.onSubmit = append(f.onSubmit, fn)
}

// Submit эмулирует отправку: сначала срабатывают подписчики, затем
// снимаются значения всех полей, включая скрытые.
func (f *Form) Submit() map[string]string {
	for _, fn := range f.onSubmit {
		fn()
	}

	values := make(map[string]string, len(f.fields))
	for _, fld := range f.fields {
		values[fld.Name] = fld.Value
	}
	return values
}
