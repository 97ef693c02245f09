package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFragment_KeepsFormatting(t *testing.T) {
	in := "<h2>Предложение</h2><p>Текст с <strong>акцентом</strong> и <em>курсивом</em>.</p><ul><li>пункт</li></ul>"

	out := Fragment(in)

	assert.Contains(t, out, "<h2>Предложение</h2>")
	assert.Contains(t, out, "<strong>акцентом</strong>")
	assert.Contains(t, out, "<li>пункт</li>")
}

func TestFragment_StripsScripts(t *testing.T) {
	in := `<p>Безобидный текст</p><script>alert("xss")</script><p onclick="steal()">ещё</p>`

	out := Fragment(in)

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert")
	assert.NotContains(t, out, "onclick")
	assert.Contains(t, out, "Безобидный текст")
	assert.Contains(t, out, "ещё")
}

func TestFragment_TrimsWhitespace(t *testing.T) {
	out := Fragment("   <p>Hola</p>\n\t")

	assert.Equal(t, "<p>Hola</p>", out)
}

func TestFragment_Empty(t *testing.T) {
	assert.Equal(t, "", Fragment("   \n "))
	assert.Equal(t, "", Fragment(""))
}
