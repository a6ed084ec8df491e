package turkishsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "basvuru formu", Normalize("Başvuru Formu"))
	assert.Equal(t, "ilgili", Normalize("İlgili"))
	assert.Equal(t, "cigkofte", Normalize("ÇİĞKÖFTE"))
	assert.Equal(t, "hello world", Normalize("Hello World"))
	assert.Equal(t, "", Normalize(""))
}

func TestSQLFilter(t *testing.T) {
	fragment, args := SQLFilter("title", "Başvuru")

	assert.Contains(t, fragment, "translate(lower(title)")
	assert.Contains(t, fragment, "LIKE")
	assert.Len(t, args, 3)
	assert.Equal(t, "%basvuru%", args[2])
}
