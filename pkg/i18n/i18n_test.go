package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslator(t *testing.T) {
	en := New(false)
	de := New(true)

	assert.Equal(t, "Nearby Stations", en.T("nearby.stations"))
	assert.Equal(t, "Nahegelegene Stationen", de.T("nearby.stations"))
	assert.Equal(t, "Gleis", de.T("platform"))
	assert.Equal(t, "Now", en.T("now"))
	assert.Equal(t, "Jetzt", de.T("now"))
	assert.True(t, de.German())
}

func TestTranslator_UnknownKeyFallsBack(t *testing.T) {
	assert.Equal(t, "does.not.exist", New(true).T("does.not.exist"))
	assert.Equal(t, "does.not.exist", New(false).Tf("does.not.exist", 3))
}

func TestTranslator_Format(t *testing.T) {
	assert.Equal(t, "5min", New(false).Tf("minutes", 5))
	assert.Equal(t, "Zürich HB zu Favoriten hinzugefügt", New(true).Tf("favorite.added", "Zürich HB"))
}

func TestEveryKeyHasBothLanguages(t *testing.T) {
	for _, key := range Keys() {
		m := messages[key]
		assert.NotEmpty(t, m.en, "english for %s", key)
		assert.NotEmpty(t, m.de, "german for %s", key)
	}
}
