package i18n

import (
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func loadShipped(t *testing.T) *Bundle {
	t.Helper()
	b, err := Load(os.DirFS("../../ui"), "locales", "en", []string{"en", "es"})
	require.NoError(t, err)
	return b
}

func TestResolveHonorsQValues(t *testing.T) {
	t.Parallel()

	b := loadShipped(t)
	require.Equal(t, "es", b.Resolve("fr;q=0.9, es;q=0.8, en;q=0.1"))
	require.Equal(t, "en", b.Resolve("es;q=0.2, en;q=0.9"))
	require.Equal(t, "es", b.Resolve("es-MX"))
	require.Equal(t, "en", b.Resolve("de"))
	require.Equal(t, "en", b.Resolve(""))
	require.Equal(t, "en", b.Resolve(";;;garbage"))
}

func TestTranslateFallsBack(t *testing.T) {
	t.Parallel()

	b := loadShipped(t)
	require.Equal(t, "Reviews", b.T("en", "nav.testimonials"))
	require.Equal(t, "Reseñas", b.T("es", "nav.testimonials"))
	require.Equal(t, "Reviews", b.T("de", "nav.testimonials"))
	require.Equal(t, "missing.key", b.T("es", "missing.key"))
}

func TestShippedLocalesShareKeys(t *testing.T) {
	t.Parallel()

	b := loadShipped(t)
	for key := range b.dict["en"] {
		_, ok := b.dict["es"][key]
		require.True(t, ok, "es is missing %q", key)
	}
	require.Equal(t, []string{"en", "es"}, b.Supported())
}

func TestLoadRequiresFallback(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"locales/es.json": {Data: []byte(`{"a":"b"}`)}}
	_, err := Load(fsys, "locales", "en", []string{"en", "es"})
	require.Error(t, err)

	fsys["locales/en.json"] = &fstest.MapFile{Data: []byte(`{"a":"c"}`)}
	b, err := Load(fsys, "locales", "en", []string{"en", "es", "ja"})
	require.NoError(t, err)
	require.False(t, b.IsSupported("ja"))
	require.Equal(t, "en", b.Resolve("ja"))
}
