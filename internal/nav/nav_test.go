package nav

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JospenWolongwo/barber-shop-website/internal/site"
)

func TestBuildMarksExactlyOneActive(t *testing.T) {
	t.Parallel()

	for _, s := range site.Sections() {
		items := Build(s)
		require.Len(t, items, 7)
		active := 0
		for _, it := range items {
			if it.Active {
				active++
				require.Equal(t, s, it.Section)
			}
		}
		require.Equal(t, 1, active)
	}
}

func TestBuildOrderAndLabels(t *testing.T) {
	t.Parallel()

	items := Build(site.SectionHome)
	require.Equal(t, site.SectionHome, items[0].Section)
	require.Equal(t, "/", items[0].Href)
	require.Equal(t, "nav.testimonials", items[5].LabelKey)
	require.Equal(t, "/?section=testimonials", items[5].Href)
	require.Equal(t, site.SectionContact, items[6].Section)
}

func TestBookNowTargetsContact(t *testing.T) {
	t.Parallel()

	b := BookNow()
	require.Equal(t, site.SectionContact, b.Section)
	require.Equal(t, "/?section=contact", b.Href)
	require.False(t, b.Active)
}
