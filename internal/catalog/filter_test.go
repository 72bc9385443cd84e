package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var sampleProducts = []Product{
	{ID: StringID("1"), Name: "Teak Charpai", Price: 4500},
	{ID: StringID("2"), Name: "Ker Sangri Pack 200g", Price: 250},
	{ID: StringID("3"), Name: "Brass Idol", Price: 1200},
	{ID: StringID("4"), Name: "Hand Embroidered Dupatta", Price: 900},
	{ID: StringID("5"), Name: "Sheesham Stool", Price: 1800},
}

func ids(ps []Product) []ProductID {
	out := make([]ProductID, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter_Transitions(t *testing.T) {
	var f Filter
	assert.True(t, f.All())

	f.Select(Wood)
	got, ok := f.Selected()
	assert.True(t, ok)
	assert.Equal(t, Wood, got)

	f.Select(Metal)
	got, _ = f.Selected()
	assert.Equal(t, Metal, got)

	// selecting the active category toggles back to all
	f.Select(Metal)
	assert.True(t, f.All())

	f.Select(Dry)
	f.Select(CategoryID("toys"))
	assert.True(t, f.All())

	f.Select(Dry)
	f.Reset()
	assert.True(t, f.All())
}

func TestFilter_ApplyKeepsOrder(t *testing.T) {
	var f Filter
	assert.Equal(t, ids(sampleProducts), ids(f.Apply(sampleProducts)))

	f.Select(Wood)
	assert.Equal(t, []ProductID{StringID("1"), StringID("5")}, ids(f.Apply(sampleProducts)))

	f.Select(Embroidery)
	assert.Equal(t, []ProductID{StringID("4")}, ids(f.Apply(sampleProducts)))

	assert.Empty(t, f.Apply(nil))
}

func TestCounts(t *testing.T) {
	counts := Counts(sampleProducts)
	assert.Equal(t, map[CategoryID]int{Embroidery: 1, Dry: 1, Wood: 2, Metal: 1}, counts)

	empty := Counts(nil)
	assert.Len(t, empty, len(Categories))
	for _, id := range Categories {
		assert.Zero(t, empty[id])
	}
}

func TestClassifier_Listings(t *testing.T) {
	c := New(Config{ImageBaseURL: "https://api.example.com", OrderPhone: "98290 12345"})
	products := []Product{
		{ID: StringID("7"), Name: "Ker Sangri", Price: 300, Image: "/uploads/ks.jpg"},
		{ID: StringID("8"), Name: "Plain Item", Price: 10},
	}

	var f Filter
	ls := c.Listings(f, products)
	if assert.Len(t, ls, 2) {
		assert.Equal(t, Dry, ls[0].CategoryID)
		assert.Equal(t, Dry.Label(), ls[0].CategoryLabel)
		if assert.NotNil(t, ls[0].Badge) {
			assert.Equal(t, BadgePopular, *ls[0].Badge)
		}
		assert.Equal(t, "https://api.example.com/uploads/ks.jpg", ls[0].ImageURL)
		assert.NotNil(t, ls[0].OrderLink)
		assert.Equal(t, "/uploads/ks.jpg", ls[0].Image, "stored image must not change")

		assert.Nil(t, ls[1].Badge)
		assert.Equal(t, DefaultPlaceholderImage, ls[1].ImageURL)
	}

	f.Select(Dry)
	assert.Len(t, c.Listings(f, products), 1)
}
