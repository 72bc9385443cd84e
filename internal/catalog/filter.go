package catalog

// Filter is the storefront category selector. The zero value shows every
// category.
type Filter struct {
	selected CategoryID
}

// All reports whether the filter shows every category.
func (f Filter) All() bool { return f.selected == "" }

// Selected returns the active category and whether one is active.
func (f Filter) Selected() (CategoryID, bool) {
	return f.selected, f.selected != ""
}

// Select narrows the view to id. Selecting the active category again, or an
// id outside the fixed set, returns to showing everything.
func (f *Filter) Select(id CategoryID) {
	if id == f.selected || !id.Valid() {
		f.selected = ""
		return
	}
	f.selected = id
}

// Reset shows every category again.
func (f *Filter) Reset() { f.selected = "" }

// Apply returns the products visible under f, keeping their input order.
func (f Filter) Apply(products []Product) []Product {
	return f.ApplyWith(nil, products)
}

// ApplyWith is Apply using c's rules; a nil c uses DefaultRules.
func (f Filter) ApplyWith(c *Classifier, products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.All() || classifierOrDefault(c).Classify(p) == f.selected {
			out = append(out, p)
		}
	}
	return out
}

// Counts returns how many products fall in each category. Every category
// has an entry, possibly zero.
func Counts(products []Product) map[CategoryID]int {
	return defaultClassifier.Counts(products)
}

func (c *Classifier) Counts(products []Product) map[CategoryID]int {
	out := make(map[CategoryID]int, len(Categories))
	for _, id := range Categories {
		out[id] = 0
	}
	for _, p := range products {
		out[c.Classify(p)]++
	}
	return out
}

var defaultClassifier = New(Config{})

func classifierOrDefault(c *Classifier) *Classifier {
	if c == nil {
		return defaultClassifier
	}
	return c
}
