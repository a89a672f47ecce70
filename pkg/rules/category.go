package rules

import "fmt"

// Category partitions a rule set.
type Category int

const (
	// Rewrite rules transform matching dependencies.
	Rewrite Category = iota
	// Ignore rules drop matching dependencies from the output.
	Ignore
	// Publish rules describe how the rewritten descriptor is published. They
	// are carried along with a set but do not take part in transformation.
	Publish

	categoryCount
)

var categoryNames = [categoryCount]string{
	Rewrite: "rules",
	Ignore:  "ignore",
	Publish: "published",
}

// Categories returns every category in declaration order.
func Categories() []Category {
	return []Category{Rewrite, Ignore, Publish}
}

func (c Category) String() string {
	if c < 0 || c >= categoryCount {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory is the inverse of Category.String.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rule category %q", name)
}
