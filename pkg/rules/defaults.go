package rules

// Built-in seed rules.
var (
	// KeepPluginVersionRule leaves plugin versions untouched so they can be
	// filled from the repository later.
	KeepPluginVersionRule = MustParseRule("* * maven-plugin * * *")
	// DebianVersionRule maps every other version to "debian".
	DebianVersionRule = MustParseRule("* * * s/.*/debian/ * *")
)

// Defaults holds seed rules: generic ones applied to every set, and
// package-specific ones selected by target package name.
//
// A Defaults value is constructed explicitly and passed to Set.SeedDefaults;
// there is no process-wide default set.
type Defaults struct {
	generic  [categoryCount][]Rule
	packages map[string]*[categoryCount][]Rule
}

// NewDefaults returns an empty seed collection.
func NewDefaults() *Defaults {
	return &Defaults{packages: make(map[string]*[categoryCount][]Rule)}
}

// BuiltinDefaults returns the language-agnostic seed rules.
func BuiltinDefaults() *Defaults {
	d := NewDefaults()
	d.Add(Rewrite, KeepPluginVersionRule)
	d.Add(Rewrite, DebianVersionRule)
	return d
}

// Add appends a generic seed rule.
func (d *Defaults) Add(cat Category, r Rule) {
	d.generic[cat] = appendUnique(d.generic[cat], r)
}

// AddForPackage appends a seed rule that only applies when seeding for pkg.
func (d *Defaults) AddForPackage(pkg string, cat Category, r Rule) {
	rs, ok := d.packages[pkg]
	if !ok {
		rs = new([categoryCount][]Rule)
		d.packages[pkg] = rs
	}
	rs[cat] = appendUnique(rs[cat], r)
}

// For returns the seeds for pkg in category cat: package-specific rules first,
// then the generic ones.
func (d *Defaults) For(pkg string, cat Category) []Rule {
	var out []Rule
	if rs, ok := d.packages[pkg]; ok && pkg != "" {
		out = append(out, rs[cat]...)
	}
	for _, r := range d.generic[cat] {
		out = appendUnique(out, r)
	}
	return out
}

// Packages returns the names that have package-specific seeds.
func (d *Defaults) Packages() []string {
	names := make([]string, 0, len(d.packages))
	for name := range d.packages {
		names = append(names, name)
	}
	return names
}

func appendUnique(rs []Rule, r Rule) []Rule {
	for _, existing := range rs {
		if existing.Equal(r) {
			return rs
		}
	}
	return append(rs, r)
}
