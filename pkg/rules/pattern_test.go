package rules

import "testing"

func TestParsePatternKinds(t *testing.T) {
	tests := []struct {
		tok  string
		want Kind
	}{
		{"*", Wildcard},
		{"", Wildcard},
		{"junit", Literal},
		{"s/.*/debian/", Substitution},
		{`s/1\.0-alpha-.*/1.0-alpha/`, Substitution},
		{"s/no_aop//", Substitution},
	}

	for _, tt := range tests {
		t.Run(tt.tok, func(t *testing.T) {
			p, err := ParsePattern(tt.tok)
			if err != nil {
				t.Fatalf("ParsePattern(%q): %v", tt.tok, err)
			}
			if p.Kind() != tt.want {
				t.Errorf("Kind() = %v, want %v", p.Kind(), tt.want)
			}
		})
	}
}

func TestParsePatternErrors(t *testing.T) {
	for _, tok := range []string{"s/(/x/", "s/abc", "s/a/b", "s/a/b/c"} {
		if _, err := ParsePattern(tok); err == nil {
			t.Errorf("ParsePattern(%q) should fail", tok)
		}
	}
}

func TestPatternMatchAndApply(t *testing.T) {
	tests := []struct {
		name      string
		tok       string
		value     string
		wantMatch bool
		wantApply string
	}{
		{"wildcard", "*", "anything", true, "anything"},
		{"literal equal", "1.0", "1.0", true, "1.0"},
		{"literal differs", "1.0", "1.0.1", false, "1.0.1"},
		{"substitution whole", "s/.*/debian/", "2.4", true, "debian"},
		{"substitution empty value", "s/.*/debian/", "", true, "debian"},
		{"substitution search", `s/1\.0-alpha-.*/1.0-alpha/`, "1.0-alpha-9", true, "1.0-alpha"},
		{"substitution miss", `s/1\.0-alpha-.*/1.0-alpha/`, "1.1", false, "1.1"},
		{"strip classifier", "s/no_aop//", "no_aop", true, ""},
		{"dollar backref", `s/(\d+)\..*/$1.x/`, "3.8.1", true, "3.x"},
		{"sed backref", `s/(\d+)\..*/\1.x/`, "4.12", true, "4.x"},
		{"escaped slash", `s/a\/b/c/`, "a/b", true, "c"},
		{"normalizing rule is stable", `s/3\..*/3.x/`, "3.x", true, "3.x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MustParsePattern(tt.tok)
			if got := p.Match(tt.value); got != tt.wantMatch {
				t.Errorf("Match(%q) = %v, want %v", tt.value, got, tt.wantMatch)
			}
			if got := p.Apply(tt.value); got != tt.wantApply {
				t.Errorf("Apply(%q) = %q, want %q", tt.value, got, tt.wantApply)
			}
		})
	}
}

func TestGoReplacement(t *testing.T) {
	tests := []struct{ in, want string }{
		{"debian", "debian"},
		{"$1.x", "${1}.x"},
		{`\1x`, "${1}x"},
		{"${name}", "${name}"},
		{"cost$", "cost$$"},
		{`a\.b`, "a.b"},
	}
	for _, tt := range tests {
		if got := goReplacement(tt.in); got != tt.want {
			t.Errorf("goReplacement(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
