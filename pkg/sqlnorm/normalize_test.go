package sqlnorm

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercase keywords uppercased",
			input: "select id from users where id = 1",
			want:  "SELECT id FROM users WHERE id = 1",
		},
		{
			name:  "whitespace collapsed",
			input: "SELECT   id\n\tFROM    users",
			want:  "SELECT id FROM users",
		},
		{
			name:  "line comment stripped",
			input: "SELECT id -- pick the key\nFROM users",
			want:  "SELECT id FROM users",
		},
		{
			name:  "block comment stripped",
			input: "SELECT /* hint: use index */ id FROM users",
			want:  "SELECT id FROM users",
		},
		{
			name:  "multiline block comment stripped",
			input: "SELECT id /* spans\nlines */ FROM users",
			want:  "SELECT id FROM users",
		},
		{
			name:  "operator spacing added",
			input: "SELECT * FROM t WHERE x>1",
			want:  "SELECT * FROM t WHERE x > 1",
		},
		{
			name:  "two-char operators kept whole",
			input: "SELECT * FROM t WHERE a<>b AND c >=2",
			want:  "SELECT * FROM t WHERE a <> b AND c >= 2",
		},
		{
			name:  "comma spacing standardized",
			input: "SELECT a ,b,c FROM t",
			want:  "SELECT a, b, c FROM t",
		},
		{
			name:  "leading and trailing space trimmed",
			input: "  SELECT 1  ",
			want:  "SELECT 1",
		},
		{
			name:  "garbage passes through",
			input: "not even sql",
			want:  "NOT even sql",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"select a, b from t1 join t2 on t1.id=t2.id where x > 1 -- tail",
		"SELECT * FROM users",
		"update t set a=1 where b<>2",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalize_EquivalentForms(t *testing.T) {
	a := Normalize("SELECT * FROM users WHERE age > 30")
	b := Normalize("select    *\nfrom users\nwhere age>30")
	if a != b {
		t.Errorf("equivalent forms normalized differently: %q vs %q", a, b)
	}
}

func TestSplitTopLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple list",
			input: "a, b, c",
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "commas inside parentheses ignored",
			input: "a, COALESCE(b, c), d",
			want:  []string{"a", "COALESCE(b, c)", "d"},
		},
		{
			name:  "nested parentheses",
			input: "f(g(a, b), c), d",
			want:  []string{"f(g(a, b), c)", "d"},
		},
		{
			name:  "empty elements dropped",
			input: "a, , b",
			want:  []string{"a", "b"},
		},
		{
			name:  "single element",
			input: "a",
			want:  []string{"a"},
		},
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitTopLevel(tt.input, ',')
			if !equalStrings(got, tt.want) {
				t.Errorf("SplitTopLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitTopLevelAnd(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "two conjuncts",
			input: "a = 1 AND b = 2",
			want:  []string{"a = 1", "b = 2"},
		},
		{
			name:  "case insensitive",
			input: "a = 1 and b = 2",
			want:  []string{"a = 1", "b = 2"},
		},
		{
			name:  "and inside parentheses ignored",
			input: "(a = 1 AND b = 2) AND c = 3",
			want:  []string{"(a = 1 AND b = 2)", "c = 3"},
		},
		{
			name:  "or not split",
			input: "a = 1 OR b = 2",
			want:  []string{"a = 1 OR b = 2"},
		},
		{
			name:  "identifier containing and not split",
			input: "brand = 'x' AND c = 3",
			want:  []string{"brand = 'x'", "c = 3"},
		},
		{
			name:  "single predicate",
			input: "a = 1",
			want:  []string{"a = 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitTopLevelAnd(tt.input)
			if !equalStrings(got, tt.want) {
				t.Errorf("SplitTopLevelAnd(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	got := CollapseWhitespace("  a\t b \n c  ")
	if got != "a b c" {
		t.Errorf("CollapseWhitespace = %q, want %q", got, "a b c")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
