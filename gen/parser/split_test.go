package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input  string
		config SplitConfig
		want   []string
	}{
		"simple": {
			input:  "a;b;c;",
			config: StatementSplit,
			want:   []string{"a", "b", "c"},
		},
		"delimiter in single quotes": {
			input:  "a;'x;y';c;",
			config: StatementSplit,
			want:   []string{"a", "'x;y'", "c"},
		},
		"other quotes": {
			input:  "a \"x;y\";b `p;q`;",
			config: StatementSplit,
			want:   []string{"a \"x;y\"", "b `p;q`"},
		},
		"mixed quotes do not close": {
			input:  `a 'x";y';b;`,
			config: StatementSplit,
			want:   []string{`a 'x";y'`, "b"},
		},
		"escaped quote": {
			input:  `a 'it\'s;';b;`,
			config: StatementSplit,
			want:   []string{`a 'it\'s;'`, "b"},
		},
		"no trailing delimiter": {
			input:  "a;b",
			config: StatementSplit,
			want:   []string{"a", "b"},
		},
		"empty statement kept": {
			input:  "a;;b;",
			config: StatementSplit,
			want:   []string{"a", "", "b"},
		},
		"untrimmed": {
			input:  " a ; b ",
			config: SplitConfig{Delimiter: ";"},
			want:   []string{" a ", " b "},
		},
		"default delimiter": {
			input:  "a;b;",
			config: SplitConfig{Trim: true},
			want:   []string{"a", "b"},
		},
		"block comment removed": {
			input:  "a /* x; y */ b;c;",
			config: StatementSplit,
			want:   []string{"a   b", "c"},
		},
		"line comments removed": {
			input:  "-- first; line\na\n# second; line\nb;",
			config: StatementSplit,
			want:   []string{"a\n\nb"},
		},
		"comments kept": {
			input:  "a -- x;\n;b;",
			config: SplitConfig{Delimiter: ";", Trim: true},
			want:   []string{"a -- x;", "b"},
		},
		"comment opener in quotes": {
			input:  "a '--x;';b;",
			config: StatementSplit,
			want:   []string{"a '--x;'", "b"},
		},
		"trailing comment": {
			input:  "a; -- done",
			config: StatementSplit,
			want:   []string{"a"},
		},
		"delimiter change": {
			input:  "a;\nDELIMITER $$\nb; c$$\nDELIMITER ;\nd;",
			config: StatementSplit,
			want:   []string{"a", "b; c", "d"},
		},
		"delimiter change lower case at end": {
			input:  "a;\ndelimiter //",
			config: StatementSplit,
			want:   []string{"a"},
		},
		"line comment after delimiter change": {
			input:  "DELIMITER $$ -- switch\na;b$$\nDELIMITER ;\nc;",
			config: StatementSplit,
			want:   []string{"a;b", "c"},
		},
		"hash comment after delimiter change": {
			input:  "DELIMITER $$ # switch\na;b$$\n",
			config: StatementSplit,
			want:   []string{"a;b"},
		},
		"block comment after delimiter change": {
			input:  "DELIMITER $$ /* x */\na;b$$\n",
			config: StatementSplit,
			want:   []string{"a;b"},
		},
		"comment after delimiter change kept": {
			input:  "DELIMITER $$ -- switch\na;b$$",
			config: SplitConfig{Delimiter: ";", Trim: true, AllowDelimiterChange: true},
			want:   []string{"a;b"},
		},
		"delimiter change disabled": {
			input:  "DELIMITER $$\na;",
			config: SplitConfig{Delimiter: ";", Trim: true},
			want:   []string{"DELIMITER $$\na"},
		},
		"delimiter word as prefix": {
			input:  "delimiters;",
			config: StatementSplit,
			want:   []string{"delimiters"},
		},
		"definitions": {
			input:  "id INT NOT NULL, price DECIMAL(10,2), state ENUM('a,b', 'c')",
			config: DefinitionSplit,
			want: []string{
				"id INT NOT NULL",
				"price DECIMAL(10,2)",
				"state ENUM('a,b', 'c')",
			},
		},
		"nested brackets": {
			input:  "a ({[,]}), b",
			config: DefinitionSplit,
			want:   []string{"a ({[,]})", "b"},
		},
		"multi character delimiter": {
			input:  "a$$b $ c$$",
			config: SplitConfig{Delimiter: "$$"},
			want:   []string{"a", "b $ c"},
		},
		"non ascii": {
			input:  "jméno 'ř;ž';b",
			config: StatementSplit,
			want:   []string{"jméno 'ř;ž'", "b"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := Split(tc.input, tc.config)
			if err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestSplitUnmatchedBracket(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"unopened":   "a), b",
		"mismatched": "a (], b",
		"crossed":    "a ([)], b",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := Split(input, DefinitionSplit)
			if !errors.Is(err, ErrUnmatchedBracket) {
				t.Fatalf("want unmatched bracket error, got: %v", err)
			}
			if got != nil {
				t.Fatalf("expected no statements, got %v", got)
			}
		})
	}
}

func TestSplitBracketsIgnoredWhenDisabled(t *testing.T) {
	t.Parallel()

	got, err := Split("a), b", SplitConfig{Delimiter: ",", Trim: true})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"a)", "b"}, got); diff != "" {
		t.Fatal(diff)
	}
}
