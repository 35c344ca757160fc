package gen

// Config for the running of the commands
type Config struct {
	// php8 (default) or php7
	LanguageVariant string `yaml:"language_variant" toml:"language_variant" json:"language_variant"`
	// Database receiving the tables declared before any USE
	DefaultDatabase string `yaml:"default_database" toml:"default_database" json:"default_database"`
	// Do not add the Database.php connection boilerplate to the output
	NoConnectionFile bool `yaml:"no_connection_file" toml:"no_connection_file" json:"no_connection_file"`
	// Indent unit of the generated code, four spaces when empty
	Indent string `yaml:"indent" toml:"indent" json:"indent"`
	// Treat CREATE DATABASE as a switch to that database instead of ignoring it
	CreateDatabaseSwitches bool `yaml:"create_database_switches" toml:"create_database_switches" json:"create_database_switches"`
	// Check every CREATE TABLE against the full MySQL grammar
	StrictSyntax bool `yaml:"strict_syntax" toml:"strict_syntax" json:"strict_syntax"`
	// Extra base type keywords, mapped to a logical type name
	// e.g. JSON: string
	Types map[string]string `yaml:"types" toml:"types" json:"types"`

	Generator string `yaml:"generator" toml:"generator" json:"generator"`
}

const defaultIndent = "    "

func (c Config) indent() string {
	if c.Indent == "" {
		return defaultIndent
	}
	return c.Indent
}
