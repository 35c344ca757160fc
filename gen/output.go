package gen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//nolint:gochecknoglobals
var testHarnessWriteFile = os.WriteFile

// OutputFile is a named text buffer that tracks an indentation level.
// Each write may move the level before and after the text is emitted,
// so a line opening a block raises it and the line closing it lowers it.
type OutputFile struct {
	Name string

	indent  string
	level   int
	content strings.Builder
}

func NewOutputFile(name, indent string) *OutputFile {
	return &OutputFile{Name: name, indent: indent}
}

// staticFile holds fixed content, written as is
func staticFile(name, content string) *OutputFile {
	f := &OutputFile{Name: name}
	f.content.WriteString(content)
	return f
}

// Write emits text after the current indent. Blank text gets no indent.
func (o *OutputFile) Write(text string, before, after int) {
	o.level = max(o.level+before, 0)
	if strings.TrimSpace(text) != "" {
		o.content.WriteString(strings.Repeat(o.indent, o.level))
	}
	o.content.WriteString(text)
	o.level = max(o.level+after, 0)
}

func (o *OutputFile) WriteLine(line string, before, after int) {
	o.Write(line+"\n", before, after)
}

// Line writes a line at the current level
func (o *OutputFile) Line(format string, args ...any) {
	o.WriteLine(sprintf(format, args...), 0, 0)
}

// Open writes a line that opens a block
func (o *OutputFile) Open(format string, args ...any) {
	o.WriteLine(sprintf(format, args...), 0, 1)
}

// Close writes a line that closes a block
func (o *OutputFile) Close(format string, args ...any) {
	o.WriteLine(sprintf(format, args...), -1, 0)
}

// Body writes a single indented line, the body of an unbraced statement
func (o *OutputFile) Body(format string, args ...any) {
	o.WriteLine(sprintf(format, args...), 1, -1)
}

// Blank writes an empty line
func (o *OutputFile) Blank() {
	o.WriteLine("", 0, 0)
}

// TrimEnd removes trailing whitespace from the content
func (o *OutputFile) TrimEnd() {
	trimmed := strings.TrimRight(o.content.String(), " \t\r\n")
	o.content.Reset()
	o.content.WriteString(trimmed)
}

func (o *OutputFile) Content() string {
	return o.content.String()
}

// Level is the current indentation level
func (o *OutputFile) Level() int {
	return o.level
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// Files are the generated outputs, in generation order
type Files []*OutputFile

// Get a file by name, nil if it was not generated
func (f Files) Get(name string) *OutputFile {
	for _, file := range f {
		if file.Name == name {
			return file
		}
	}
	return nil
}

func (f Files) Names() []string {
	names := make([]string, len(f))
	for i, file := range f {
		names[i] = file.Name
	}
	return names
}

// Map of file name to content
func (f Files) Map() map[string]string {
	m := make(map[string]string, len(f))
	for _, file := range f {
		m[file.Name] = file.Content()
	}
	return m
}

// WriteFiles writes every file into the folder, creating it if needed
func WriteFiles(outFolder string, files Files) error {
	if err := os.MkdirAll(outFolder, os.ModePerm); err != nil {
		return fmt.Errorf("creating output folder %s: %w", outFolder, err)
	}

	for _, file := range files {
		path := filepath.Join(outFolder, file.Name)
		if err := testHarnessWriteFile(path, []byte(file.Content()), 0o664); err != nil {
			return fmt.Errorf("failed to write output file %s: %w", path, err)
		}
	}

	return nil
}
