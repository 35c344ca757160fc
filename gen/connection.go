package gen

import (
	_ "embed"
)

// ConnectionFile is the mysqli connection helper the accessors call into
const ConnectionFile = "Database.php"

//go:embed templates/Database.php
var connectionTemplate string

func connectionFile() *OutputFile {
	return staticFile(ConnectionFile, connectionTemplate)
}
