package constants

import "strings"

// PDFExtension is the only document type the engine renames.
const PDFExtension = "pdf"

// DefaultMaxPages bounds how many leading pages feed text extraction.
const DefaultMaxPages = 3

// RecognizerTextCap bounds how much text is handed to the entity
// recognizer on a single document.
const RecognizerTextCap = 10000

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
