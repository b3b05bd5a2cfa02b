package http

import (
	"strings"
)

// sanitizeInput drops control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// downloadName is the attachment name of an exported report.
func downloadName(kind, month, ext string) string {
	return "relatorio-" + kind + "-" + month + "." + ext
}
