package processor

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// AnonymizeName приводит персональное имя к обезличенной форме "First L.".
// Формат "Last, First" предварительно разворачивается в "First Last".
// Одиночный токен возвращается как есть, пустое значение - пустой строкой.
func AnonymizeName(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}
	s = whitespaceRe.ReplaceAllString(s, " ")

	// Обрабатываем формат "Фамилия, Имя"
	if idx := strings.Index(s, ","); idx >= 0 {
		last := strings.TrimSpace(s[:idx])
		first := strings.TrimSpace(s[idx+1:])
		if first == "" {
			s = last
		} else {
			s = first + " " + last
		}
	}

	parts := strings.Split(s, " ")
	if len(parts) == 1 {
		return parts[0]
	}

	// Инициал — первая руна фамилии, а не первый байт: срез байта
	// ломает многобайтовые буквы
	r, _ := utf8.DecodeRuneInString(parts[len(parts)-1])
	return parts[0] + " " + strings.ToUpper(string(r)) + "."
}
