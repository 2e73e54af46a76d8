package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"имя и фамилия", "John Smith", "John S."},
		{"формат фамилия-запятая-имя", "Smith, John", "John S."},
		{"одиночный токен", "alice", "alice"},
		{"лишние пробелы", "  John   Smith  ", "John S."},
		{"три слова", "Mary Ann Jones", "Mary J."},
		{"запятая без имени", "Smith,", "Smith"},
		{"пустая строка", "", ""},
		{"только пробелы", "   ", ""},
		{"нижний регистр фамилии", "john smith", "john S."},
		{"кириллица", "Мария Иванова", "Мария И."},
		{"кириллица через запятую", "Иванова, Мария", "Мария И."},
		{"кириллица в нижнем регистре", "мария иванова", "мария И."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AnonymizeName(tc.in))
		})
	}
}
