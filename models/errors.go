package models

import (
	"fmt"
	"strings"
)

// SchemaError возникает, когда во входной таблице отсутствуют обязательные
// колонки. Сообщение перечисляет все отсутствующие колонки, а не только первую.
type SchemaError struct {
	Table   string   // Название таблицы
	Missing []string // Все отсутствующие колонки
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("таблица %q: отсутствуют обязательные колонки: %s",
		e.Table, strings.Join(e.Missing, ", "))
}

// SourceNotFoundError возникает, когда входной файл не существует.
// Проверяется до любого разбора данных.
type SourceNotFoundError struct {
	Path string // Путь к отсутствующему файлу
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("входной файл не найден: %s", e.Path)
}
