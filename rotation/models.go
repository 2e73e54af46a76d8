package rotation

import (
	"time"
)

// RotationRecord представляет метрики ротации комнат одного пользователя
type RotationRecord struct {
	Username           string  // Имя пользователя
	TotalActions       int     // Общее количество действий
	UniqueRooms        int     // Количество уникальных комнат
	StatusChanges      int     // Количество реальных изменений статуса
	RoomUniquenessRate float64 // Доля уникальных комнат: unique_rooms / total_actions
	RotationQuality    string  // Категория качества ротации (Very Low, Low, Moderate, High)
	RoomRandomness     float64 // Комплемент индекса Херфиндаля распределения посещений, [0, 1]
	RoomRandomnessRank int     // Плотный ранг по убыванию randomness, равные значения делят ранг
}

// RotationConfig содержит параметры алгоритма оценки ротации
type RotationConfig struct {
	VeryLowEdge          float64 // Граница "Very Low" (rate < VeryLowEdge)
	LowEdge              float64 // Граница "Low" (VeryLowEdge <= rate < LowEdge)
	ModerateEdge         float64 // Граница "Moderate" (LowEdge <= rate < ModerateEdge, выше - "High")
	MinActionsForCallout int     // Минимум действий для попадания в callout
	CalloutSize          int     // Количество худших пользователей в callout
}

// RotationResult содержит результаты оценки ротации
type RotationResult struct {
	Records         []RotationRecord // Записи всех пользователей в порядке представления
	Callouts        []RotationRecord // Худшие пользователи с достаточным объемом действий
	CalloutFloor    int              // Порог действий, применявшийся при отборе callout
	CalculationDate time.Time        // Дата расчета
}

// DefaultConfig возвращает конфигурацию оценки ротации по умолчанию
func DefaultConfig() RotationConfig {
	return RotationConfig{
		VeryLowEdge:          0.20,
		LowEdge:              0.40,
		ModerateEdge:         0.60,
		MinActionsForCallout: 10,
		CalloutSize:          8,
	}
}
