package domain

import "strings"

// CategoryMatch — результат разрешения пользовательской категории.
// Canonical содержит официальное написание категории из известного набора.
type CategoryMatch struct {
	Matched   bool
	Canonical string
}

// categoryAliases — таблица нерегулярных пар единственное/множественное число.
// Ключ и значение в нормализованном виде (верхний регистр).
var categoryAliases = map[string]string{
	"BRAKE":   "BRAKES",
	"LIGHT":   "LIGHTING",
	"LIGHTS":  "LIGHTING",
	"FILTER":  "FILTERS",
	"ENGINES": "ENGINE",
}

// ResolveCategory сопоставляет запрошенную категорию с набором известных,
// допуская расхождения в регистре и простые формы единственного/множественного
// числа. Порядок проверок: точное совпадение, таблица алиасов, общий
// фолбэк по окончанию "S". Функция чистая и детерминированная.
func ResolveCategory(requested string, known []string) CategoryMatch {
	req := normalizeCategory(requested)
	if req == "" {
		return CategoryMatch{}
	}

	normalized := make([]string, len(known))
	for i, k := range known {
		normalized[i] = normalizeCategory(k)
	}

	// Точное совпадение после нормализации
	for i, k := range normalized {
		if req == k {
			return CategoryMatch{Matched: true, Canonical: known[i]}
		}
	}

	// Таблица алиасов для нерегулярных форм
	if alias, ok := categoryAliases[req]; ok {
		for i, k := range normalized {
			if alias == k {
				return CategoryMatch{Matched: true, Canonical: known[i]}
			}
		}
	}

	// Общий фолбэк единственное/множественное число.
	// Запрос во множественном числе: отбрасываем "S" и ищем первую известную
	// категорию с таким префиксом. Иначе добавляем "S" и ищем точное совпадение.
	if strings.HasSuffix(req, "S") {
		prefix := strings.TrimSuffix(req, "S")
		for i, k := range normalized {
			if strings.HasPrefix(k, prefix) {
				return CategoryMatch{Matched: true, Canonical: known[i]}
			}
		}
	} else {
		plural := req + "S"
		for i, k := range normalized {
			if plural == k {
				return CategoryMatch{Matched: true, Canonical: known[i]}
			}
		}
	}

	return CategoryMatch{}
}

func normalizeCategory(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
