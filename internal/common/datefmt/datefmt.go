// Пакет datefmt. Форматирование отметок времени для отображения
package datefmt

import (
	"fmt"
	"strings"
	"time"
)

// Layout - формат отметок времени, в котором их отдает сервис сокращения
const Layout = "2006-01-02 15:04:05"

// InvalidDate - маркер вместо нераспознанной даты
const InvalidDate = "Invalid date"

// Допустимые альтернативные форматы (ISO)
var fallbackLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
}

// FormatDate переводит отметку времени в вид DD/MM/YYYY at HH:MM:SS.
// Ошибка разбора не возвращается: вместо даты выводится InvalidDate
func FormatDate(raw string) string {
	t, ok := parse(strings.TrimSpace(raw))
	if !ok {
		return InvalidDate
	}
	return fmt.Sprintf("%02d/%02d/%04d at %02d:%02d:%02d",
		t.Day(), t.Month(), t.Year(), t.Hour(), t.Minute(), t.Second())
}

func parse(raw string) (time.Time, bool) {
	if t, err := time.Parse(Layout, raw); err == nil {
		return t, true
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
