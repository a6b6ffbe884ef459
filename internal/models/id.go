package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID — нормализованный идентификатор ресурса.
// Бэкенд отдаёт идентификаторы то числом, то строкой, поэтому нормализуем
// оба представления в одну каноническую строковую форму на границе декодирования,
// чтобы выше по коду работало обычное сравнение и ключи map.
type ID string

// ParseID приводит произвольное значение (число, строку, указатель) к ID.
// Возвращает пустой ID, если значение не задано.
func ParseID(v any) ID {
	switch val := v.(type) {
	case nil:
		return ""
	case ID:
		return val
	case string:
		return ID(strings.TrimSpace(val))
	case int:
		return ID(strconv.Itoa(val))
	case int64:
		return ID(strconv.FormatInt(val, 10))
	case float64:
		// JSON-числа приходят как float64; целые печатаем без дробной части.
		if val == float64(int64(val)) {
			return ID(strconv.FormatInt(int64(val), 10))
		}
		return ID(strconv.FormatFloat(val, 'f', -1, 64))
	case json.Number:
		return ID(val.String())
	default:
		return ID(strings.TrimSpace(fmt.Sprintf("%v", val)))
	}
}

// IsZero сообщает, что идентификатор не задан.
func (id ID) IsZero() bool {
	return id == ""
}

func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON принимает и число, и строку.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		*id = ""
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ParseID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON всегда сериализует идентификатор строкой.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}
