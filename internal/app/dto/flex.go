package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt целое, которое приходит числом или строкой; нечисловое значение даёт 0
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	s, ok := flexString(data)
	if !ok {
		*n = 0
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		*n = FlexInt(v)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*n = FlexInt(int(f))
		return nil
	}
	*n = 0
	return nil
}

// FlexFloat дробное с тем же поведением
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s, ok := flexString(data)
	if !ok {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// flexString достаёт текст числа из JSON-числа или JSON-строки
func flexString(data []byte) (string, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", false
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", false
		}
		return strings.TrimSpace(s), true
	}
	if data[0] == '-' || (data[0] >= '0' && data[0] <= '9') {
		return string(data), true
	}
	return "", false
}
