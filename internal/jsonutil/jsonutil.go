// Package jsonutil общий JSON-кодек: слэши, & и < > не экранируются,
// как в выводе шагов для оператора.
package jsonutil

import (
	"bytes"
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
)

// API кодек без HTML-экранирования.
var API = jsoniter.Config{
	EscapeHTML:             false,
	ValidateJsonRawMessage: true,
}.Froze()

// Compact кодирует v в одну строку.
func Compact(v any) string {
	data, err := API.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// Pretty кодирует v с отступом в четыре пробела.
func Pretty(v any) string {
	data, err := API.MarshalIndent(v, "", "    ")
	if err != nil {
		return ""
	}
	return string(data)
}

// Indent переформатирует уже готовый JSON с сохранением порядка ключей.
// Второй результат false, если raw не является JSON.
func Indent(raw []byte) (string, bool) {
	if !API.Valid(raw) {
		return "", false
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "    "); err != nil {
		return "", false
	}
	return buf.String(), true
}
