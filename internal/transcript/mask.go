package transcript

import "strings"

// noKeyPlaceholder маскируется вместо пустого ключа.
const noKeyPlaceholder = "NO-API-KEY"

// Mask скрывает секрет: до 6 символов включительно всё заменяется на '*',
// иначе остаются первые 4 и последние 2. Длина сохраняется.
func Mask(key string) string {
	r := []rune(key)
	if len(r) <= 6 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:4]) + strings.Repeat("*", len(r)-6) + string(r[len(r)-2:])
}

// DisplayKey маскированный ключ для вывода; пустой ключ показывается как маска NO-API-KEY.
func DisplayKey(key string) string {
	if key == "" {
		key = noKeyPlaceholder
	}
	return Mask(key)
}
