package shortio

import (
	"encoding/base64"
	"mime"
	"strings"

	"github.com/Totarae/shortio-linkmaker/internal/jsonutil"
)

// Ключи JSON-ответа, в которых может лежать изображение, по приоритету.
// Формат ответа QR у Short.io не зафиксирован, поэтому разбор эвристический.
var qrKeys = []string{"data", "content", "image", "base64"}

const defaultQRMime = "image/png"

// NormalizeQR приводит ответ QR-эндпоинта к data URI:
//  1. JSON-объект с непустой строкой под одним из qrKeys: data URI как есть
//     либо base64 PNG;
//  2. иначе тело считается бинарным изображением, MIME берётся из
//     Content-Type, если это image/*, иначе image/png.
//
// Пустое тело даёт "".
func NormalizeQR(body []byte, contentType string) string {
	var decoded map[string]any
	if err := jsonutil.API.Unmarshal(body, &decoded); err == nil {
		for _, key := range qrKeys {
			value, ok := decoded[key].(string)
			if !ok || value == "" {
				continue
			}
			if strings.HasPrefix(value, "data:image") {
				return value
			}
			return "data:" + defaultQRMime + ";base64," + value
		}
	}

	if len(body) == 0 {
		return ""
	}
	return "data:" + imageMime(contentType) + ";base64," + base64.StdEncoding.EncodeToString(body)
}

func imageMime(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	if strings.HasPrefix(mediaType, "image/") {
		return mediaType
	}
	return defaultQRMime
}
