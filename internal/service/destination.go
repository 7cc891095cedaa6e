package service

import (
	"strings"
	"unicode"

	"github.com/Totarae/shortio-linkmaker/internal/model"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const upperhex = "0123456789ABCDEF"

// rawURLEncode кодирует строку по RFC 3986: без экранирования остаются
// только A-Z a-z 0-9 - _ . ~, пробел становится %20.
func rawURLEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}

// BuildDestinationURL добавляет текстовые поля формы к base в виде query.
// Порядок параметров фиксирован, пустые поля сохраняются как "key=".
// Фрагмент base переносится в конец, после query.
func BuildDestinationURL(base string, in model.FormInput) string {
	base, fragment, hasFragment := strings.Cut(base, "#")

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	} else if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	params := in.QueryParams()
	pairs := make([]string, 0, len(params))
	for _, p := range params {
		pairs = append(pairs, p.Key+"="+rawURLEncode(p.Value))
	}
	dest := base + sep + strings.Join(pairs, "&")
	if hasFragment {
		dest += "#" + fragment
	}
	return dest
}

// Slugify приводит строку к виду пути короткой ссылки: без диакритики,
// в нижнем регистре, любые последовательности не букв и не цифр заменяются на '-'.
// Буквы вне ASCII после снятия диакритики тоже заменяются.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildPayload собирает тело запроса создания ссылки.
func BuildPayload(cfg model.EffectiveConfig, in model.FormInput, dest string) model.CreatePayload {
	domain := cfg.Domain
	if domain == "" {
		domain = model.PlaceholderDomain
	}

	title := in.YourTitle
	if title == "" {
		title = "Link"
	}

	payload := model.CreatePayload{
		Domain:      domain,
		OriginalURL: dest,
		Title:       strings.TrimSpace(title + " @ " + in.Company),
		Cloaking:    in.Cloak,
		DomainID:    cfg.DomainID,
	}
	if in.Slug != "" {
		payload.Path = Slugify(in.Slug)
	}
	return payload
}
