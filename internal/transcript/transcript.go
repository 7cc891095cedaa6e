// Package transcript собирает пошаговый отчёт о создании ссылки:
// входные данные, URL назначения, превью запроса, ответ API и результат.
package transcript

import (
	"fmt"
	"strconv"

	"github.com/Totarae/shortio-linkmaker/internal/jsonutil"
	"github.com/Totarae/shortio-linkmaker/internal/model"
)

// Заголовки разделов в порядке вывода.
const (
	TitleInputs   = "Step 1: Inputs"
	TitleDest     = "Step 2: Destination URL (built)"
	TitlePreview  = "Step 3: API Request Preview"
	TitleResponse = "Step 4: API Response"
	TitleResult   = "Step 5: Result"
)

// Тексты уведомлений.
const (
	MsgDryRun        = "(dry run: no request was sent)"
	MsgMissingConfig = "Live call skipped: missing API settings (need API Key and Domain). " +
		"Set them in Settings → Short.io Link Maker, or check “Dry run”."
	MsgNoShortURL = "(No short URL returned.)"
)

// Kind способ отображения записи.
type Kind string

const (
	KindText   Kind = "text"
	KindCode   Kind = "code"
	KindPre    Kind = "pre"
	KindNotice Kind = "notice"
	KindLink   Kind = "link"
	KindImage  Kind = "image"
)

// Level важность уведомления.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Entry одна запись раздела. Value уже готов к выводу и не экранирован.
type Entry struct {
	Kind  Kind
	Label string
	Value string
	Level Level
}

// Section раздел отчёта.
type Section struct {
	Title   string
	Entries []Entry
}

// Transcript отчёт из пяти разделов. Только данные для отображения.
type Transcript struct {
	Sections []Section
}

// Request всё, что нужно для сборки отчёта по одному запуску.
type Request struct {
	Input       model.FormInput
	Destination string
	Endpoint    string
	Payload     model.CreatePayload
	Config      model.EffectiveConfig
	Create      model.CreateResult
	QR          *model.QrResult
}

// inputsView фиксирует порядок ключей в выводе шага 1.
type inputsView struct {
	Company   string `json:"company"`
	Skill1    string `json:"skill1"`
	Skill2    string `json:"skill2"`
	Skill3    string `json:"skill3"`
	Skill4    string `json:"skill4"`
	Skill5    string `json:"skill5"`
	MyTitle   string `json:"mytitle"`
	YourTitle string `json:"yourtitle"`
	Slug      string `json:"slug"`
	Cloak     string `json:"cloak"`
}

// Build собирает отчёт. Все пять разделов присутствуют всегда.
func Build(req Request) Transcript {
	return Transcript{Sections: []Section{
		inputsSection(req),
		{Title: TitleDest, Entries: []Entry{{Kind: KindCode, Value: req.Destination}}},
		previewSection(req),
		responseSection(req.Create),
		resultSection(req.Create, req.QR),
	}}
}

func inputsSection(req Request) Section {
	in := req.Input
	view := inputsView{
		Company:   in.Company,
		Skill1:    in.Skill1,
		Skill2:    in.Skill2,
		Skill3:    in.Skill3,
		Skill4:    in.Skill4,
		Skill5:    in.Skill5,
		MyTitle:   in.MyTitle,
		YourTitle: in.YourTitle,
		Slug:      in.Slug,
		Cloak:     strconv.FormatBool(in.Cloak),
	}
	return Section{Title: TitleInputs, Entries: []Entry{{Kind: KindPre, Value: jsonutil.Pretty(view)}}}
}

func previewSection(req Request) Section {
	masked := DisplayKey(req.Config.APIKey)

	entries := []Entry{
		{Kind: KindCode, Label: "Endpoint", Value: req.Endpoint},
		{Kind: KindPre, Label: "Headers", Value: "Authorization: " + masked + "\nContent-Type: application/json"},
		{Kind: KindPre, Label: "JSON Payload (domain + domainId, cloaking)", Value: jsonutil.Pretty(req.Payload)},
		{Kind: KindPre, Label: "cURL Example", Value: CurlSnippet(req.Endpoint, masked, jsonutil.Compact(req.Payload))},
	}
	if req.Config.DomainIDIgnored() {
		entries = append(entries, Entry{
			Kind:  KindNotice,
			Level: LevelWarning,
			Value: fmt.Sprintf("Domain ID %q is not numeric and was left out of the payload.", req.Config.DomainIDRaw),
		})
	}
	return Section{Title: TitlePreview, Entries: entries}
}

// CurlSnippet пример команды curl с уже маскированным ключом.
func CurlSnippet(endpoint, maskedKey, compactPayload string) string {
	return fmt.Sprintf("curl -sS '%s' \\\n  -H 'Authorization: %s' \\\n  -H 'Content-Type: application/json' \\\n  -d '%s'",
		endpoint, maskedKey, compactPayload)
}

func responseSection(res model.CreateResult) Section {
	var entries []Entry
	switch res.Status {
	case model.StatusDryRun:
		entries = []Entry{{Kind: KindPre, Value: MsgDryRun}}
	case model.StatusMissingConfig:
		entries = []Entry{{Kind: KindNotice, Level: LevelWarning, Value: MsgMissingConfig}}
	case model.StatusTransportError:
		msg := "unknown error"
		if res.Err != nil {
			msg = res.Err.Error()
		}
		entries = []Entry{{Kind: KindNotice, Level: LevelError, Value: "HTTP error: " + msg}}
	default:
		body := res.RawBody
		if pretty, ok := jsonutil.Indent([]byte(res.RawBody)); ok {
			body = pretty
		}
		entries = []Entry{
			{Kind: KindText, Label: "HTTP Status (create)", Value: strconv.Itoa(res.HTTPStatus)},
			{Kind: KindPre, Value: body},
		}
	}
	return Section{Title: TitleResponse, Entries: entries}
}

func resultSection(res model.CreateResult, qr *model.QrResult) Section {
	var entries []Entry
	if res.ShortURL != "" {
		entries = append(entries, Entry{Kind: KindLink, Label: "Short URL", Value: res.ShortURL})
	}
	if qr != nil && qr.DataURI != "" {
		entries = append(entries, Entry{Kind: KindImage, Label: "QR Code", Value: qr.DataURI})
	}
	if len(entries) == 0 {
		entries = []Entry{{Kind: KindText, Value: MsgNoShortURL}}
	}
	return Section{Title: TitleResult, Entries: entries}
}
