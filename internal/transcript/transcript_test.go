package transcript_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Totarae/shortio-linkmaker/internal/model"
	"github.com/Totarae/shortio-linkmaker/internal/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", ""},
		{"abc", "***"},
		{"abcdef", "******"},
		{"abcdefg", "abcd*fg"},
		{"abcdefgh", "abcd**gh"},
		{"sk_live_1234567890", "sk_l************90"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := transcript.Mask(tt.key)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, len(tt.key))
		})
	}
}

func TestDisplayKey_Empty(t *testing.T) {
	assert.Equal(t, "NO-A****EY", transcript.DisplayKey(""))
}

func baseRequest() transcript.Request {
	return transcript.Request{
		Input: model.FormInput{
			Company: "Acme",
			Skill1:  "Go",
			Skill2:  "SQL",
			Slug:    "acme",
		},
		Destination: "https://example.org/?company=Acme&skill1=Go&skill2=SQL&skill3=&skill4=&skill5=&mytitle=&yourtitle=",
		Endpoint:    "https://api.short.io/links",
		Payload: model.CreatePayload{
			Domain:      model.PlaceholderDomain,
			OriginalURL: "https://example.org/?company=Acme",
			Title:       "Link @ Acme",
			Path:        "acme",
		},
	}
}

func sectionText(t *testing.T, tr transcript.Transcript, title string) string {
	t.Helper()
	for _, s := range tr.Sections {
		if s.Title == title {
			var b strings.Builder
			for _, e := range s.Entries {
				b.WriteString(e.Label + "|" + e.Value + "\n")
			}
			return b.String()
		}
	}
	t.Fatalf("section %q not found", title)
	return ""
}

func TestBuild_DryRun(t *testing.T) {
	req := baseRequest()
	req.Create = model.CreateResult{Status: model.StatusDryRun}

	tr := transcript.Build(req)
	require.Len(t, tr.Sections, 5)

	titles := make([]string, 0, 5)
	for _, s := range tr.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{
		transcript.TitleInputs,
		transcript.TitleDest,
		transcript.TitlePreview,
		transcript.TitleResponse,
		transcript.TitleResult,
	}, titles)

	inputs := sectionText(t, tr, transcript.TitleInputs)
	assert.Contains(t, inputs, `"company": "Acme"`)
	assert.Contains(t, inputs, `"cloak": "false"`)

	preview := sectionText(t, tr, transcript.TitlePreview)
	assert.Contains(t, preview, "Authorization: NO-A****EY")
	assert.Contains(t, preview, `-d '{"domain":"YOUR-DOMAIN-HERE","originalURL":"https://example.org/?company=Acme","title":"Link @ Acme","cloaking":false,"path":"acme"}'`)

	assert.Contains(t, sectionText(t, tr, transcript.TitleResponse), transcript.MsgDryRun)
	assert.Contains(t, sectionText(t, tr, transcript.TitleResult), transcript.MsgNoShortURL)
}

func TestBuild_NeverLeaksKey(t *testing.T) {
	const key = "sk_live_supersecret_value"
	req := baseRequest()
	req.Config = model.EffectiveConfig{APIKey: key, Domain: "bogar.click"}
	req.Create = model.CreateResult{
		Status:     model.StatusCompleted,
		HTTPStatus: 200,
		RawBody:    `{"shortURL":"https://bogar.click/acme","idString":"lnk_1"}`,
		ShortURL:   "https://bogar.click/acme",
		LinkID:     "lnk_1",
	}
	req.QR = &model.QrResult{DataURI: "data:image/png;base64,iVBOR"}

	tr := transcript.Build(req)
	assert.NotContains(t, tr.String(), key)
	assert.Contains(t, tr.String(), transcript.Mask(key))

	response := sectionText(t, tr, transcript.TitleResponse)
	assert.Contains(t, response, "HTTP Status (create)|200")
	assert.Contains(t, response, "\"shortURL\": \"https://bogar.click/acme\"")

	result := sectionText(t, tr, transcript.TitleResult)
	assert.Contains(t, result, "Short URL|https://bogar.click/acme")
	assert.Contains(t, result, "QR Code|data:image/png;base64,iVBOR")
	assert.NotContains(t, result, transcript.MsgNoShortURL)
}

func TestBuild_ResponseBranches(t *testing.T) {
	t.Run("missing config", func(t *testing.T) {
		req := baseRequest()
		req.Create = model.CreateResult{Status: model.StatusMissingConfig}
		tr := transcript.Build(req)

		e := tr.Sections[3].Entries[0]
		assert.Equal(t, transcript.KindNotice, e.Kind)
		assert.Equal(t, transcript.LevelWarning, e.Level)
		assert.Equal(t, transcript.MsgMissingConfig, e.Value)
	})

	t.Run("transport error", func(t *testing.T) {
		req := baseRequest()
		req.Create = model.CreateResult{Status: model.StatusTransportError, Err: errors.New("dial tcp: connection refused")}
		tr := transcript.Build(req)

		e := tr.Sections[3].Entries[0]
		assert.Equal(t, transcript.LevelError, e.Level)
		assert.Equal(t, "HTTP error: dial tcp: connection refused", e.Value)
	})

	t.Run("non json body shown raw", func(t *testing.T) {
		req := baseRequest()
		req.Create = model.CreateResult{Status: model.StatusCompleted, HTTPStatus: 502, RawBody: "Bad Gateway"}
		tr := transcript.Build(req)

		assert.Contains(t, sectionText(t, tr, transcript.TitleResponse), "|Bad Gateway")
	})
}

func TestBuild_IgnoredDomainID(t *testing.T) {
	req := baseRequest()
	req.Config = model.EffectiveConfig{DomainIDRaw: "abc"}
	req.Create = model.CreateResult{Status: model.StatusDryRun}

	tr := transcript.Build(req)
	assert.Contains(t, sectionText(t, tr, transcript.TitlePreview), `Domain ID "abc" is not numeric`)
}

func TestWriteText(t *testing.T) {
	req := baseRequest()
	req.Create = model.CreateResult{Status: model.StatusDryRun}

	out := transcript.Build(req).String()
	assert.True(t, strings.HasPrefix(out, "== Step 1: Inputs ==\n{\n"))
	assert.Contains(t, out, "Endpoint: https://api.short.io/links\n")
	assert.Contains(t, out, "cURL Example:\ncurl -sS 'https://api.short.io/links' \\\n  -H 'Authorization: NO-A****EY' \\\n")
	assert.Contains(t, out, "== Step 5: Result ==\n(No short URL returned.)\n")
}
