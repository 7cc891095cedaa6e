package transcript

import (
	"fmt"
	"io"
	"strings"
)

// maxImageText сколько символов data URI печатать в текстовом выводе.
const maxImageText = 64

// WriteText печатает отчёт в текстовом виде для CLI.
func (t Transcript) WriteText(w io.Writer) error {
	for i, s := range t.Sections {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "== %s ==\n", s.Title); err != nil {
			return err
		}
		for _, e := range s.Entries {
			if _, err := io.WriteString(w, e.text()); err != nil {
				return err
			}
		}
	}
	return nil
}

// String отчёт целиком в текстовом виде.
func (t Transcript) String() string {
	var b strings.Builder
	_ = t.WriteText(&b)
	return b.String()
}

func (e Entry) text() string {
	value := e.Value
	switch e.Kind {
	case KindNotice:
		value = "[" + strings.ToUpper(string(e.Level)) + "] " + value
	case KindImage:
		if len(value) > maxImageText {
			value = value[:maxImageText] + fmt.Sprintf("... (%d bytes)", len(e.Value))
		}
	}

	switch {
	case e.Label == "":
		return value + "\n"
	case e.Kind == KindPre:
		return e.Label + ":\n" + value + "\n"
	default:
		return e.Label + ": " + value + "\n"
	}
}
