// Command staticlint проверяет код Link Maker набором анализаторов.
//
// Политика:
//   - printf, structtag, shadow, nilness, fieldalignment из x/tools;
//   - весь класс SA staticcheck, S1000 из simple (лишний select
//     с одной веткой) и U1000 из unused (неиспользуемый код);
//   - bodyclose для ответов Short.io API;
//   - secretlog: API-ключ попадает в log, slog или zap только через Mask.
//
// Запуск:
//
//	go run ./cmd/staticlint ./...
package main

import (
	"strings"

	"github.com/timakin/bodyclose/passes/bodyclose"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/fieldalignment"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/unused"

	"github.com/Totarae/shortio-linkmaker/cmd/staticlint/secretlog"
)

// simpleChecks проверки из набора simple.
var simpleChecks = []string{"S1000"}

func main() {
	multichecker.Main(analyzers()...)
}

func analyzers() []*analysis.Analyzer {
	list := []*analysis.Analyzer{
		printf.Analyzer,
		structtag.Analyzer,
		shadow.Analyzer,
		nilness.Analyzer,
		fieldalignment.Analyzer,
		bodyclose.Analyzer,
		secretlog.NewAnalyzer(),
	}

	for _, a := range staticcheck.Analyzers {
		if strings.HasPrefix(a.Analyzer.Name, "SA") {
			list = append(list, a.Analyzer)
		}
	}
	for _, a := range simple.Analyzers {
		for _, name := range simpleChecks {
			if a.Analyzer.Name == name {
				list = append(list, a.Analyzer)
			}
		}
	}
	return append(list, unused.Analyzer.Analyzer)
}
