// Package secretlog содержит анализатор, который запрещает передавать
// API-ключ Short.io в логгер без маскирования.
package secretlog

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/types/typeutil"
)

// Analyzer находит вызовы log и zap, среди аргументов которых есть
// идентификатор или поле apiKey, не обёрнутое в Mask или DisplayKey.
var Analyzer = &analysis.Analyzer{
	Name: "secretlog",
	Doc:  "запрещает логировать API-ключ без маскирования",
	Run:  run,
}

// NewAnalyzer возвращает анализатор secretlog.
func NewAnalyzer() *analysis.Analyzer {
	return Analyzer
}

var loggerPackages = map[string]bool{
	"log":             true,
	"log/slog":        true,
	"go.uber.org/zap": true,
}

var maskFuncs = map[string]bool{
	"Mask":       true,
	"DisplayKey": true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	reported := make(map[token.Pos]bool)

	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok || !isLoggerCall(pass, call) {
				return true
			}
			for _, arg := range call.Args {
				checkArg(pass, arg, reported)
			}
			return true
		})
	}
	return nil, nil
}

func isLoggerCall(pass *analysis.Pass, call *ast.CallExpr) bool {
	fn, ok := typeutil.Callee(pass.TypesInfo, call).(*types.Func)
	if !ok || fn.Pkg() == nil {
		return false
	}
	return loggerPackages[fn.Pkg().Path()]
}

func checkArg(pass *analysis.Pass, arg ast.Expr, reported map[token.Pos]bool) {
	ast.Inspect(arg, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.CallExpr:
			return !maskFuncs[calleeName(x)]
		case *ast.SelectorExpr:
			if isSecretName(x.Sel.Name) {
				report(pass, x, x.Sel.Name, reported)
				return false
			}
		case *ast.Ident:
			if isSecretName(x.Name) {
				report(pass, x, x.Name, reported)
			}
		}
		return true
	})
}

func report(pass *analysis.Pass, n ast.Node, name string, reported map[token.Pos]bool) {
	if reported[n.Pos()] {
		return
	}
	reported[n.Pos()] = true
	pass.Reportf(n.Pos(), "значение %s попадает в лог без маскирования", name)
}

func calleeName(call *ast.CallExpr) string {
	switch fun := call.Fun.(type) {
	case *ast.Ident:
		return fun.Name
	case *ast.SelectorExpr:
		return fun.Sel.Name
	}
	return ""
}

func isSecretName(name string) bool {
	n := strings.ToLower(strings.ReplaceAll(name, "_", ""))
	return n == "apikey"
}
