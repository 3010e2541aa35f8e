// Команда staticlint - набор статических проверок для кода интерфейса.
//
// Запуск:
//
//	cd cmd/staticlint && go build -o staticlint . && ./staticlint ../../...
package main

import (
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"honnef.co/go/tools/analysis/lint"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"
)

// extraChecks - отдельные проверки вне класса SA
var extraChecks = map[string]bool{
	"S1028":  true, // fmt.Errorf вместо errors.New(fmt.Sprintf(...))
	"ST1005": true, // текст ошибки с маленькой буквы и без точки
	"ST1016": true, // одинаковые имена получателей методов
}

func main() {
	checks := []*analysis.Analyzer{
		errorsas.Analyzer,     // errors.As со значением вместо указателя
		httpresponse.Analyzer, // resp.Body до проверки ошибки запроса
		lostcancel.Analyzer,   // потерянный cancel контекста
		nilness.Analyzer,
		printf.Analyzer,
		shadow.Analyzer,
		structtag.Analyzer, // теги json и env
		unusedresult.Analyzer,
	}

	// Проверки класса SA целиком
	for _, v := range staticcheck.Analyzers {
		if strings.HasPrefix(v.Analyzer.Name, "SA") {
			checks = append(checks, v.Analyzer)
		}
	}
	for _, analyzers := range [][]*lint.Analyzer{simple.Analyzers, stylecheck.Analyzers} {
		for _, v := range analyzers {
			if extraChecks[v.Analyzer.Name] {
				checks = append(checks, v.Analyzer)
			}
		}
	}

	multichecker.Main(checks...)
}
