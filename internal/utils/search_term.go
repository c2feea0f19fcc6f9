package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SearchTermMaxLen é o tamanho do termo de pesquisa no backend.
const SearchTermMaxLen = 20

// StripAccents remove acentos ("São João" -> "Sao Joao").
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// SearchTerm deriva o termo de pesquisa a partir do nome: sem acento,
// maiúsculo, espaços colapsados e cortado em SearchTermMaxLen runas.
func SearchTerm(name string) string {
	s := strings.Join(strings.Fields(StripAccents(name)), " ")
	s = cases.Upper(language.BrazilianPortuguese).String(s)
	r := []rune(s)
	if len(r) > SearchTermMaxLen {
		r = r[:SearchTermMaxLen]
	}
	return strings.TrimSpace(string(r))
}
