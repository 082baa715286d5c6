// Package slug 根据标题生成 URL 友好的 slug。
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	invalidChars    = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace      = regexp.MustCompile(`\s+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Make 将标题转换为 slug：去掉变音符号，只保留 [a-z0-9-]。
//
//	Make("Título con Ñ, tildes!") == "titulo-con-n-tildes"
//
// 若标题中的字母全部为非拉丁字符，则先音译为 ASCII 再处理。
func Make(title string) string {
	s := clean(title)
	if s == "" && hasLetter(title) {
		s = clean(unidecode.Unidecode(title))
	}
	return s
}

func clean(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	result = strings.ToLower(result)
	result = invalidChars.ReplaceAllString(result, "")
	result = strings.TrimSpace(result)
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
