package i18n

import "sync/atomic"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var messages = map[string]map[string]string{
	"en": {
		"invalid_type":          "invalid type",
		"duplicate_key":         "duplicate key",
		"discriminator_unknown": "no discriminator matched",
		"union_ambiguous":       "more than one discriminator matched",
		"unregistered_type":     "abstract type has no registered discriminators",
		"configuration":         "invalid discriminator configuration",
		"parse_error":           "parse error",
		"overflow":              "number out of range",
		"truncated":             "truncated",
	},
	"ja": {
		"invalid_type":          "型が不正です",
		"duplicate_key":         "キーが重複しています",
		"discriminator_unknown": "一致する判別子がありません",
		"union_ambiguous":       "複数の判別子が一致しました",
		"unregistered_type":     "抽象型に判別子が登録されていません",
		"configuration":         "判別子の設定が不正です",
		"parse_error":           "解析エラー",
		"overflow":              "数値が範囲外です",
		"truncated":             "打ち切られました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	if m, ok := messages[t.lang][code]; ok {
		return m
	}
	return code
}

type holder struct{ tr Translator }

var current atomic.Pointer[holder]

func init() { current.Store(&holder{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	current.Store(&holder{tr: dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(&holder{tr: tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return current.Load().tr.Message(code, data) }
