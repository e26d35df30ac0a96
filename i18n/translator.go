package i18n

// Translator retrieves localized messages for error codes.
// data carries the fields of the failing error (for example "property" or
// "kind") for translators that embed them; the built-in dictionary ignores it.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "locked_schema":
			return "スキーマはロックされています"
		case "property_already_set":
			return "プロパティは既に設定されています"
		case "duplicate_property":
			return "プロパティが重複しています"
		case "duplicate_pattern":
			return "パターンが重複しています"
		case "invalid_argument":
			return "引数が不正です"
		case "range_inversion":
			return "範囲が不正です"
		case "missing_value_schema":
			return "マップの値スキーマがありません"
		case "missing_name":
			return "名前がありません"
		case "items_already_set":
			return "items は既に設定されています"
		case "validation":
			return "データが不正です"
		}
	default: // "en"
		switch code {
		case "locked_schema":
			return "schema is locked"
		case "property_already_set":
			return "property already set"
		case "duplicate_property":
			return "duplicate property"
		case "duplicate_pattern":
			return "duplicate pattern"
		case "invalid_argument":
			return "invalid argument"
		case "range_inversion":
			return "invalid range"
		case "missing_value_schema":
			return "map value schema missing"
		case "missing_name":
			return "missing name"
		case "items_already_set":
			return "items already set"
		case "validation":
			return "invalid data"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
