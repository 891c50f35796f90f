package workbook

import (
	"strings"

	"github.com/anxuanzi/specsheet-go/dom"
)

// Labels holds every user-facing string written into a workbook.
type Labels struct {
	// Metadata block keys, rows 1-6.
	ID          string
	Title       string
	Path        string
	Headings    string
	Category    string
	Description string

	// Table header.
	ColNumber   string
	ColKind     string
	ColLabel    string
	ColSelector string
	ColAction   string
	ColNotes    string

	Button string
	Link   string
	Input  string

	NoText        string
	NoLink        string
	NoLabel       string
	NoHeadings    string
	NotSet        string
	NoDescription string

	Required  string
	Type      string
	Pattern   string
	MinLength string
	MaxLength string
	Min       string
	Max       string
	Step      string
	Options   string

	// ActionPrefix introduces correlated action descriptions in the notes.
	ActionPrefix string
}

// English is the default label set.
var English = Labels{
	ID:          "Screen ID",
	Title:       "Screen title",
	Path:        "URL / Path",
	Headings:    "Main headings",
	Category:    "Category",
	Description: "Description",

	ColNumber:   "No.",
	ColKind:     "Element type",
	ColLabel:    "UI text / Label",
	ColSelector: "CSS selector",
	ColAction:   "Action / Initial value",
	ColNotes:    "Validation / Notes",

	Button: "Button",
	Link:   "Link",
	Input:  "Input",

	NoText:        "(no text)",
	NoLink:        "(link)",
	NoLabel:       "(label not found)",
	NoHeadings:    "(no headings)",
	NotSet:        "(not set)",
	NoDescription: "(no description)",

	Required:  "Required",
	Type:      "Type",
	Pattern:   "Pattern",
	MinLength: "Min length",
	MaxLength: "Max length",
	Min:       "Min",
	Max:       "Max",
	Step:      "Step",
	Options:   "Options",

	ActionPrefix: "Configured actions: ",
}

// Japanese is the label set for locale "ja".
var Japanese = Labels{
	ID:          "画面ID",
	Title:       "画面タイトル",
	Path:        "URL / パス",
	Headings:    "主な見出し・機能",
	Category:    "カテゴリ",
	Description: "説明",

	ColNumber:   "番号",
	ColKind:     "要素種別",
	ColLabel:    "UIテキスト / ラベル",
	ColSelector: "CSSセレクタ",
	ColAction:   "動作 / 初期値",
	ColNotes:    "バリデーション / 備考",

	Button: "ボタン",
	Link:   "リンク",
	Input:  "入力項目",

	NoText:        "(テキストなし)",
	NoLink:        "(リンク)",
	NoLabel:       "(ラベル未検出)",
	NoHeadings:    "(見出しなし)",
	NotSet:        "(未設定)",
	NoDescription: "(記述なし)",

	Required:  "必須",
	Type:      "タイプ",
	Pattern:   "パターン",
	MinLength: "最小文字数",
	MaxLength: "最大文字数",
	Min:       "最小値",
	Max:       "最大値",
	Step:      "刻み",
	Options:   "選択肢",

	ActionPrefix: "設定アクション: ",
}

// LabelsFor returns the label set for a locale such as "ja" or "en-US".
// Unknown locales fall back to English.
func LabelsFor(locale string) Labels {
	lang, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(locale)), "-")
	lang, _, _ = strings.Cut(lang, "_")
	if lang == "ja" {
		return Japanese
	}
	return English
}

// Header returns the table header in column order.
func (l Labels) Header() []string {
	return []string{l.ColNumber, l.ColKind, l.ColLabel, l.ColSelector, l.ColAction, l.ColNotes}
}

// KindName returns the localized element type.
func (l Labels) KindName(k dom.Kind) string {
	switch k {
	case dom.KindButton:
		return l.Button
	case dom.KindLink:
		return l.Link
	case dom.KindInput:
		return l.Input
	}
	return string(k)
}
