package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	LangRU Lang = "ru"
	LangEN Lang = "en"
	LangZH Lang = "zh"
	LangKO Lang = "ko"

	DefaultLang = LangRU
)

const (
	KeyStart      = "start"
	KeyMenuPrompt = "menu_prompt"
	KeyDictTitle  = "dict_title"
	KeyTipsTitle  = "tips_title"
	KeyDocsTitle  = "docs_title"
	KeyMnemoTitle = "mnemo_title"
	KeyNoData     = "no_data"

	KeyBtnMenu       = "btn_menu"
	KeyBtnPrev       = "btn_prev"
	KeyBtnNext       = "btn_next"
	KeyBtnChooseLang = "btn_choose_lang"
	KeyBtnTerms      = "btn_menu_terms"
	KeyBtnTips       = "btn_menu_tips"
	KeyBtnDocs       = "btn_menu_docs"
	KeyBtnMnemo      = "btn_menu_mnemo"

	KeyLoginFailed = "login_failed"
)

type Lang string

//nolint:gochecknoglobals // static lookup table
var (
	languages = []Lang{LangRU, LangEN, LangZH, LangKO}

	names = map[Lang]string{
		LangRU: "Русский",
		LangEN: "English",
		LangZH: "中文",
		LangKO: "한국어",
	}

	matcher = language.NewMatcher([]language.Tag{
		language.Russian,
		language.English,
		language.Chinese,
		language.Korean,
	})

	ui = map[string]map[Lang]string{
		KeyStart: {
			LangRU: "Выберите язык",
			LangEN: "Please select a language",
			LangZH: "请选择语言",
			LangKO: "언어를 선택하세요",
		},
		KeyMenuPrompt: {
			LangRU: "Спасибо! Теперь выберите то, что вам нужно",
			LangEN: "Thank you! Now choose what you need!",
			LangZH: "谢谢！ 现在选择你需要的",
			LangKO: "감사합니다! 이제 필요한 것을 선택하십시오",
		},
		KeyDictTitle: {
			LangRU: "Словарь юридических терминов",
			LangEN: "Legal terms dictionary",
			LangZH: "法律术语词典",
			LangKO: "법률 용어 사전",
		},
		KeyTipsTitle: {
			LangRU: "Советы для иностранных студентов",
			LangEN: "Tips for international students",
			LangZH: "留学生提示",
			LangKO: "유학생을 위한 팁",
		},
		KeyDocsTitle: {
			LangRU: "Перечень документов для студенческой визы в РФ",
			LangEN: "Documents for Russian student visa",
			LangZH: "俄罗斯学生签证所需文件",
			LangKO: "러시아 학생 비자 서류 목록",
		},
		KeyMnemoTitle: {
			LangRU: "Кодекс мнемоники",
			LangEN: "Mnemonic code",
			LangZH: "记忆法手册",
			LangKO: "연상 암기 코드",
		},
		KeyNoData: {
			LangRU: "(данные отсутствуют)",
			LangEN: "(no data)",
			LangZH: "（暂无数据）",
			LangKO: "(데이터 없음)",
		},
		KeyBtnMenu: {
			LangRU: "Меню",
			LangEN: "Menu",
			LangZH: "菜单",
			LangKO: "메뉴",
		},
		KeyBtnPrev: {
			LangRU: "Назад",
			LangEN: "Back",
			LangZH: "上一个",
			LangKO: "이전",
		},
		KeyBtnNext: {
			LangRU: "Вперёд",
			LangEN: "Next",
			LangZH: "下一个",
			LangKO: "다음",
		},
		KeyBtnChooseLang: {
			LangRU: "Выбрать язык",
			LangEN: "Choose language",
			LangZH: "选择语言",
			LangKO: "언어 선택",
		},
		KeyBtnTerms: {
			LangRU: "Словарь",
			LangEN: "Dictionary",
			LangZH: "词典",
			LangKO: "사전",
		},
		KeyBtnTips: {
			LangRU: "Советы",
			LangEN: "Tips",
			LangZH: "提示",
			LangKO: "팁",
		},
		KeyBtnDocs: {
			LangRU: "Документы",
			LangEN: "Documents",
			LangZH: "文件",
			LangKO: "서류",
		},
		KeyBtnMnemo: {
			LangRU: "Кодекс мнемоники",
			LangEN: "Mnemonic code",
			LangZH: "记忆法手册",
			LangKO: "연상 암기 코드",
		},
		KeyLoginFailed: {
			LangRU: "Неверные логин или пароль",
			LangEN: "Invalid username or password",
			LangZH: "用户名或密码错误",
			LangKO: "아이디 또는 비밀번호가 올바르지 않습니다",
		},
	}
)

// Languages returns supported languages in display order.
func Languages() []Lang {
	res := make([]Lang, len(languages))
	copy(res, languages)
	return res
}

// Name returns the language name written in that language.
func Name(l Lang) string {
	return names[l]
}

func (l Lang) Supported() bool {
	_, ok := names[l]
	return ok
}

// Parse returns the supported language for code or DefaultLang.
func Parse(code string) Lang {
	l := Lang(strings.ToLower(strings.TrimSpace(code)))
	if l.Supported() {
		return l
	}
	return DefaultLang
}

// Match picks the closest supported language for a BCP 47 tag or an
// Accept-Language header value, e.g. "en-US" or "zh-Hant".
func Match(value string) Lang {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultLang
	}

	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}

	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLang
	}
	return languages[idx]
}

// T looks up key for lang, falling back to the default language and then the
// key itself.
func T(key string, lang Lang) string {
	texts, ok := ui[key]
	if !ok {
		return key
	}
	if msg, ok := texts[lang]; ok {
		return msg
	}
	if msg, ok := texts[DefaultLang]; ok {
		return msg
	}
	return key
}
