package internal

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MarkerSet binds a role to the explicit markers that announce it. Marker
// matching is case-sensitive; the first matching set wins.
type MarkerSet struct {
	Role    Role
	Markers []string
}

// ClassifierConfig holds the keyword lists and thresholds the pipeline runs
// on. The lists are data, not logic: swapping them changes what gets recorded
// without touching any stage.
type ClassifierConfig struct {
	// NoiseKeywords reject a line outright (case-insensitive substring).
	NoiseKeywords []string
	// MarkerSets are checked in order; builder before chat before user.
	MarkerSets []MarkerSet
	// DialogueWords gate the implicit path: a line with none of these is
	// never treated as unmarked dialogue.
	DialogueWords []string
	// QuestionWords pin an unmarked line to USER.
	QuestionWords []string
	// CodeWords pin an unmarked line to AGENT_BUILDER.
	CodeWords []string
	// TrivialPhrases are status words never worth recording (exact match
	// after folding).
	TrivialPhrases []string
	// EchoPatterns reject command or tool-invocation echo.
	EchoPatterns []*regexp.Regexp

	MinImplicitLen int // implicit path needs more runes than this
	LongLineLen    int // unmarked lines longer than this default to AGENT_CHAT
	MinTextLen     int // validity gate lower bound, runes
	MaxTextLen     int // validity gate upper bound, runes
}

// DefaultClassifierConfig returns the stock keyword lists.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		NoiseKeywords: []string{
			"npm", "yarn", "pnpm", "pip install", "cargo", "gradle", "mvn",
			"terminal", "shell", "exec", "command", "compil", "webpack",
			"linker", "gcc ", "makefile",
			"error:", "warning:", "warn:", "info:", "debug:",
			"[error]", "[warn]", "[info]", "[debug]",
			"exception", "stack trace", "traceback",
			"tool call", "invoking",
			"执行", "编译", "构建", "运行命令", "错误", "警告", "调试", "命令", "工具调用",
		},
		MarkerSets: []MarkerSet{
			{Role: RoleAgentBuilder, Markers: []string{"[Builder]", "Builder:", "[智能体]", "智能体:"}},
			{Role: RoleAgentChat, Markers: []string{"[Assistant]", "Assistant:", "[Chat]", "Chat:", "[助手]", "助手:"}},
			{Role: RoleUser, Markers: []string{"[User]", "User:", "[用户]", "用户:"}},
		},
		DialogueWords: []string{
			"what", "how", "why", "when", "where", "which", "who",
			"please", "can you", "could you", "help", "explain", "understand",
			"什么", "怎么", "为什么", "如何", "哪", "吗", "呢",
			"请", "帮我", "麻烦", "帮助", "解释", "说明",
		},
		QuestionWords: []string{
			"what", "how", "why", "when", "where", "which", "who",
			"什么", "怎么", "为什么", "如何", "哪", "吗", "呢",
		},
		CodeWords: []string{
			"implement", "function", "class", "method", "interface",
			"variable", "code", "module", "package", "refactor",
			"实现", "函数", "代码", "方法", "模块", "重构", "创建",
		},
		TrivialPhrases: []string{
			"ok", "okay", "yes", "no", "done", "thanks", "thank you",
			"good", "fine", "loading", "success", "failed", "completed",
			"好的", "是的", "完成", "收到", "谢谢", "加载中", "成功", "失败",
		},
		EchoPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^[$>%#] `),
			regexp.MustCompile(`^(sudo|cd|ls|cat|grep|curl|wget|git)\s`),
			regexp.MustCompile(`(?i)^tool(_call)?:`),
		},
		MinImplicitLen: 20,
		LongLineLen:    100,
		MinTextLen:     10,
		MaxTextLen:     5000,
	}
}

// Classifier turns raw observed lines and lifecycle events into stored
// records. It never reports malformed input to its caller: lines that match
// nothing are silently dropped. Only persistence failures surface.
type Classifier struct {
	cfg   ClassifierConfig
	store *Store
}

// NewClassifier creates a classifier over the store with the stock config.
func NewClassifier(store *Store) *Classifier {
	return NewClassifierWithConfig(store, DefaultClassifierConfig())
}

// NewClassifierWithConfig creates a classifier with custom keyword lists.
func NewClassifierWithConfig(store *Store, cfg ClassifierConfig) *Classifier {
	return &Classifier{cfg: cfg, store: store}
}

// ClassifyLine runs one line through the pipeline: noise rejection, explicit
// marker match, implicit content inference, then the content validity gate.
// It returns the appended record, or (nil, nil) when the line was dropped.
// The only error it can return is a store append failure.
func (c *Classifier) ClassifyLine(ctx context.Context, sessionID, line string) (*Record, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	if isNoise(c.cfg, line) {
		return nil, nil
	}

	role, content, ok := matchMarker(c.cfg, line)
	if !ok {
		role, ok = inferImplicitRole(c.cfg, line)
		if !ok {
			return nil, nil
		}
		content = line
	}

	content = strings.TrimSpace(content)
	if !isValidContent(c.cfg, content) {
		return nil, nil
	}

	rec := NewRecord(sessionID, role, content, nil)
	if err := c.store.Append(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// isNoise rejects operational chatter before any role matching happens, so a
// log line that mentions a role word never becomes dialogue.
func isNoise(cfg ClassifierConfig, line string) bool {
	folded := strings.ToLower(line)
	for _, kw := range cfg.NoiseKeywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// matchMarker looks for an explicit role marker anywhere in the line. The
// candidate content is everything after the marker.
func matchMarker(cfg ClassifierConfig, line string) (Role, string, bool) {
	for _, set := range cfg.MarkerSets {
		for _, marker := range set.Markers {
			if idx := strings.Index(line, marker); idx >= 0 {
				return set.Role, line[idx+len(marker):], true
			}
		}
	}
	return "", "", false
}

// inferImplicitRole guesses a role for an unmarked line. Precedence is fixed:
// question indicators, then implementation vocabulary, then sheer length.
// Anything else is not dialogue.
func inferImplicitRole(cfg ClassifierConfig, line string) (Role, bool) {
	if utf8.RuneCountInString(line) <= cfg.MinImplicitLen {
		return "", false
	}
	folded := strings.ToLower(line)
	if !containsAny(folded, cfg.DialogueWords) {
		return "", false
	}
	if strings.ContainsAny(line, "?？") || containsAny(folded, cfg.QuestionWords) {
		return RoleUser, true
	}
	if containsAny(folded, cfg.CodeWords) {
		return RoleAgentBuilder, true
	}
	if utf8.RuneCountInString(line) > cfg.LongLineLen {
		return RoleAgentChat, true
	}
	return "", false
}

// isValidContent is the final gate every candidate passes regardless of how
// its role was determined.
func isValidContent(cfg ClassifierConfig, text string) bool {
	n := utf8.RuneCountInString(text)
	if n < cfg.MinTextLen || n > cfg.MaxTextLen {
		return false
	}
	if isPurelyNumeric(text) || isPurelySymbolic(text) {
		return false
	}
	folded := strings.ToLower(text)
	for _, phrase := range cfg.TrivialPhrases {
		if folded == phrase {
			return false
		}
	}
	for _, pat := range cfg.EchoPatterns {
		if pat.MatchString(text) {
			return false
		}
	}
	return true
}

func containsAny(folded string, words []string) bool {
	for _, w := range words {
		if strings.Contains(folded, w) {
			return true
		}
	}
	return false
}

func isPurelyNumeric(s string) bool {
	seen := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if !unicode.IsDigit(r) {
			return false
		}
		seen = true
	}
	return seen
}

func isPurelySymbolic(s string) bool {
	seen := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
		seen = true
	}
	return seen
}
