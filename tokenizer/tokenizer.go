package tokenizer

import (
	"fmt"
	"iter"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// TokenIterator uses the Go 1.24 iterator pattern.
type TokenIterator = iter.Seq2[Token, error]

// Config maps token-kind names to the literal spellings recognized under
// them. It is supplied by the driver, not discovered by the tokenizer.
//
// Spellings listed in Atoms become their own kind tag: lexing "while" with
// "while" configured as an atom yields a token of kind "while". Spellings
// under a named class keep the class name as their kind.
type Config struct {
	Comment string            // line comment marker, "#" when empty
	Atoms   []string          // keywords, operators, punctuation
	Classes map[Kind][]string // extra named spelling groups
}

// Tokenizer converts source text into a token sequence. It holds no mutable
// state beyond the precompiled matcher, so one instance may be shared and
// reused across unrelated source strings.
type Tokenizer struct {
	pattern *regexp.Regexp // skip + exactly one token, anchored
	trailer *regexp.Regexp // whitespace/comment run, anchored
	names   []string
}

var classNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Group names claimed by the built-in alternatives.
var reservedClasses = map[string]struct{}{
	"str": {}, "hex": {}, "int": {}, "id": {}, "atom": {},
}

// New precompiles the combined matcher for the given configuration.
func New(config Config) (*Tokenizer, error) {
	comment := config.Comment
	if comment == "" {
		comment = "#"
	}

	skip := `(?:\s+|` + regexp.QuoteMeta(comment) + `[^\n]*)*`

	alternatives := []string{
		`(?P<str>"(?:\\.|[^\\"])*")`,
		`(?P<hex>0[xX][0-9a-fA-F]+)`,
		`(?P<int>[0-9]+)`,
	}
	if len(config.Atoms) > 0 {
		alternatives = append(alternatives, `(?P<atom>`+spellingAlternation(config.Atoms)+`)`)
	}

	classNames := make([]string, 0, len(config.Classes))
	for name := range config.Classes {
		classNames = append(classNames, string(name))
	}
	slices.Sort(classNames)

	for _, name := range classNames {
		if _, taken := reservedClasses[name]; taken || !classNamePattern.MatchString(name) {
			return nil, fmt.Errorf("%w: %q", ErrBadClassName, name)
		}
		spellings := config.Classes[Kind(name)]
		if len(spellings) == 0 {
			continue
		}
		alternatives = append(alternatives, `(?P<`+name+`>`+spellingAlternation(spellings)+`)`)
	}
	alternatives = append(alternatives, `(?P<id>[A-Za-z_][A-Za-z0-9_]*)`)

	pattern, err := regexp.Compile(`\A` + skip + `(` + strings.Join(alternatives, `|`) + `)`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile token pattern: %w", err)
	}

	return &Tokenizer{
		pattern: pattern,
		trailer: regexp.MustCompile(`\A` + skip),
		names:   pattern.SubexpNames(),
	}, nil
}

// spellingAlternation renders spellings as a regexp alternation. Longer
// spellings come first so that a spelling never shadows another it is a
// textual prefix of (maximal munch: ">>>" before ">>" before ">"). Spellings
// ending in a word character get a \b guard so "ifx" stays one identifier.
func spellingAlternation(spellings []string) string {
	sorted := slices.Clone(spellings)
	slices.SortFunc(sorted, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})

	parts := make([]string, 0, len(sorted))
	for _, s := range sorted {
		if s == "" {
			continue
		}
		part := regexp.QuoteMeta(s)
		if isWordChar(s[len(s)-1]) {
			part += `\b`
		}
		parts = append(parts, part)
	}

	return strings.Join(parts, `|`)
}

func isWordChar(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// Tokens returns a lazy iterator over the tokens of src. The sequence is
// finite and restartable; iterating it never mutates the Tokenizer. No
// explicit end-of-source token is emitted: exhaustion is end-of-source. A
// character that cannot start any token yields a *LexError and ends the
// sequence.
func (t *Tokenizer) Tokens(src string) TokenIterator {
	return func(yield func(Token, error) bool) {
		pos := 0
		line := 1

		for pos < len(src) {
			m := t.pattern.FindStringSubmatchIndex(src[pos:])
			if m == nil {
				// Only whitespace and comments may remain.
				skipped := t.trailer.FindString(src[pos:])
				line += strings.Count(skipped, "\n")

				if pos+len(skipped) < len(src) {
					yield(Token{}, &LexError{Line: line, Err: ErrUnexpectedCharacter})
				}

				return
			}

			line += strings.Count(src[pos:pos+m[2]], "\n")

			token, err := t.classify(src[pos:], m, line)
			if err != nil {
				yield(Token{}, err)
				return
			}

			line += strings.Count(src[pos+m[2]:pos+m[1]], "\n")
			pos += m[1]

			if !yield(token, nil) {
				return
			}
		}
	}
}

// AllTokens drains the token sequence into a slice.
func (t *Tokenizer) AllTokens(src string) ([]Token, error) {
	tokens := make([]Token, 0, 64)

	for token, err := range t.Tokens(src) {
		if err != nil {
			return tokens, err
		}

		tokens = append(tokens, token)
	}

	return tokens, nil
}

// classify builds the Token for the alternative that fired.
func (t *Tokenizer) classify(src string, m []int, line int) (Token, error) {
	for i, name := range t.names {
		if name == "" || m[2*i] < 0 {
			continue
		}

		text := src[m[2*i]:m[2*i+1]]

		switch name {
		case "str":
			return Token{Kind: STRING, Text: text[1 : len(text)-1], Line: line}, nil
		case "hex":
			value, err := strconv.ParseInt(text[2:], 16, 64)
			if err != nil {
				return Token{}, &LexError{Line: line, Err: fmt.Errorf("%w: %s", ErrInvalidNumber, text)}
			}

			return Token{Kind: INT, Int: value, Line: line}, nil
		case "int":
			value, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				return Token{}, &LexError{Line: line, Err: fmt.Errorf("%w: %s", ErrInvalidNumber, text)}
			}

			return Token{Kind: INT, Int: value, Line: line}, nil
		case "atom":
			return Token{Kind: Kind(text), Text: text, Line: line}, nil
		case "id":
			return Token{Kind: IDENT, Text: text, Line: line}, nil
		default:
			return Token{Kind: Kind(name), Text: text, Line: line}, nil
		}
	}

	// The wrapper group always contains exactly one named alternative.
	panic("tokenizer: match without a classifying group")
}
