package bank

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// record is the on-disk shape of one question. Both answer encodings of
// multiple-choice questions are accepted: a letter in Answer or a
// zero-based index in CorrectAnswer.
type record struct {
	Question      string   `json:"question"`
	Q             string   `json:"q"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	Answer        *string  `json:"answer"`
	CorrectAnswer *int     `json:"correctAnswer"`
	Type          Kind     `json:"type"`
}

// Format is the encoding of a bank document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the document format from a file name. Anything that is
// not .yaml or .yml is treated as JSON.
func FormatFor(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Parse decodes, validates and normalizes a bank document. defaultKind
// decides the kind of records that carry neither options nor an explicit
// type. Every error returned wraps ErrMalformed.
func Parse(data []byte, format Format, defaultKind Kind) ([]Question, error) {
	raw, err := toJSON(data, format)
	if err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}
	if err := validateDocument(raw); err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}

	var records []record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errors.Join(ErrMalformed, fmt.Errorf("decode records: %w", err))
	}

	questions := make([]Question, 0, len(records))
	for i, r := range records {
		q, err := r.normalize(defaultKind)
		if err != nil {
			return nil, errors.Join(ErrMalformed, fmt.Errorf("record %d: %w", i, err))
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// toJSON converts a YAML document to JSON so both formats share one
// validation path.
func toJSON(data []byte, format Format) ([]byte, error) {
	if format != FormatYAML {
		return data, nil
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert YAML: %w", err)
	}
	return raw, nil
}

func (r record) normalize(defaultKind Kind) (Question, error) {
	q := Question{Text: firstNonEmpty(r.Question, r.Q, r.Text)}

	kind := r.Type
	if len(r.Options) > 0 {
		if kind != "" && kind != KindMultipleChoice {
			return Question{}, fmt.Errorf("%s question must not have options", kind)
		}
		kind = KindMultipleChoice
	}
	if kind == "" {
		kind = defaultKind
	}
	q.Kind = kind

	switch kind {
	case KindMultipleChoice:
		if len(r.Options) == 0 {
			return Question{}, errors.New("multiple-choice question has no options")
		}
		idx, err := r.correctIndex()
		if err != nil {
			return Question{}, err
		}
		if idx >= len(r.Options) {
			return Question{}, fmt.Errorf("correct option %s out of range (%d options)", OptionLetter(idx), len(r.Options))
		}
		q.Options = append([]string(nil), r.Options...)
		q.CorrectIndex = idx

	case KindFillInBlank:
		if r.Answer == nil {
			return Question{}, errors.New("fill-in-blank question has no answer")
		}
		q.Answer = *r.Answer

	case KindTrueFalse:
		if r.Answer == nil {
			return Question{}, errors.New("true/false question has no answer")
		}
		label, ok := trueFalseLabel(*r.Answer)
		if !ok {
			return Question{}, fmt.Errorf("true/false answer %q is not %s or %s", *r.Answer, LabelTrue, LabelFalse)
		}
		q.Answer = label

	case "":
		return Question{}, errors.New("cannot infer question kind")

	default:
		return Question{}, fmt.Errorf("unknown question kind %q", kind)
	}
	return q, nil
}

// correctIndex resolves the multiple-choice answer to a zero-based index.
// An explicit index wins over a letter.
func (r record) correctIndex() (int, error) {
	if r.CorrectAnswer != nil {
		return *r.CorrectAnswer, nil
	}
	if r.Answer == nil {
		return 0, errors.New("multiple-choice question has no answer")
	}
	return LetterIndex(*r.Answer)
}

// LetterIndex maps "A".."Z" (case-insensitive) to 0..25.
func LetterIndex(letter string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(letter))
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return 0, fmt.Errorf("answer %q is not an option letter", letter)
	}
	return int(s[0] - 'A'), nil
}

// trueFalseLabel maps the accepted spellings onto the two fixed labels.
func trueFalseLabel(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case LabelTrue, "对", "true", "t", "√":
		return LabelTrue, true
	case LabelFalse, "错", "false", "f", "×":
		return LabelFalse, true
	}
	return "", false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
