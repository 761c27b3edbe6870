package book

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Mode selects the rule set applied to a payload.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

func (m Mode) String() string {
	if m == ModeUpdate {
		return "update"
	}
	return "create"
}

type kind int

const (
	kindString kind = iota
	kindInteger
)

type fieldRule struct {
	name   string
	goName string
	kind   kind
}

// keyField is the primary key; it may only be supplied on create.
const keyField = "isbn"

var fieldRules = []fieldRule{
	{name: "isbn", goName: "ISBN", kind: kindString},
	{name: "amazon_url", goName: "AmazonURL", kind: kindString},
	{name: "author", goName: "Author", kind: kindString},
	{name: "language", goName: "Language", kind: kindString},
	{name: "pages", goName: "Pages", kind: kindInteger},
	{name: "publisher", goName: "Publisher", kind: kindString},
	{name: "title", goName: "Title", kind: kindString},
	{name: "year", goName: "Year", kind: kindInteger},
}

// bookInput mirrors Book with format rules. Field order matches fieldRules.
type bookInput struct {
	ISBN      string `json:"isbn" validate:"required,max=20"`
	AmazonURL string `json:"amazon_url" validate:"required,url"`
	Author    string `json:"author" validate:"required"`
	Language  string `json:"language" validate:"required"`
	Pages     int    `json:"pages" validate:"gt=0"`
	Publisher string `json:"publisher" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Year      int    `json:"year"`
}

// Validator checks untyped payloads against the book schema.
// It never touches the store and is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a validator that reports fields by their JSON names.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// CheckImmutableKey rejects any payload that carries the primary key.
// Supplying the key is an error even when the value is unchanged.
func CheckImmutableKey(payload map[string]any) []string {
	if _, ok := payload[keyField]; ok {
		return []string{keyField + " cannot be changed"}
	}
	return nil
}

// Validate checks payload for the given mode. It returns either the
// normalized book or every violation found; the two are mutually exclusive.
// In ModeUpdate the returned book has an empty ISBN.
func (v *Validator) Validate(payload map[string]any, mode Mode) (Book, []string) {
	var msgs []string
	if mode == ModeUpdate {
		msgs = append(msgs, CheckImmutableKey(payload)...)
	}

	var in bookInput
	var checked []string
	for _, rule := range fieldRules {
		if mode == ModeUpdate && rule.name == keyField {
			continue
		}
		raw, ok := payload[rule.name]
		if !ok {
			msgs = append(msgs, rule.name+" is required")
			continue
		}
		if msg := assign(&in, rule, raw); msg != "" {
			msgs = append(msgs, msg)
			continue
		}
		checked = append(checked, rule.goName)
	}

	msgs = append(msgs, unknownFields(payload)...)

	if len(checked) > 0 {
		if err := v.v.StructPartial(in, checked...); err != nil {
			msgs = append(msgs, formatMessages(err)...)
		}
	}

	if len(msgs) > 0 {
		return Book{}, msgs
	}
	return Book(in), nil
}

func assign(in *bookInput, rule fieldRule, raw any) string {
	switch rule.kind {
	case kindString:
		s, ok := raw.(string)
		if !ok {
			return rule.name + " must be a string"
		}
		switch rule.name {
		case "isbn":
			in.ISBN = s
		case "amazon_url":
			in.AmazonURL = s
		case "author":
			in.Author = s
		case "language":
			in.Language = s
		case "publisher":
			in.Publisher = s
		case "title":
			in.Title = s
		}
	case kindInteger:
		n, msg := asInteger(rule.name, raw)
		if msg != "" {
			return msg
		}
		switch rule.name {
		case "pages":
			in.Pages = n
		case "year":
			in.Year = n
		}
	}
	return ""
}

// asInteger accepts whole JSON numbers, including ones written as 400.0.
func asInteger(name string, raw any) (int, string) {
	var f float64
	switch n := raw.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if errors.Is(err, strconv.ErrRange) {
			return 0, name + " is out of range"
		}
		if err != nil {
			return 0, name + " must be an integer"
		}
		f = parsed
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, name + " must be an integer"
	}
	if math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, name + " is out of range"
	}
	if f != math.Trunc(f) {
		return 0, name + " must be a whole number"
	}
	return int(f), ""
}

func unknownFields(payload map[string]any) []string {
	var extra []string
	for k := range payload {
		if !isKnownField(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	msgs := make([]string, 0, len(extra))
	for _, k := range extra {
		msgs = append(msgs, fmt.Sprintf("%q is not an allowed field", k))
	}
	return msgs
}

func isKnownField(name string) bool {
	for _, rule := range fieldRules {
		if rule.name == name {
			return true
		}
	}
	return false
}

func formatMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" must not be empty")
		case "url":
			msgs = append(msgs, field+" must be a valid URL")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", field, e.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return msgs
}
