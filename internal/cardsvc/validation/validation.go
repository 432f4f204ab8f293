// Package validation checks card payloads before they reach the store.
//
// Bodies are decoded field by field so that a wrongly typed field is reported
// next to the rule violations of the other fields instead of aborting the
// whole request.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/avvvet/poketracker/internal/cardsvc/models"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const invalidMessage = "Invalid card data"

// maxValue is the exclusive upper bound of a NUMERIC(10,2) column.
var maxValue = decimal.New(1, 8)

// Amounts are checked for shape before any decimal arithmetic: rescaling a
// huge exponent allocates a big.Int with that many digits.
const (
	maxValueLen      = 32
	minValueExponent = -30
	maxValueExponent = 8
)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Error is returned for any client input problem.
type Error struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(parts, "; "))
}

// Fields lists the names of the rejected fields in report order.
func (e *Error) Fields() []string {
	out := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		out = append(out, fe.Field)
	}
	return out
}

// createRequest mirrors models.CardInput with validator tags.
type createRequest struct {
	Name      string  `json:"name" validate:"required,max=255"`
	Set       string  `json:"set" validate:"required,cardset"`
	Number    *string `json:"number" validate:"omitempty,max=32"`
	Rarity    string  `json:"rarity" validate:"required,rarity"`
	Condition string  `json:"condition" validate:"required,condition"`
	Value     string  `json:"value" validate:"omitempty,money"`
	Notes     *string `json:"notes" validate:"omitempty,max=4000"`
	ImageURL  *string `json:"imageUrl" validate:"omitempty,max=2048"`
}

// patchRequest allows every field to be absent; supplied fields follow the create rules.
type patchRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=255"`
	Set       *string `json:"set" validate:"omitempty,cardset"`
	Number    *string `json:"number" validate:"omitempty,max=32"`
	Rarity    *string `json:"rarity" validate:"omitempty,rarity"`
	Condition *string `json:"condition" validate:"omitempty,condition"`
	Value     *string `json:"value" validate:"omitempty,money"`
	Notes     *string `json:"notes" validate:"omitempty,max=4000"`
	ImageURL  *string `json:"imageUrl" validate:"omitempty,max=2048"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "cardset", func(fl validator.FieldLevel) bool { return models.IsValidSet(fl.Field().String()) })
	mustRegister(v, "rarity", func(fl validator.FieldLevel) bool { return models.IsValidRarity(fl.Field().String()) })
	mustRegister(v, "condition", func(fl validator.FieldLevel) bool { return models.IsValidCondition(fl.Field().String()) })
	mustRegister(v, "money", func(fl validator.FieldLevel) bool {
		_, err := NormalizeValue(fl.Field().String())
		return err == nil
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %s", tag, err))
	}
}

// NormalizeValue parses a money amount and formats it with two decimals.
func NormalizeValue(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) > maxValueLen {
		return "", errors.New("value is too long")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", err
	}
	if exp := d.Exponent(); exp < minValueExponent || exp > maxValueExponent {
		return "", errors.New("value is out of range")
	}
	if d.IsNegative() {
		return "", errors.New("value must not be negative")
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return "", errors.New("value has more than two decimals")
	}
	if d.GreaterThanOrEqual(maxValue) {
		return "", errors.New("value is too large")
	}
	return d.StringFixed(2), nil
}

// ParseCreate decodes and validates a creation body.
func ParseCreate(body []byte) (models.CardInput, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return models.CardInput{}, err
	}

	var req createRequest
	var errs []FieldError
	errs = decodeString(fields, "name", &req.Name, errs)
	errs = decodeString(fields, "set", &req.Set, errs)
	errs = decodeString(fields, "rarity", &req.Rarity, errs)
	errs = decodeString(fields, "condition", &req.Condition, errs)
	errs = decodeString(fields, "value", &req.Value, errs)
	errs = decodeOptional(fields, "number", &req.Number, errs)
	errs = decodeOptional(fields, "notes", &req.Notes, errs)
	errs = decodeOptional(fields, "imageUrl", &req.ImageURL, errs)

	req.Name = strings.TrimSpace(req.Name)
	req.Number = blankToNil(req.Number)
	req.Notes = blankToNil(req.Notes)
	req.ImageURL = blankToNil(req.ImageURL)

	errs = append(errs, structErrors(req, typeErrorFields(errs))...)
	if len(errs) > 0 {
		return models.CardInput{}, &Error{Message: invalidMessage, Errors: errs}
	}

	value := models.DefaultValue
	if req.Value != "" {
		value, _ = NormalizeValue(req.Value)
	}

	return models.CardInput{
		Name:      req.Name,
		Set:       req.Set,
		Number:    req.Number,
		Rarity:    req.Rarity,
		Condition: req.Condition,
		Value:     value,
		Notes:     req.Notes,
		ImageURL:  req.ImageURL,
	}, nil
}

// ParsePatch decodes and validates a partial update body.
func ParsePatch(body []byte) (models.CardPatch, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return models.CardPatch{}, err
	}

	var req patchRequest
	var errs []FieldError
	errs = decodeOptional(fields, "name", &req.Name, errs)
	errs = decodeOptional(fields, "set", &req.Set, errs)
	errs = decodeOptional(fields, "rarity", &req.Rarity, errs)
	errs = decodeOptional(fields, "condition", &req.Condition, errs)
	errs = decodeOptional(fields, "value", &req.Value, errs)
	errs = decodeOptional(fields, "number", &req.Number, errs)
	errs = decodeOptional(fields, "notes", &req.Notes, errs)
	errs = decodeOptional(fields, "imageUrl", &req.ImageURL, errs)

	if req.Name != nil {
		req.Name = models.StringPtr(strings.TrimSpace(*req.Name))
	}

	// required columns cannot be nulled
	for _, name := range []string{"name", "set", "rarity", "condition"} {
		if isNull(fields[name]) {
			errs = append(errs, FieldError{Field: name, Rule: "required", Message: name + " cannot be null"})
		}
	}

	errs = append(errs, structErrors(req, typeErrorFields(errs))...)
	if len(errs) > 0 {
		return models.CardPatch{}, &Error{Message: invalidMessage, Errors: errs}
	}

	patch := models.CardPatch{
		Name:      req.Name,
		Set:       req.Set,
		Number:    req.Number,
		Rarity:    req.Rarity,
		Condition: req.Condition,
		Notes:     req.Notes,
		ImageURL:  req.ImageURL,

		ClearNumber:   isNull(fields["number"]) || isBlank(req.Number),
		ClearNotes:    isNull(fields["notes"]) || isBlank(req.Notes),
		ClearImageURL: isNull(fields["imageUrl"]) || isBlank(req.ImageURL),
	}
	if patch.ClearNumber {
		patch.Number = nil
	}
	if patch.ClearNotes {
		patch.Notes = nil
	}
	if patch.ClearImageURL {
		patch.ImageURL = nil
	}
	switch {
	case req.Value != nil:
		v, _ := NormalizeValue(*req.Value)
		patch.Value = &v
	case isNull(fields["value"]):
		patch.Value = models.StringPtr(models.DefaultValue)
	}

	return patch, nil
}

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, &Error{
			Message: invalidMessage,
			Errors:  []FieldError{{Field: "body", Rule: "invalid_json", Message: "request body must be a JSON object"}},
		}
	}
	// id and createdAt are assigned by the store
	delete(fields, "id")
	delete(fields, "createdAt")
	return fields, nil
}

// decodeString reads a string field; null is treated as absent.
func decodeString(fields map[string]json.RawMessage, name string, dst *string, errs []FieldError) []FieldError {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return errs
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return append(errs, FieldError{Field: name, Rule: "invalid_type", Message: "expected string"})
	}
	return errs
}

func decodeOptional(fields map[string]json.RawMessage, name string, dst **string, errs []FieldError) []FieldError {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return errs
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return append(errs, FieldError{Field: name, Rule: "invalid_type", Message: "expected string"})
	}
	*dst = &s
	return errs
}

func isNull(raw json.RawMessage) bool {
	return raw != nil && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isBlank(p *string) bool {
	return p != nil && strings.TrimSpace(*p) == ""
}

func blankToNil(p *string) *string {
	if isBlank(p) {
		return nil
	}
	return p
}

func typeErrorFields(errs []FieldError) map[string]bool {
	skip := make(map[string]bool, len(errs))
	for _, fe := range errs {
		skip[fe.Field] = true
	}
	return skip
}

// structErrors runs the validator and converts its errors, skipping fields
// that already failed earlier checks.
func structErrors(req any, skip map[string]bool) []FieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Rule: "invalid", Message: err.Error()}}
	}

	var out []FieldError
	for _, fe := range verrs {
		if skip[fe.Field()] {
			continue
		}
		out = append(out, FieldError{Field: fe.Field(), Rule: ruleName(fe.Tag()), Message: message(fe)})
	}
	return out
}

func ruleName(tag string) string {
	switch tag {
	case "cardset", "rarity", "condition":
		return "oneof"
	case "min":
		return "required"
	}
	return tag
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return fe.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "cardset":
		return "set must be one of " + optionList(models.PokemonSets)
	case "rarity":
		return "rarity must be one of " + optionList(models.CardRarities)
	case "condition":
		return "condition must be one of " + optionList(models.CardConditions)
	case "money":
		return "value must be a non-negative amount with at most two decimals"
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}

func optionList(opts []models.Option) string {
	vals := make([]string, 0, len(opts))
	for _, o := range opts {
		vals = append(vals, o.Value)
	}
	return strings.Join(vals, ", ")
}
