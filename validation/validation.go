package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator"
	"github.com/meghashyamc/protocolnav/logger"
)

const maxDocumentIDLength = 128

type Validator struct {
	validator                *validator.Validate
	logger                   logger.Logger
	categories               map[string]struct{}
	tagValidationDetailsOnce sync.Once
	tagValidationDetailsMap  map[string]tagValidationDetails
}

type tagValidationDetails struct {
	validatorFunc validator.Func
	err           error
}

// New returns a validator that accepts only the given category ids for valid_category fields.
func New(logger logger.Logger, categories []string) (*Validator, error) {
	validator := &Validator{
		validator:  validator.New(),
		logger:     logger,
		categories: make(map[string]struct{}, len(categories)),
	}
	for _, category := range categories {
		validator.categories[category] = struct{}{}
	}

	validator.validator.RegisterTagNameFunc(useJSONFieldNames)
	if err := validator.registerCustomValidatorsForTags(); err != nil {
		return nil, err
	}

	return validator, nil
}

func (v *Validator) Validate(i any) error {

	if err := v.validator.Struct(i); err != nil {
		v.logger.Warn("validation failed", "err", err.Error())
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {

			tagValidationDetails, ok := v.getTagValidationDetails()[validationErrs[0].Tag()]
			if ok {
				return tagValidationDetails.err
			}

			switch validationErrs[0].Tag() {
			case "required":
				return fmt.Errorf("missing required field '%s'", validationErrs[0].Field())

			case "min", "max":
				return fmt.Errorf("value or length of field '%s' is not in the expected range", validationErrs[0].Field())

			}
		}
		return err
	}
	return nil
}
func (v *Validator) getTagValidationDetails() map[string]tagValidationDetails {
	v.tagValidationDetailsOnce.Do(func() {
		v.tagValidationDetailsMap = map[string]tagValidationDetails{
			"valid_query":       {validatorFunc: v.isValidQuery, err: errors.New("invalid query")},
			"valid_category":    {validatorFunc: v.isValidCategory, err: errors.New("unknown category")},
			"valid_document_id": {validatorFunc: v.isValidDocumentID, err: errors.New("invalid document id")},
			"valid_mode":        {validatorFunc: v.isValidMode, err: errors.New("invalid search mode")},
		}
	})
	return v.tagValidationDetailsMap
}

func (v *Validator) registerCustomValidatorsForTags() error {

	tagValidationDetailsMap := v.getTagValidationDetails()

	for tag, tagValidationDetails := range tagValidationDetailsMap {
		if err := v.validator.RegisterValidation(tag, tagValidationDetails.validatorFunc); err != nil {
			v.logger.Error("failed to register custom validator function", "err", err.Error())
			return err
		}
	}
	return nil
}

func useJSONFieldNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	}
	return name
}

// An empty query is valid: it lists the corpus.
func (v *Validator) isValidQuery(fl validator.FieldLevel) bool {
	query := fl.Field().String()

	if !utf8.ValidString(query) {
		v.logger.Warn("query is not valid UTF-8")
		return false
	}
	if strings.Contains(query, "\x00") {
		v.logger.Warn("query has null byte", "query", query)
		return false
	}

	return true
}

func (v *Validator) isValidCategory(fl validator.FieldLevel) bool {
	category := fl.Field().String()
	if _, ok := v.categories[category]; !ok {
		v.logger.Info("category is not in the vocabulary", "category", category)
		return false
	}
	return true
}

func (v *Validator) isValidDocumentID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if len(id) == 0 {
		return true
	}
	if strings.TrimSpace(id) == "" || len(id) > maxDocumentIDLength {
		v.logger.Warn("document id is blank or too long", "length", len(id))
		return false
	}
	if !utf8.ValidString(id) || strings.ContainsAny(id, "\x00/") {
		v.logger.Warn("document id has unexpected characters")
		return false
	}
	return true
}

func (v *Validator) isValidMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "fuzzy", "fulltext":
		return true
	default:
		return false
	}
}
