package form

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"wedding-planner/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError is a single user-facing problem with one answer
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors are the problems of one step in field order
type FieldErrors []FieldError

// Map returns the errors keyed by field name.
func (fe FieldErrors) Map() map[string]string {
	m := make(map[string]string, len(fe))
	for _, e := range fe {
		m[e.Field] = e.Message
	}
	return m
}

// Get returns the message for a field, if any.
func (fe FieldErrors) Get(field string) (string, bool) {
	for _, e := range fe {
		if e.Field == field {
			return e.Message, true
		}
	}
	return "", false
}

var messages = map[string]string{
	"partner1Name":      "Bitte den Namen von Partner 1 angeben",
	"partner2Name":      "Bitte den Namen von Partner 2 angeben",
	"weddingDate":       "Bitte das Hochzeitsdatum angeben",
	"email":             "Bitte eine gültige E-Mail-Adresse angeben",
	"guestCount":        "Die Gästeanzahl muss mindestens 20 betragen",
	"totalBudget":       "Das Budget muss mindestens 5.000 € betragen",
	"location":          "Bitte einen Ort angeben",
	"venueType":         "Bitte eine Location-Art auswählen",
	"budgetFlexibility": "Bitte die Budget-Flexibilität auswählen",
	"weddingStyle":      "Bitte einen Hochzeitsstil auswählen",
	"season":            "Bitte eine Jahreszeit auswählen",
	"timeOfDay":         "Bitte eine Tageszeit auswählen",
	"formalityLevel":    "Bitte den Grad der Förmlichkeit auswählen",
	"priorities":        "Bitte mindestens eine Priorität bewerten",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields under their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "simpleemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "rated", func(fl validator.FieldLevel) bool {
		ratings, ok := fl.Field().Interface().(map[string]int)
		return ok && models.HasRating(ratings)
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("failed to register validation " + tag + ": " + err.Error())
	}
}

// unknownStepError is reported for a step with no answer record.
var unknownStepError = FieldError{Field: "", Message: "Unbekannter Schritt"}

// ValidateStepData checks a step record against its struct rules. A nil
// record never passes.
func ValidateStepData(data models.StepData) FieldErrors {
	errs := FieldErrors{}
	if data == nil {
		return append(errs, unknownStepError)
	}

	err := validate.Struct(data)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return append(errs, FieldError{Field: "", Message: err.Error()})
	}
	for _, fe := range verrs {
		field := fe.Field()
		msg, ok := messages[field]
		if !ok {
			msg = field + " ist ungültig"
		}
		errs = append(errs, FieldError{Field: field, Message: msg})
	}
	return errs
}

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
