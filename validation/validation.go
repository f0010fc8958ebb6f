package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/go-playground/validator/v10"
)

const DateLayout = "2006-01-02"

var (
	phoneRegexp         = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)
	bloodPressureRegexp = regexp.MustCompile(`^\d{2,3}/\d{2,3}$`)

	enums   = map[string]mapset.Set[string]{}
	enumsMu sync.RWMutex

	instance     *validator.Validate
	instanceOnce sync.Once

	// Now is replaced in tests
	Now = time.Now
)

// RegisterEnum declares the allowed values for fields tagged with `enum=<name>`
func RegisterEnum(name string, values ...string) mapset.Set[string] {
	enumsMu.Lock()
	defer enumsMu.Unlock()

	set := mapset.NewSet[string](values...)
	enums[name] = set
	return set
}

func IsEnumValue(name string, value string) bool {
	enumsMu.RLock()
	defer enumsMu.RUnlock()

	set, ok := enums[name]
	return ok && set.Contains(value)
}

// Validator returns the shared validator with the custom tags registered
func Validator() *validator.Validate {
	instanceOnce.Do(func() {
		instance = newValidator()
	})
	return instance
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must(v.RegisterValidation("enum", validateEnum))
	must(v.RegisterValidation("calendardate", validateCalendarDate))
	must(v.RegisterValidation("notfuture", validateNotFuture))
	must(v.RegisterValidation("phone", validatePattern(phoneRegexp)))
	must(v.RegisterValidation("bloodpressure", validatePattern(bloodPressureRegexp)))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func Struct(s interface{}) error {
	if err := Validator().Struct(s); err != nil {
		return Describe(err)
	}
	return nil
}

// FieldError describes a single failed constraint
type FieldError struct {
	Field string
	Rule  string
	Param string
}

func (f FieldError) String() string {
	if f.Param != "" {
		return fmt.Sprintf("%s failed %s=%s", f.Field, f.Rule, f.Param)
	}
	return fmt.Sprintf("%s failed %s", f.Field, f.Rule)
}

type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return "invalid " + strings.Join(parts, ", ")
}

// Describe converts validator errors into an *Error with json field paths
func Describe(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	result := &Error{}
	for _, fe := range validationErrs {
		namespace := fe.Namespace()
		if i := strings.Index(namespace, "."); i >= 0 {
			namespace = namespace[i+1:]
		}
		result.Fields = append(result.Fields, FieldError{
			Field: namespace,
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return result
}

func validateEnum(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return IsEnumValue(fl.Param(), field.String())
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

func validateNotFuture(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch value := field.Interface().(type) {
	case string:
		date, err := ParseDate(value)
		if err != nil {
			return false
		}
		return !date.After(today())
	case time.Time:
		return !value.After(Now())
	}
	return false
}

func validatePattern(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// ParseDate accepts calendar dates (2006-01-02) and RFC3339 timestamps
func ParseDate(value string) (time.Time, error) {
	if date, err := time.Parse(DateLayout, value); err == nil {
		return date, nil
	}
	date, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC), nil
}

func today() time.Time {
	now := Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
