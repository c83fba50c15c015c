// Package inputval validates decoded JSON payloads with waffle/pantry/validate.
//
// Payload structs carry `validate` tags for rules and `label` tags for the
// name used in messages. Handlers answer 400 with the first message:
//
//	if res := inputval.Validate(in); res.HasErrors() {
//	    jsonutil.BadRequest(w, res.First())
//	    return
//	}
package inputval

import (
	"net/mail"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/stratawell/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/validate"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldError is one failed rule on one payload field.
type FieldError struct {
	Field   string
	Label   string
	Message string
}

// Result collects field errors in struct order.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First is the message for the first failed field, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// customRule is a string rule registered on top of pantry/validate.
type customRule struct {
	check   func(string) bool
	message func(label string) string
}

var customRules = map[string]customRule{
	"urlorpath": {
		check: func(s string) bool { return s == "" || IsValidURLOrPath(s) },
		message: func(label string) string {
			return label + " must be a URL starting with http:// or https://, or a path starting with /."
		},
	},
	"billingcycle": {
		check: func(s string) bool {
			return models.IsValidBillingCycle(strings.ToLower(strings.TrimSpace(s)))
		},
		message: func(label string) string {
			return label + " must be one of: " + strings.Join(models.AllBillingCycles(), ", ") + "."
		},
	},
	"objectid": {
		check:   IsValidObjectID,
		message: func(label string) string { return label + " is not a valid ID." },
	},
}

var (
	validator     *validate.Validator
	validatorOnce sync.Once
	labelCache    sync.Map // reflect.Type -> map[string]string
)

func engine() *validate.Validator {
	validatorOnce.Do(func() {
		validator = validate.New(validate.WithStopOnFirstError())
		for name, rule := range customRules {
			check := rule.check
			validator.RegisterRuleFunc(name, func(value any) bool {
				s, ok := value.(string)
				return ok && check(s)
			}, name)
		}
	})
	return validator
}

// Validate runs the struct's rules. Built-in rules are required, email,
// oneof, min and max; urlorpath, billingcycle and objectid are added here.
// Non-struct values yield an empty Result.
func Validate(s any) *Result {
	res := &Result{}
	err := engine().Struct(s)
	if err == nil {
		return res
	}
	errs, ok := err.(validate.Errors)
	if !ok {
		return res
	}

	labels := labelsFor(s)
	for _, e := range errs {
		label := labels[e.Field]
		if label == "" {
			label = e.Field
		}
		res.Errors = append(res.Errors, FieldError{
			Field:   e.Field,
			Label:   label,
			Message: message(label, e.Rule, e.Param),
		})
	}
	return res
}

// labelsFor maps each field's JSON name (or Go name) to its label tag.
func labelsFor(s any) map[string]string {
	t := reflect.TypeOf(s)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := labelCache.Load(t); ok {
		return cached.(map[string]string)
	}

	labels := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		label := f.Tag.Get("label")
		if label == "" {
			continue
		}
		name := f.Name
		if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" && tag != "-" {
			name = tag
		}
		labels[name] = label
	}
	labelCache.Store(t, labels)
	return labels
}

func message(label, rule, param string) string {
	if r, ok := customRules[rule]; ok {
		return r.message(label)
	}
	switch rule {
	case "required":
		return label + " is required."
	case "email":
		return "A valid email address is required."
	case "oneof", "enum":
		return label + " must be one of: " + strings.ReplaceAll(param, " ", ", ") + "."
	case "min":
		return label + " must be at least " + param + " characters."
	case "max":
		return label + " must be at most " + param + " characters."
	}
	return label + " is invalid."
}

// IsValidEmail accepts a bare RFC 5322 address ("Name <a@b>" is rejected).
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// IsValidHTTPURL reports whether s parses with an http or https scheme.
func IsValidHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// IsValidURLOrPath accepts an http(s) URL or a site-relative path such as
// "/assets/service-traditional.jpg". Protocol-relative "//host" is refused.
func IsValidURLOrPath(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
		return true
	}
	return IsValidHTTPURL(s)
}

// IsValidObjectID reports whether s is a 24-char ObjectID hex string.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}
