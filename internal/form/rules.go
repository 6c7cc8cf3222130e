// internal/form/rules.go
//
// Folio – Forms subsystem: rule table.
//
// Context
//   Every kind maps to an ordered list of rules.  ValidateField walks the
//   list and stops at the first failure, so the order below is part of the
//   contract: kind-specific checks run before the name-length check.
//
// Workflow
//   •  Required check first, for every kind except checkbox.
//   •  Empty optional values pass without consulting the table.
//   •  Non-empty values run the kind's rules in order.
//   •  Checkboxes skip the table entirely; only the required flag matters.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Messages produced by the built-in rules.
const (
	MsgInvalidEmail    = "Please enter a valid email address"
	MsgInvalidPhone    = "Please enter a valid phone number"
	MsgMessageTooShort = "Message must be at least 10 characters long"
	MsgNameTooShort    = "This field must be at least 2 characters long"
	MsgCheckboxNeeded  = "This field is required"
)

const (
	minMessageLen = 10
	minNameLen    = 2
	minPhoneLen   = 10
)

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe      = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	phoneNoiseRe = regexp.MustCompile(`[\s\-()]`)
)

// nameLikeFields are treated as person names regardless of Field.NameLike.
var nameLikeFields = map[string]bool{
	"firstName":  true,
	"lastName":   true,
	"first_name": true,
	"last_name":  true,
}

// Rule is a pure predicate plus the message reported when it fails.  Check
// receives the field and its trimmed, non-empty value.
type Rule struct {
	Name    string
	Check   func(f Field, value string) bool
	Message string
}

var (
	emailRule = Rule{
		Name:    "email",
		Check:   func(_ Field, v string) bool { return emailRe.MatchString(v) },
		Message: MsgInvalidEmail,
	}
	phoneRule = Rule{
		Name: "tel",
		Check: func(_ Field, v string) bool {
			clean := phoneNoiseRe.ReplaceAllString(v, "")
			return len(clean) >= minPhoneLen && phoneRe.MatchString(clean)
		},
		Message: MsgInvalidPhone,
	}
	messageRule = Rule{
		Name:    "message_length",
		Check:   func(_ Field, v string) bool { return utf8.RuneCountInString(v) >= minMessageLen },
		Message: MsgMessageTooShort,
	}
	nameRule = Rule{
		Name: "name_length",
		Check: func(f Field, v string) bool {
			if !f.NameLike && !nameLikeFields[f.Name] {
				return true
			}
			return utf8.RuneCountInString(v) >= minNameLen
		},
		Message: MsgNameTooShort,
	}
)

// ruleTable is the kind → ordered rules mapping.  Checkbox is absent on
// purpose: its required state is the only thing evaluated.
var ruleTable = map[Kind][]Rule{
	KindText:     {nameRule},
	KindEmail:    {emailRule, nameRule},
	KindTel:      {phoneRule, nameRule},
	KindTextarea: {messageRule, nameRule},
}

func rulesFor(k Kind) []Rule { return ruleTable[k] }

// ValidateField evaluates f against the rule table.  label is the
// human-readable name used in the required message; when empty the field
// name is used instead.  The function is pure: the same field always yields
// the same Result.
func ValidateField(f Field, label string) Result {
	if f.Kind == KindCheckbox {
		return validateCheckbox(f)
	}

	v := f.trimmed()
	if v == "" {
		if f.Required {
			return invalid(requiredMsg(f, label))
		}
		return valid
	}

	for _, r := range rulesFor(f.Kind) {
		if !r.Check(f, v) {
			return invalid(r.Message)
		}
	}
	return valid
}

func validateCheckbox(f Field) Result {
	if f.Required && !f.Checked {
		if f.RequiredMessage != "" {
			return invalid(f.RequiredMessage)
		}
		return invalid(MsgCheckboxNeeded)
	}
	return valid
}

// requiredMsg formats "<label> is required".  Labels rendered with a
// trailing " *" marker have it stripped.
func requiredMsg(f Field, label string) string {
	label = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(label), "*"))
	if label == "" {
		label = f.Name
	}
	return fmt.Sprintf("%s is required", label)
}
