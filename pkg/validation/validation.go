// Package validation evaluates typed field rules against JSON request
// bodies. Each rule is a constraint record (required, type, bounds,
// pattern, enum) applied uniformly; failures collect into a single 400.
package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

type Rule struct {
	Required bool
	Type     Type
	Min      int // minimum length for strings, minimum value for numbers
	Max      int // 0 means no maximum
	Pattern  *regexp.Regexp
	Enum     []string
}

type Rules map[string]Rule

// Check evaluates every rule against body and returns the list of failure
// messages. Fields are checked in sorted order so output is deterministic.
func Check(body map[string]any, rules Rules) []string {
	fields := make([]string, 0, len(rules))
	for f := range rules {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var errs []string
	for _, field := range fields {
		rule := rules[field]
		value, present := body[field]

		if rule.Required && (!present || value == nil || value == "") {
			errs = append(errs, fmt.Sprintf("Campo '%s' é obrigatório", field))
			continue
		}
		if !present || value == nil {
			continue
		}

		if rule.Type != "" && typeOf(value) != rule.Type {
			errs = append(errs, fmt.Sprintf("Campo '%s' deve ser do tipo %s", field, rule.Type))
			continue
		}

		switch v := value.(type) {
		case string:
			if rule.Min > 0 && len([]rune(v)) < rule.Min {
				errs = append(errs, fmt.Sprintf("Campo '%s' deve ter no mínimo %d caracteres", field, rule.Min))
			}
			if rule.Max > 0 && len([]rune(v)) > rule.Max {
				errs = append(errs, fmt.Sprintf("Campo '%s' deve ter no máximo %d caracteres", field, rule.Max))
			}
			if rule.Pattern != nil && !rule.Pattern.MatchString(v) {
				errs = append(errs, fmt.Sprintf("Campo '%s' está em formato inválido", field))
			}
			if len(rule.Enum) > 0 && !contains(rule.Enum, v) {
				errs = append(errs, fmt.Sprintf("Campo '%s' deve ser um dos valores: %s", field, strings.Join(rule.Enum, ", ")))
			}
		case float64:
			if rule.Min > 0 && v < float64(rule.Min) {
				errs = append(errs, fmt.Sprintf("Campo '%s' deve ser maior ou igual a %d", field, rule.Min))
			}
			if rule.Max > 0 && v > float64(rule.Max) {
				errs = append(errs, fmt.Sprintf("Campo '%s' deve ser menor ou igual a %d", field, rule.Max))
			}
		}
	}
	return errs
}

// Body returns a Fiber middleware that validates the JSON body against
// rules before the handler runs.
func Body(rules Rules) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := map[string]any{}
		if raw := c.Body(); len(raw) > 0 {
			if err := json.Unmarshal(raw, &body); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"success": false, "message": "JSON inválido",
				})
			}
		}

		if errs := Check(body, rules); len(errs) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Erro de validação",
				"errors":  errs,
			})
		}
		return c.Next()
	}
}

func typeOf(v any) Type {
	switch v.(type) {
	case string:
		return TypeString
	case float64:
		return TypeNumber
	case bool:
		return TypeBoolean
	case []any:
		return TypeArray
	case map[string]any:
		return TypeObject
	default:
		return ""
	}
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
