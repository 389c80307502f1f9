// Package access evaluates route access rules against an authenticated principal.
//
// Guards never branch on rule types themselves: they build a list of Rules and
// hand it to Evaluate, which returns a uniform Decision.
package access

import (
	"fmt"
	"strings"
)

// Principal is the minimal view of a user needed to evaluate rules.
type Principal interface {
	HasPermission(name string) bool
	HasRole(name string) bool
}

// Kind tags the variant held by a Rule.
type Kind uint8

const (
	KindNone Kind = iota
	KindPermission
	KindRole
	KindAdmin
)

// Rule is a tagged access requirement.
// The zero value is NoRequirement.
type Rule struct {
	kind Kind
	name string
}

// NoRequirement allows every authenticated principal.
func NoRequirement() Rule { return Rule{} }

// PermissionRequired requires the named permission.
func PermissionRequired(name string) Rule {
	return Rule{kind: KindPermission, name: strings.TrimSpace(name)}
}

// RoleRequired requires the named role.
func RoleRequired(name string) Rule {
	return Rule{kind: KindRole, name: strings.TrimSpace(name)}
}

// AdminRequired requires the admin role and, when permission is not empty,
// the given fine-grained admin permission as well.
func AdminRequired(permission string) Rule {
	return Rule{kind: KindAdmin, name: strings.TrimSpace(permission)}
}

// Kind returns the variant tag.
func (r Rule) Kind() Kind { return r.kind }

// Name returns the permission or role name carried by the rule.
func (r Rule) Name() string { return r.name }

func (r Rule) String() string {
	switch r.kind {
	case KindPermission:
		return "permission:" + r.name
	case KindRole:
		return "role:" + r.name
	case KindAdmin:
		if r.name == "" {
			return "admin"
		}
		return "admin:" + r.name
	default:
		return "none"
	}
}

// Rules builds the rule list for the optional permission/role pair used by route declarations.
func Rules(requiredPermission, requiredRole string) []Rule {
	var out []Rule
	if requiredPermission != "" {
		out = append(out, PermissionRequired(requiredPermission))
	}
	if requiredRole != "" {
		out = append(out, RoleRequired(requiredRole))
	}
	return out
}

// Reason explains a denial.
type Reason string

const (
	ReasonUnauthenticated   Reason = "unauthenticated"
	ReasonMissingPermission Reason = "missing_permission"
	ReasonMissingRole       Reason = "missing_role"
	ReasonNotAdmin          Reason = "not_admin"
)

// Decision is the outcome of Evaluate: Allowed, or Denied with a reason.
type Decision struct {
	Allowed bool
	Reason  Reason
	Rule    Rule
}

// Allow is the allowed decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny builds a denied decision for rule.
func Deny(reason Reason, rule Rule) Decision {
	return Decision{Reason: reason, Rule: rule}
}

func (d Decision) String() string {
	if d.Allowed {
		return "allowed"
	}
	return fmt.Sprintf("denied(%s, %s)", d.Reason, d.Rule)
}

// Evaluate checks every rule in order and returns the first denial.
// A nil principal satisfies only NoRequirement rules.
func Evaluate(p Principal, rules ...Rule) Decision {
	for _, rule := range rules {
		if d := evaluateOne(p, rule); !d.Allowed {
			return d
		}
	}
	return Allow()
}

func evaluateOne(p Principal, rule Rule) Decision {
	if rule.kind == KindNone {
		return Allow()
	}
	if p == nil {
		return Deny(ReasonUnauthenticated, rule)
	}

	switch rule.kind {
	case KindPermission:
		if !p.HasPermission(rule.name) {
			return Deny(ReasonMissingPermission, rule)
		}
	case KindRole:
		if !p.HasRole(rule.name) {
			return Deny(ReasonMissingRole, rule)
		}
	case KindAdmin:
		if !p.HasRole(RoleAdmin) {
			return Deny(ReasonNotAdmin, rule)
		}
		if rule.name != "" && !p.HasPermission(rule.name) {
			return Deny(ReasonMissingPermission, rule)
		}
	}
	return Allow()
}

// RoleAdmin is the role name AdminRequired checks for.
const RoleAdmin = "admin"
