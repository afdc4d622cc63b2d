package httpapi

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"community/internal/domain"
	"community/internal/domain/entities"
)

//go:embed authz_model.conf
var authzModel string

//go:embed authz_policy.csv
var authzPolicy string

const anonymousSubject = "anonymous"

// Resources guarded at the HTTP edge.
const (
	resEvents        = "events"
	resOrganization  = "organization"
	resRegistrations = "registrations"
	resAppraisals    = "appraisals"
	resFeedback      = "feedback"
	resNotifications = "notifications"
	resAssistant     = "assistant"
)

// denials names the error reported to an authenticated caller whose role
// lacks the permission. Unlisted resources report domain.ErrForbidden.
var denials = map[string]error{
	resEvents:        domain.ErrOrganizationOnly,
	resOrganization:  domain.ErrOrganizationOnly,
	resRegistrations: domain.ErrParticipantOnly,
	resAppraisals:    domain.ErrOrganizationAppraise,
}

// Authorizer decides role permissions with a casbin RBAC model.
type Authorizer struct {
	enforcer *casbin.SyncedEnforcer
}

func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(authzModel)
	if err != nil {
		return nil, fmt.Errorf("load casbin model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}
	if err := loadPolicy(e, authzPolicy); err != nil {
		return nil, err
	}
	return &Authorizer{enforcer: e}, nil
}

func loadPolicy(e *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		var err error
		switch {
		case parts[0] == "p" && len(parts) == 4:
			_, err = e.AddPolicy(parts[1], parts[2], parts[3])
		case parts[0] == "g" && len(parts) == 3:
			_, err = e.AddGroupingPolicy(parts[1], parts[2])
		default:
			err = fmt.Errorf("malformed line %q", line)
		}
		if err != nil {
			return fmt.Errorf("load casbin policy: %w", err)
		}
	}
	return nil
}

// Check returns nil when p may perform action on resource. Anonymous
// callers that are refused get domain.ErrUnauthorized.
func (a *Authorizer) Check(p *entities.Principal, resource, action string) error {
	subject := anonymousSubject
	if p != nil {
		subject = p.Role
	}
	ok, err := a.enforcer.Enforce(subject, resource, action)
	if err != nil {
		return fmt.Errorf("enforce %s %s: %w", resource, action, err)
	}
	switch {
	case ok:
		return nil
	case p == nil:
		return domain.ErrUnauthorized
	}
	if denial, found := denials[resource]; found {
		return denial
	}
	return domain.ErrForbidden
}
