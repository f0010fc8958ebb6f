package authz

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/fatih/structs"
	"github.com/open-policy-agent/opa/ast"
	"github.com/open-policy-agent/opa/rego"
	"go.uber.org/zap"

	internalErrs "github.com/wardbook/records/errors"
	"github.com/wardbook/records/users"
)

const (
	policyPackage = "http.authz.records"
	queryAllow    = "allow"
	queryAdmin    = "admin"
)

var (
	//go:embed policy.rego
	authzPolicy string

	ErrForbidden = internalErrs.New(internalErrs.Forbidden, "Access denied: admin only")
)

// Request is the subject and the target of an authorization decision
type Request struct {
	Method string
	Path   string
	User   *users.User
}

type RequestAuthorizer interface {
	Authorize(ctx context.Context, request Request) error
	IsAdmin(ctx context.Context, user *users.User) (bool, error)
	RequireAdmin(ctx context.Context, user *users.User) error
	EvaluatePolicy(ctx context.Context, query string, input map[string]interface{}) (bool, error)
}

func NewRequestAuthorizer(roles users.RoleResolver, logger *zap.SugaredLogger) (RequestAuthorizer, error) {
	compiler, err := ast.CompileModules(map[string]string{
		"policy.rego": authzPolicy,
	})
	if err != nil {
		return nil, err
	}

	return &embeddedOpaAuthorizer{
		roles:  roles,
		logger: logger,
		policy: compiler,
	}, nil
}

type embeddedOpaAuthorizer struct {
	roles  users.RoleResolver
	logger *zap.SugaredLogger
	policy *ast.Compiler
}

func (e *embeddedOpaAuthorizer) Authorize(ctx context.Context, request Request) error {
	in := map[string]interface{}{
		"path":   splitPath(request.Path),
		"method": strings.ToUpper(request.Method),
	}
	if request.User != nil {
		in["user"] = e.userInput(request.User)
	}

	allowed, err := e.EvaluatePolicy(ctx, queryAllow, in)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrForbidden
	}
	return nil
}

func (e *embeddedOpaAuthorizer) IsAdmin(ctx context.Context, user *users.User) (bool, error) {
	if user == nil {
		return false, nil
	}
	return e.EvaluatePolicy(ctx, queryAdmin, map[string]interface{}{
		"user": e.userInput(user),
	})
}

func (e *embeddedOpaAuthorizer) RequireAdmin(ctx context.Context, user *users.User) error {
	admin, err := e.IsAdmin(ctx, user)
	if err != nil {
		return err
	}
	if !admin {
		return ErrForbidden
	}
	return nil
}

func (e *embeddedOpaAuthorizer) EvaluatePolicy(ctx context.Context, query string, input map[string]interface{}) (bool, error) {
	r := rego.New(
		rego.Package(policyPackage),
		rego.Query(query),
		rego.Compiler(e.policy),
		rego.Input(input),
	)

	results, err := r.Eval(ctx)
	if err != nil {
		return false, fmt.Errorf("unable to evaluate authorization policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, fmt.Errorf("evaluating authorization policy returned no results")
	}

	val, ok := results[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("unexpected authorization result: %v", results[0].Expressions[0].Value)
	}

	e.logger.Debugw("authorization policy eval", zap.String("query", query), zap.Any("input", input), zap.Bool("result", val))
	return val, nil
}

// The password hash is excluded by its json tag
func (e *embeddedOpaAuthorizer) userInput(user *users.User) map[string]interface{} {
	s := structs.New(*user)
	s.TagName = "json"
	in := s.Map()
	in["_id"] = user.IdString()
	in["role"] = string(e.roles.RoleOf(user))
	return in
}

func splitPath(path string) []string {
	split := strings.Split(strings.Trim(path, "/"), "/")
	if len(split) == 1 && split[0] == "" {
		return []string{}
	}
	return split
}
