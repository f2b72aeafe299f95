// Package authz centralizes the access policy: role and organizational scope
// decide every read and mutation, in one place instead of ad hoc checks
// scattered through handlers.
package authz

import (
	"github.com/google/uuid"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/pkg/errors"
)

// Operation classifies what the actor is attempting.
type Operation int

const (
	// OpRead covers list and detail access.
	OpRead Operation = iota
	// OpMutate covers club-level changes: create, edit, delete, submit.
	OpMutate
	// OpReview covers federation-gated decisions: validate, reject,
	// move under review. Club actors are denied regardless of club match.
	OpReview
)

// Evaluator decides whether a principal may perform an operation against an
// entity owned by a club. Every denial is the same generic Forbidden so
// out-of-scope existence never leaks.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// CanAccess evaluates (actor role, actor scope, entity scope, operation).
func (e *Evaluator) CanAccess(p *model.Principal, ownerClubID uuid.UUID, op Operation) error {
	if p == nil {
		return errors.Forbidden()
	}

	if p.IsFederationAdmin() {
		return nil
	}

	if op == OpReview {
		return errors.Forbidden()
	}

	if !p.MemberOfClub(ownerClubID) {
		return errors.Forbidden()
	}

	return nil
}

// RequireFederationAdmin gates operations that have no club-scoped variant,
// such as issuing invitations or triaging quotes.
func (e *Evaluator) RequireFederationAdmin(p *model.Principal) error {
	if p == nil || !p.IsFederationAdmin() {
		return errors.Forbidden()
	}
	return nil
}
