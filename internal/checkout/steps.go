package checkout

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/azursoldev/likes-io/internal/catalog"
	"github.com/azursoldev/likes-io/internal/pricing"
)

type Step string

const (
	StepDetails Step = "details"
	StepTargets Step = "targets"
	StepPayment Step = "payment"
	StepDone    Step = "done"
)

func (s Step) valid() bool {
	switch s {
	case StepDetails, StepTargets, StepPayment, StepDone:
		return true
	}
	return false
}

var validNext = map[Step]map[Step]bool{
	StepDetails: {StepTargets: true, StepPayment: true},
	StepTargets: {StepPayment: true},
	StepPayment: {StepDone: true},
	StepDone:    {},
}

func CanTransition(from, to Step) bool {
	return validNext[from][to]
}

var (
	ErrNotOffered        = errors.New("service not offered on platform")
	ErrMissingIdentifier = errors.New("target identifier required")
	ErrBadIdentifier     = errors.New("malformed target identifier")
	ErrMissingQuantity   = errors.New("quantity and price required")
	ErrMissingTargets    = errors.New("at least one target required")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrTierMismatch      = errors.New("package does not match catalog")
)

// validTargets rejects identifiers that cannot survive the comma-joined
// query-parameter round trip.
func validTargets(targets []string) error {
	for _, t := range targets {
		if strings.ContainsAny(t, ", \t\n") {
			return ErrBadIdentifier
		}
	}
	return nil
}

// Next returns the step that follows the current one. The targets page only
// exists for content-scoped services; account-scoped services go straight to
// payment.
func (s State) Next() Step {
	switch s.Step {
	case StepDetails:
		if catalog.ContentScoped(s.ServiceType) {
			return StepTargets
		}
		return StepPayment
	case StepTargets:
		return StepPayment
	case StepPayment:
		return StepDone
	}
	return s.Step
}

// CanAdvance validates the fields the current step requires before the state
// may move forward.
func (s State) CanAdvance() error {
	switch s.Step {
	case StepDetails:
		if !catalog.Offered(s.Platform, s.ServiceType) {
			return ErrNotOffered
		}
		if len(s.Targets) == 0 {
			return ErrMissingIdentifier
		}
		if err := validTargets(s.Targets); err != nil {
			return err
		}
		if s.Quantity <= 0 || !s.Price.IsPositive() {
			return ErrMissingQuantity
		}
	case StepTargets:
		if len(s.Targets) == 0 {
			return ErrMissingTargets
		}
		if err := validTargets(s.Targets); err != nil {
			return err
		}
		if err := pricing.CheckTargets(s.Quantity, len(s.Targets)); err != nil {
			return err
		}
	case StepPayment:
		if _, err := mail.ParseAddress(s.Email); err != nil {
			return ErrInvalidEmail
		}
		if len(s.Targets) == 0 {
			return ErrMissingTargets
		}
		if err := validTargets(s.Targets); err != nil {
			return err
		}
		if catalog.ContentScoped(s.ServiceType) {
			if err := pricing.CheckTargets(s.Quantity, len(s.Targets)); err != nil {
				return err
			}
		}
	}
	return nil
}

// CanAdvanceWith runs CanAdvance plus the catalog-dependent checks the field
// validation alone cannot make. A quantity that exists in the ladder must
// carry the ladder's price; an unknown quantity is a one-off custom package
// that may be browsed but never paid for.
func (s State) CanAdvanceWith(tiers []catalog.PackageTier) error {
	if err := s.CanAdvance(); err != nil {
		return err
	}
	switch s.Step {
	case StepDetails:
		if _, ok := catalog.FindQuantity(tiers, s.Quantity); !ok {
			return nil
		}
		if catalog.MatchTier(tiers, s.Quantity, s.Price).Custom {
			return ErrTierMismatch
		}
	case StepPayment:
		if _, ok := catalog.FindQuantity(tiers, s.Quantity); !ok {
			return ErrTierMismatch
		}
	}
	return nil
}

// Advance moves the state to the next step after validation.
func (s State) Advance() (State, error) {
	if err := s.CanAdvance(); err != nil {
		return s, err
	}
	next := s.Next()
	if !CanTransition(s.Step, next) {
		return s, errors.New("no forward step")
	}
	s.Step = next
	return s, nil
}
