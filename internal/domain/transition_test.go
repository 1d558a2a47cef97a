package domain

import "testing"

const (
	buyerID  = "buyer-1"
	sellerID = "seller-1"
)

func orderAt(status OrderStatus) Order {
	return Order{
		ID:       "order-1",
		BuyerID:  buyerID,
		SellerID: sellerID,
		Price:    150000,
		Status:   status,
	}
}

func actorFor(role Role) string {
	switch role {
	case RoleBuyer:
		return buyerID
	case RoleSeller:
		return sellerID
	default:
		return "admin-1"
	}
}

func TestPlan_LegalEdges(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status OrderStatus
		role   Role
		action Action
		to     OrderStatus
		effect LedgerEffect
	}{
		{"buyer pays pending", StatusPending, RoleBuyer, ActionPay, StatusPaid, EffectCapture},
		{"buyer cancels paid", StatusPaid, RoleBuyer, ActionCancel, StatusCancelled, EffectRefund},
		{"seller accepts paid", StatusPaid, RoleSeller, ActionAccept, StatusAccepted, EffectNone},
		{"seller starts accepted", StatusAccepted, RoleSeller, ActionStart, StatusInProgress, EffectNone},
		{"seller completes in_progress", StatusInProgress, RoleSeller, ActionComplete, StatusReview, EffectNone},
		{"buyer approves review", StatusReview, RoleBuyer, ActionApprove, StatusCompleted, EffectRelease},
		{"buyer disputes in_progress", StatusInProgress, RoleBuyer, ActionOpenDispute, StatusDispute, EffectNone},
		{"seller disputes in_progress", StatusInProgress, RoleSeller, ActionOpenDispute, StatusDispute, EffectNone},
		{"buyer disputes review", StatusReview, RoleBuyer, ActionOpenDispute, StatusDispute, EffectNone},
		{"seller disputes review", StatusReview, RoleSeller, ActionOpenDispute, StatusDispute, EffectNone},
		{"admin resolves release", StatusDispute, RoleAdmin, ActionResolveRelease, StatusCompleted, EffectRelease},
		{"admin resolves refund", StatusDispute, RoleAdmin, ActionResolveRefund, StatusCancelled, EffectRefund},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr, err := Plan(orderAt(tc.status), tc.role, actorFor(tc.role), tc.action)
			if err != nil {
				t.Fatalf("expected legal transition, got %v", err)
			}
			if tr.From != tc.status {
				t.Fatalf("expected from %s, got %s", tc.status, tr.From)
			}
			if tr.To != tc.to {
				t.Fatalf("expected to %s, got %s", tc.to, tr.To)
			}
			if tr.Effect != tc.effect {
				t.Fatalf("expected effect %q, got %q", tc.effect, tr.Effect)
			}
		})
	}
}

// Every (status, role, action) triple not in the table above must be
// rejected, and role gating must win over status checks.
func TestPlan_IllegalTriplesRejected(t *testing.T) {
	t.Parallel()

	allStatuses := []OrderStatus{
		StatusPending, StatusPaid, StatusAccepted, StatusInProgress,
		StatusReview, StatusCompleted, StatusCancelled, StatusDispute,
	}
	allRoles := []Role{RoleBuyer, RoleSeller, RoleAdmin}
	allActions := []Action{
		ActionPay, ActionCancel, ActionAccept, ActionStart, ActionComplete,
		ActionApprove, ActionOpenDispute, ActionResolveRelease, ActionResolveRefund,
	}

	legal := func(status OrderStatus, role Role, action Action) bool {
		edge, ok := Edges[action]
		if !ok {
			return false
		}
		return roleAllowed(edge.Roles, role) && statusAdmits(edge.From, status)
	}

	for _, status := range allStatuses {
		for _, role := range allRoles {
			for _, action := range allActions {
				if legal(status, role, action) {
					continue
				}
				_, err := Plan(orderAt(status), role, actorFor(role), action)
				if err != ErrUnauthorized && err != ErrInvalidTransition {
					t.Fatalf("(%s, %s, %s): expected unauthorized or invalid transition, got %v",
						status, role, action, err)
				}
				edge := Edges[action]
				if !roleAllowed(edge.Roles, role) && err != ErrUnauthorized {
					t.Fatalf("(%s, %s, %s): wrong role must be unauthorized, got %v",
						status, role, action, err)
				}
			}
		}
	}
}

func TestPlan_WrongIdentityIsUnauthorized(t *testing.T) {
	t.Parallel()

	order := orderAt(StatusPending)

	if _, err := Plan(order, RoleBuyer, "somebody-else", ActionPay); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for impostor buyer, got %v", err)
	}
	if _, err := Plan(orderAt(StatusPaid), RoleSeller, buyerID, ActionAccept); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for buyer claiming seller role, got %v", err)
	}
}

func TestPlan_TerminalStatusesAdmitNothing(t *testing.T) {
	t.Parallel()

	for _, status := range []OrderStatus{StatusCompleted, StatusCancelled} {
		for action, edge := range Edges {
			role := edge.Roles[0]
			_, err := Plan(orderAt(status), role, actorFor(role), action)
			if err != ErrInvalidTransition {
				t.Fatalf("(%s, %s): expected ErrInvalidTransition, got %v", status, action, err)
			}
		}
	}
}

func TestPlan_UnknownActionAndRole(t *testing.T) {
	t.Parallel()

	if _, err := Plan(orderAt(StatusPending), RoleBuyer, buyerID, Action("teleport")); err != ErrUnknownAction {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
	if _, err := Plan(orderAt(StatusInProgress), Role("auditor"), buyerID, ActionOpenDispute); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for unknown role, got %v", err)
	}
}
