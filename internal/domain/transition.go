package domain

// Role is the acting party attempting a transition. Buyers and sellers are
// bound to the order's own parties; admins come from the dispute-resolution
// tooling and are not a party to the order.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	default:
		return false
	}
}

// Action is an edge label of the order lifecycle.
type Action string

const (
	ActionPay            Action = "pay"
	ActionCancel         Action = "cancel"
	ActionAccept         Action = "accept"
	ActionStart          Action = "start"
	ActionComplete       Action = "complete"
	ActionApprove        Action = "approve"
	ActionOpenDispute    Action = "open-dispute"
	ActionResolveRelease Action = "resolve-release"
	ActionResolveRefund  Action = "resolve-refund"
)

// LedgerEffect is the funds movement an edge requires, if any.
type LedgerEffect string

const (
	EffectNone    LedgerEffect = ""
	EffectCapture LedgerEffect = "capture"
	EffectRelease LedgerEffect = "release"
	EffectRefund  LedgerEffect = "refund"
)

// Edge describes one action of the lifecycle: who may attempt it, which
// statuses admit it, where it leads and what it does to the escrowed funds.
type Edge struct {
	Roles  []Role
	From   []OrderStatus
	To     OrderStatus
	Effect LedgerEffect
}

// Edges is the whole lifecycle as data. Every legal transition of an order is
// a row here; anything absent is rejected.
var Edges = map[Action]Edge{
	ActionPay:            {Roles: []Role{RoleBuyer}, From: []OrderStatus{StatusPending}, To: StatusPaid, Effect: EffectCapture},
	ActionCancel:         {Roles: []Role{RoleBuyer}, From: []OrderStatus{StatusPaid}, To: StatusCancelled, Effect: EffectRefund},
	ActionAccept:         {Roles: []Role{RoleSeller}, From: []OrderStatus{StatusPaid}, To: StatusAccepted},
	ActionStart:          {Roles: []Role{RoleSeller}, From: []OrderStatus{StatusAccepted}, To: StatusInProgress},
	ActionComplete:       {Roles: []Role{RoleSeller}, From: []OrderStatus{StatusInProgress}, To: StatusReview},
	ActionApprove:        {Roles: []Role{RoleBuyer}, From: []OrderStatus{StatusReview}, To: StatusCompleted, Effect: EffectRelease},
	ActionOpenDispute:    {Roles: []Role{RoleBuyer, RoleSeller}, From: []OrderStatus{StatusInProgress, StatusReview}, To: StatusDispute},
	ActionResolveRelease: {Roles: []Role{RoleAdmin}, From: []OrderStatus{StatusDispute}, To: StatusCompleted, Effect: EffectRelease},
	ActionResolveRefund:  {Roles: []Role{RoleAdmin}, From: []OrderStatus{StatusDispute}, To: StatusCancelled, Effect: EffectRefund},
}

// Transition is a validated plan for advancing one order by one edge.
type Transition struct {
	Action Action
	From   OrderStatus
	To     OrderStatus
	Effect LedgerEffect
}

// Plan validates (order, actor, action) against the lifecycle and returns the
// transition to apply. It performs no I/O and never mutates the order.
//
// Check order matters: role and identity are verified before the status, so a
// seller calling pay is always ErrUnauthorized regardless of where the order
// currently is.
func Plan(order Order, role Role, actorID string, action Action) (Transition, error) {
	edge, ok := Edges[action]
	if !ok {
		return Transition{}, ErrUnknownAction
	}

	if !roleAllowed(edge.Roles, role) {
		return Transition{}, ErrUnauthorized
	}
	switch role {
	case RoleBuyer:
		if actorID != order.BuyerID {
			return Transition{}, ErrUnauthorized
		}
	case RoleSeller:
		if actorID != order.SellerID {
			return Transition{}, ErrUnauthorized
		}
	case RoleAdmin:
		// Admin identity is asserted by the caller's elevated credentials,
		// not by membership in the order.
	default:
		return Transition{}, ErrUnknownRole
	}

	if !statusAdmits(edge.From, order.Status) {
		return Transition{}, ErrInvalidTransition
	}

	return Transition{
		Action: action,
		From:   order.Status,
		To:     edge.To,
		Effect: edge.Effect,
	}, nil
}

func roleAllowed(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func statusAdmits(from []OrderStatus, status OrderStatus) bool {
	for _, s := range from {
		if s == status {
			return true
		}
	}
	return false
}
