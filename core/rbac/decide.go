package rbac

// Action is something an actor tries to do through the admin panel.
type Action string

const (
	ActionView         Action = "view"
	ActionCreate       Action = "create"
	ActionEdit         Action = "edit"
	ActionDelete       Action = "delete"
	ActionChangeRole   Action = "changeRole"
	ActionChangeStatus Action = "changeStatus"
)

// DenyReason explains a Deny decision.
type DenyReason string

const (
	ReasonInsufficientRole    DenyReason = "insufficient role"
	ReasonSelfActionForbidden DenyReason = "self action forbidden"
	ReasonUnknownTarget       DenyReason = "unknown target"
)

type (
	// Actor is the authenticated user a decision is made for. It is passed
	// explicitly to every Decide call; there is no ambient session lookup.
	Actor struct {
		ID   string
		Role Role
	}

	// Target is either another actor or a managed entity.
	Target struct {
		Collection string
		ID         string
		actor      bool
		actorRole  Role
	}

	Decision struct {
		Allowed bool
		Reason  DenyReason
	}
)

// ActorTarget describes another user as the target of an action.
func ActorTarget(id string, role Role) Target {
	return Target{Collection: "users", ID: id, actor: true, actorRole: role}
}

// EntityTarget describes a managed record as the target of an action.
func EntityTarget(collection, id string) Target {
	return Target{Collection: collection, ID: id}
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// Decide is the permission evaluator: a pure function of its three inputs.
// It is a UX-layer gate enforced before any store call; the store's own rule
// layer remains the security boundary.
func Decide(actor Actor, target Target, action Action) Decision {
	if actor.ID == "" || target.Collection == "" {
		return deny(ReasonUnknownTarget)
	}

	if target.actor {
		return decideActorTarget(actor, target, action)
	}

	// Managed entities: anyone may view; mutations require the admin threshold.
	if action == ActionView {
		return allow()
	}
	if !actor.Role.IsAdmin() {
		return deny(ReasonInsufficientRole)
	}
	return allow()
}

func decideActorTarget(actor Actor, target Target, action Action) Decision {
	switch action {
	case ActionView:
		if actor.Role.IsAdmin() {
			return allow()
		}
		return deny(ReasonInsufficientRole)

	case ActionEdit, ActionDelete, ActionChangeRole:
		// No self-demotion, no self-deletion. This holds for every rank,
		// including the maximal role: the bootstrap invariant (at least one
		// SuperAdmin) survives because nobody can revoke their own seat.
		if target.ID == actor.ID {
			return deny(ReasonSelfActionForbidden)
		}
		if actor.Role.IsMaximal() {
			return allow()
		}
		if actor.Role.Rank() > target.actorRole.Rank() {
			return allow()
		}
		return deny(ReasonInsufficientRole)

	default:
		// create/changeStatus make no sense against an actor record.
		return deny(ReasonInsufficientRole)
	}
}
