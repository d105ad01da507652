// internal/app/workflow/groupflow/groupflow.go

// Package groupflow orchestrates the multi-step group mutations against the
// data service. A membership lives on both entities (user.myGroups and
// group.members) and the store offers no cross-entity transaction, so each
// operation here is an explicit step sequence: steps commit in order, the
// first failure aborts the rest, and there is no compensation. The partial
// state each interruption leaves behind is documented on the operation.
package groupflow

import (
	"context"

	"github.com/dalemusser/circle360/internal/app/policy/grouppolicy"
	"github.com/dalemusser/circle360/internal/app/store/dataservice"
	"github.com/dalemusser/circle360/internal/app/system/apierr"
	"github.com/dalemusser/circle360/internal/domain/models"
	"go.uber.org/zap"
)

// Engine runs the group mutation workflows. Stateless; safe for concurrent
// use. Concurrent mutations of the same group are not coordinated here —
// the data service's own concurrency control is the only defense.
type Engine struct {
	store *dataservice.Client
	log   *zap.Logger
}

// New constructs an Engine over the data service client.
func New(store *dataservice.Client, logger *zap.Logger) *Engine {
	return &Engine{store: store, log: logger}
}

// CreateGroup makes the requester the admin of a brand-new group and returns
// its group code. Never idempotent: calling twice creates two groups.
//
// Steps: (1) create the group record, (2) attach the admin membership to the
// requester's profile. If step 2 fails the group exists with no members; it
// is logged and left for reconciliation, not rolled back.
func (e *Engine) CreateGroup(ctx context.Context, requester models.User) (string, error) {
	group, err := e.store.CreateGroup(ctx, requester.Email, requester.ID)
	if err != nil {
		return "", err
	}

	if err := e.store.AttachGroup(ctx, group.ID, requester.Email, true); err != nil {
		e.log.Error("group created but admin membership not attached; orphan group remains",
			zap.String("group_code", group.GroupCode),
			zap.String("email", requester.Email),
			zap.Error(err))
		return "", err
	}

	return group.GroupCode, nil
}

// UpdateGroup applies the public flag and/or the requester-side rename. At
// least one of the two must be present. Both sub-operations are admin-gated;
// each runs independently, flag first, so a rename failure can leave the
// flag already committed.
func (e *Engine) UpdateGroup(ctx context.Context, requester models.User, groupCode string, public *bool, name string) error {
	if public == nil && name == "" {
		return apierr.New(apierr.BadRequest, "bad request")
	}

	membership, ok := requester.FindGroup(groupCode)
	if !ok {
		return apierr.New(apierr.NotFound, "bad request - user is not a member of this group")
	}

	if public != nil {
		if !grouppolicy.CanSetPublicFlag(membership) {
			return apierr.New(apierr.Forbidden, "bad request - user is not admin")
		}
		if err := e.store.SetGroupPublic(ctx, groupCode, *public); err != nil {
			return err
		}
	}

	if name != "" {
		if !grouppolicy.CanRenameGroup(membership) {
			return apierr.New(apierr.Forbidden, "bad request - user is not admin")
		}
		if err := e.store.RenameGroup(ctx, membership.Group.ID, requester.Email, name); err != nil {
			return err
		}
	}

	return nil
}

// DeleteGroup removes the group and cascades the detach across every member
// that had accepted, using the requester's pre-deletion snapshot of the
// member list. The guard runs before any downstream call: a non-admin
// requester mutates nothing.
//
// Steps: (1) delete the group record, (2..n) detach the group from each
// accepted member's profile, sequentially. A failure partway leaves the
// remaining members referencing a deleted group; logged, not retried.
func (e *Engine) DeleteGroup(ctx context.Context, requester models.User, groupCode string) error {
	membership, ok := requester.FindGroup(groupCode)
	if !ok {
		return apierr.New(apierr.NotFound, "bad request - user is not a member of this group")
	}
	if !grouppolicy.CanDeleteGroup(membership) {
		return apierr.New(apierr.Forbidden, "bad request - user is not admin")
	}

	if err := e.store.DeleteGroup(ctx, groupCode); err != nil {
		return err
	}

	for _, m := range membership.Group.Members {
		if !m.Accepted {
			// Pending invites have no profile-side record to remove;
			// they died with the group.
			continue
		}
		if err := e.store.DetachGroup(ctx, membership.Group.ID, m.Email); err != nil {
			e.log.Error("group deleted but member profile still references it",
				zap.String("group_code", groupCode),
				zap.String("email", m.Email),
				zap.Error(err))
			return err
		}
	}

	return nil
}

// Invite creates a pending membership on the group side. The invitee's
// profile is untouched until they accept. Any member of the group may
// invite.
func (e *Engine) Invite(ctx context.Context, requester models.User, groupCode, email string) error {
	membership, ok := requester.FindGroup(groupCode)
	if !ok {
		return apierr.New(apierr.NotFound, "bad request - user is not a member of this group")
	}
	if !grouppolicy.CanInvite(membership) {
		return apierr.New(apierr.Forbidden, "bad request")
	}

	return e.store.CreateInvite(ctx, groupCode, email)
}

// Accept turns the requester's pending invite into a full membership.
// Acceptance always joins as a non-admin; only group creation grants admin.
//
// Steps: (1) mark the group-side invite accepted (fails when no invite
// exists, mutating nothing), (2) attach the membership to the requester's
// profile. A failure after step 1 leaves the invite accepted with the
// profile unaware; logged, not rolled back.
func (e *Engine) Accept(ctx context.Context, requester models.User, groupCode string) error {
	group, err := e.store.AcceptInvite(ctx, groupCode, requester.Email, requester.ID)
	if err != nil {
		return err
	}

	if err := e.store.AttachGroup(ctx, group.ID, requester.Email, false); err != nil {
		e.log.Error("invite accepted but membership not attached to profile",
			zap.String("group_code", groupCode),
			zap.String("email", requester.Email),
			zap.Error(err))
		return err
	}

	return nil
}

// RemoveMember removes email from the group. The XOR guard admits exactly
// one of {admin removing someone else, member removing themself}.
//
// Steps: (1) delete the group-side member entry, (2) only when the removed
// record had accepted=true, detach the group from that member's profile —
// a still-pending invite has no profile-side record, so step 2 is skipped
// and no detach call is issued.
func (e *Engine) RemoveMember(ctx context.Context, requester models.User, groupCode, email string) error {
	membership, ok := requester.FindGroup(groupCode)
	if !ok {
		return apierr.New(apierr.NotFound, "bad request - user is not a member of this group")
	}
	if !grouppolicy.CanRemoveMember(membership, requester.Email, email) {
		return apierr.New(apierr.Forbidden, "bad request")
	}

	target, ok := membership.Group.FindMember(email)
	if !ok {
		return apierr.New(apierr.NotFound, "bad request - no such member in this group")
	}

	group, err := e.store.RemoveMember(ctx, groupCode, email)
	if err != nil {
		return err
	}

	if target.Accepted {
		if err := e.store.DetachGroup(ctx, group.ID, email); err != nil {
			e.log.Error("member removed from group but profile still references it",
				zap.String("group_code", groupCode),
				zap.String("email", email),
				zap.Error(err))
			return err
		}
	}

	return nil
}
