package service

import "github.com/userdesk/backend/internal/model"

// Authorization guard. Decisions derive from the caller's role permissions
// and resource ownership, evaluated fresh on every call.

func canViewUser(caller *model.AuthUser, target *model.User) bool {
	if caller.Login == target.Login {
		return model.HasPermission(caller.Role, model.PermReadSelf)
	}
	return model.HasPermission(caller.Role, model.PermReadAny)
}

func canModifyUser(caller *model.AuthUser, target *model.User) bool {
	if caller.Login == target.Login {
		return model.HasPermission(caller.Role, model.PermWriteSelf)
	}
	return model.HasPermission(caller.Role, model.PermWriteAny)
}

// Self-deletion is denied for every role, admins included.
func canDeleteUser(caller *model.AuthUser, target *model.User) error {
	if caller.Login == target.Login {
		return ErrSelfDelete
	}
	if !model.HasPermission(caller.Role, model.PermDeleteAny) {
		return ErrForbidden
	}
	return nil
}
