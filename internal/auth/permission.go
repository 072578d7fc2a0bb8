package auth

import (
	"sort"

	"repairorder/internal/entity"
)

// Permission is a named capability granted to a role.
type Permission string

const (
	PermissionView   Permission = "can_view"
	PermissionCreate Permission = "can_create"
	PermissionEdit   Permission = "can_edit"
	PermissionDelete Permission = "can_delete"
)

// roleFlags maps each permission to the role column that grants it.
var roleFlags = map[Permission]func(*entity.DbRole) bool{
	PermissionView:   func(r *entity.DbRole) bool { return r.CanView },
	PermissionCreate: func(r *entity.DbRole) bool { return r.CanCreate },
	PermissionEdit:   func(r *entity.DbRole) bool { return r.CanEdit },
	PermissionDelete: func(r *entity.DbRole) bool { return r.CanDelete },
}

// AllPermissions lists every known permission in a stable order.
func AllPermissions() []Permission {
	all := make([]Permission, 0, len(roleFlags))
	for p := range roleFlags {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

// Valid reports whether p is a known permission.
func (p Permission) Valid() bool {
	_, ok := roleFlags[p]
	return ok
}

// PermissionSet is the resolved set of capabilities for one role.
type PermissionSet map[Permission]bool

// PermissionsFromRole resolves a role row into its permission set.
func PermissionsFromRole(role *entity.DbRole) PermissionSet {
	set := PermissionSet{}
	if role == nil {
		return set
	}
	for p, granted := range roleFlags {
		if granted(role) {
			set[p] = true
		}
	}
	return set
}

// AdminPermissions grants every known permission.
func AdminPermissions() PermissionSet {
	set := PermissionSet{}
	for p := range roleFlags {
		set[p] = true
	}
	return set
}

// Has reports whether p is granted.
func (s PermissionSet) Has(p Permission) bool {
	return s[p]
}

// Names returns the granted permission names, sorted.
func (s PermissionSet) Names() []string {
	names := make([]string, 0, len(s))
	for p, granted := range s {
		if granted {
			names = append(names, string(p))
		}
	}
	sort.Strings(names)
	return names
}
