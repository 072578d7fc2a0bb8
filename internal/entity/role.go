package entity

// DbRole holds the capability flags granted to a role name. The admin role
// never needs a row: it is granted every capability implicitly.
type DbRole struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	RoleName  string `gorm:"column:role_name;type:varchar(50);uniqueIndex;not null" json:"role_name"`
	CanView   bool   `gorm:"column:can_view;not null" json:"can_view"`
	CanCreate bool   `gorm:"column:can_create;not null" json:"can_create"`
	CanEdit   bool   `gorm:"column:can_edit;not null" json:"can_edit"`
	CanDelete bool   `gorm:"column:can_delete;not null" json:"can_delete"`
}

func (DbRole) TableName() string {
	return "roles"
}
