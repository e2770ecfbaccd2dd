package rbac

import "strings"

// Role is the closed set of privilege levels. The store holds roles as
// strings; ParseRole resolves them once at the boundary and nothing else in
// the codebase compares role strings directly.
type Role int8

const (
	RoleUser Role = iota
	RoleStudent
	RoleTeacher
	RoleAdmin
	RoleSuperAdmin
)

// rank table; strictly increasing with privilege. Gaps leave room for
// intermediate roles without renumbering.
var roleRanks = map[Role]int{
	RoleUser:       10,
	RoleStudent:    20,
	RoleTeacher:    30,
	RoleAdmin:      40,
	RoleSuperAdmin: 50,
}

// adminRank is the threshold at or above which an actor may mutate managed
// entities (programs, news, gallery, applications, students, messages, settings).
var adminRank = roleRanks[RoleAdmin]

var roleNames = map[Role]string{
	RoleUser:       "User",
	RoleStudent:    "Student",
	RoleTeacher:    "Teacher",
	RoleAdmin:      "Admin",
	RoleSuperAdmin: "SuperAdmin",
}

// roleAliases maps label spellings seen across deployment iterations to the
// closed set. Matching is case-insensitive after trimming.
var roleAliases = map[string]Role{
	"user":        RoleUser,
	"siswa":       RoleStudent,
	"student":     RoleStudent,
	"guru":        RoleTeacher,
	"teacher":     RoleTeacher,
	"admin":       RoleAdmin,
	"superadmin":  RoleSuperAdmin,
	"super admin": RoleSuperAdmin,
}

// AllRoles in ascending privilege order.
var AllRoles = []Role{RoleUser, RoleStudent, RoleTeacher, RoleAdmin, RoleSuperAdmin}

func (r Role) Rank() int {
	return roleRanks[r]
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return roleNames[RoleUser]
}

// IsMaximal reports whether r is the single maximal role.
func (r Role) IsMaximal() bool {
	return r == RoleSuperAdmin
}

// IsAdmin reports whether r meets the managed-entity mutation threshold.
func (r Role) IsAdmin() bool {
	return r.Rank() >= adminRank
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	*r = ParseRole(string(text))
	return nil
}

// ParseRole resolves a raw role string to the closed set. Unknown labels
// resolve to the minimal role rather than failing: a record with a garbled
// role must never gain privilege by accident.
func ParseRole(s string) Role {
	if role, ok := roleAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return role
	}
	return RoleUser
}

// ValidRole reports whether s resolves to a known role label.
func ValidRole(s string) bool {
	_, ok := roleAliases[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// CanAssign reports whether an actor holding actorRole may hand out
// targetRole. Actors never assign a role at or above their own; the maximal
// role may assign anything.
func CanAssign(actorRole, targetRole Role) bool {
	if actorRole.IsMaximal() {
		return true
	}
	return actorRole.Rank() > targetRole.Rank()
}
