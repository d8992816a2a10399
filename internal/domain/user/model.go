package user

const (
	RoleReferee = "referee"
	RoleAdmin   = "admin"
)

// Principal is the authenticated identity returned by the account service.
// The core trusts it and never re-authenticates.
type Principal struct {
	UserID        string
	Email         string
	Role          string
	AdminClubIDs  []string
	MemberClubIDs []string
}

func (p Principal) IsAdminOf(clubID string) bool {
	for _, id := range p.AdminClubIDs {
		if id == clubID {
			return true
		}
	}
	return false
}

func (p Principal) IsMemberOf(clubID string) bool {
	for _, id := range p.MemberClubIDs {
		if id == clubID {
			return true
		}
	}
	return p.IsAdminOf(clubID)
}
