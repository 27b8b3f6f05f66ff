package domain

// Likes summarizes like membership for a post. Users is a set keyed by
// user id; Count always equals len(Users).
type Likes struct {
	Count int           `json:"count"`
	Users []UserSummary `json:"users"`
}

func (l *Likes) Contains(userId UserId) bool {
	for _, u := range l.Users {
		if u.Id == userId {
			return true
		}
	}
	return false
}
