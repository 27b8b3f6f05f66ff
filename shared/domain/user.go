package domain

// UserSummary is the denormalized author shape attached to posts,
// comments, replies and likes. It is all the client ever needs to
// render an author line.
type UserSummary struct {
	Id        UserId `json:"id"`
	Name      string `json:"name"`
	AvatarUrl string `json:"avatar_url"`
}

// DefaultAvatar is substituted when a profile carries no image.
const DefaultAvatar = "/images/default-profile.png"
