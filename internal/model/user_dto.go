package model

// AuthUser is the authenticated principal placed on the request context by
// the auth middleware.
type AuthUser struct {
	ID string `json:"id"`
}

// ActionResponse acknowledges state-changing calls that return no entity,
// such as blocking and unblocking.
type ActionResponse struct {
	Message string `json:"message"`
}

type UserSummary struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Headline       string `json:"headline,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}
