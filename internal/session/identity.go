package session

// Identity is the session's current identity. The zero value is a guest:
// no backing account, cart and wishlist live only in the local snapshot
// cache.
type Identity struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// Guest is the unauthenticated identity.
var Guest = Identity{}

func (i Identity) IsGuest() bool {
	return i.UserID == ""
}

// Provider is the identity collaborator. Implementations invoke the
// registered callbacks with the new identity on every sign-in and
// sign-out.
type Provider interface {
	CurrentIdentity() Identity
	OnIdentityChange(func(Identity))
}
