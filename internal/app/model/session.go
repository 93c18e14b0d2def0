package model

// Identity is the signed-in user as seen by the client. A nil *Identity means
// signed out.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`

	// Token is the provider session token used to revalidate a restored session.
	Token string `json:"token,omitempty"`
}

// Clone returns a copy, or nil for a nil identity.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
