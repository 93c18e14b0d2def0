package state

import "github.com/mykitchen/kitchen/internal/app/model"

// Session holds the signed-in identity (nil when signed out) and whether
// session restoration has completed. Ready only ever moves from false to true.
type Session struct {
	Identity *model.Identity `json:"user"`
	Ready    bool            `json:"authReady"`
}

func (s Session) Apply(ev Event) Session {
	switch e := ev.(type) {
	case SetSession:
		if e.Identity == (model.Identity{}) {
			return s
		}
		id := e.Identity
		s.Identity = &id
	case ClearSession:
		s.Identity = nil
	case MarkReady:
		s.Ready = true
	}
	return s
}

// SignedIn reports whether an identity is present.
func (s Session) SignedIn() bool {
	return s.Identity != nil
}
